package chat_test

import (
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func mustConversation(t *testing.T) *chat.Conversation {
	t.Helper()
	c, err := chat.NewConversation(kernel.NewUUID(), kernel.NewUUID(), now)
	require.NoError(t, err)
	return c
}

func TestNewConversation(t *testing.T) {
	c := mustConversation(t)

	require.NoError(t, c.Validate())
	assert.True(t, c.IsActive())
	assert.Nil(t, c.AgentID())

	_, err := chat.NewConversation(kernel.NewUUID(), kernel.UUID{}, now)
	require.Error(t, err)
}

func TestConversation_AssignAndClose(t *testing.T) {
	c := mustConversation(t)
	agentID := kernel.NewUUID()

	require.NoError(t, c.AssignAgent(agentID, now))
	require.NotNil(t, c.AgentID())
	assert.True(t, agentID.IsEqual(*c.AgentID()))

	c.Close(now.Add(time.Minute))
	assert.Equal(t, chat.StatusClosed, c.Status())
	assert.Equal(t, now.Add(time.Minute), c.UpdatedAt())

	c.Close(now.Add(time.Hour))
	assert.Equal(t, now.Add(time.Minute), c.UpdatedAt())

	require.ErrorIs(t, c.AssignAgent(kernel.NewUUID(), now), errs.ErrValueIsInvalid)
}

func TestRestoreConversation(t *testing.T) {
	_, err := chat.RestoreConversation(kernel.NewUUID(), kernel.NewUUID(), nil, "archived", now, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	agentID := kernel.NewUUID()
	c, err := chat.RestoreConversation(kernel.NewUUID(), kernel.NewUUID(), &agentID, chat.StatusClosed, now, now)
	require.NoError(t, err)
	assert.False(t, c.IsActive())
}

func TestNewMessage(t *testing.T) {
	c := mustConversation(t)

	m, err := chat.NewMessage(kernel.NewUUID(), c, c.CustomerID(), chat.SenderCustomer, "  where is my order?  ", now)
	require.NoError(t, err)
	assert.Equal(t, "where is my order?", m.Body)
	assert.False(t, m.IsRead)
	assert.True(t, c.ID().IsEqual(m.ConversationID))
}

func TestNewMessage_Validation(t *testing.T) {
	c := mustConversation(t)

	_, err := chat.NewMessage(kernel.NewUUID(), c, c.CustomerID(), chat.SenderCustomer, "   ", now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = chat.NewMessage(kernel.NewUUID(), c, c.CustomerID(), "bot", "hi", now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = chat.NewMessage(kernel.NewUUID(), c, c.CustomerID(), chat.SenderCustomer,
		strings.Repeat("x", chat.MaxMessageLength+1), now)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	c.Close(now)
	_, err = chat.NewMessage(kernel.NewUUID(), c, c.CustomerID(), chat.SenderCustomer, "hi", now)
	require.ErrorIs(t, err, chat.ErrConversationIsClosed)
}

func TestParticipant_CanAccess(t *testing.T) {
	c := mustConversation(t)

	assert.NoError(t, chat.Customer(c.CustomerID()).CanAccess(c))
	assert.NoError(t, chat.Agent(kernel.NewUUID()).CanAccess(c))
	assert.ErrorIs(t, chat.Customer(kernel.NewUUID()).CanAccess(c), errs.ErrUnauthorized)
	assert.ErrorIs(t, chat.Participant{ID: kernel.NewUUID(), Type: "bot"}.CanAccess(c), errs.ErrUnauthorized)
}
