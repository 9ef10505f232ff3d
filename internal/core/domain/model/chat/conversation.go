package chat

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrConversationIsNotConstructed = errors.New("Conversation must be created via NewConversation constructor")
	ErrConversationIsClosed         = errs.NewValueIsInvalidErrorWithCause("conversation", errors.New("conversation is closed"))
)

// Status of a conversation.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusClosed:
		return Status(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("conversationStatus", fmt.Errorf("%q is not a valid status", s))
	}
}

// Conversation is the aggregate root of a support thread.
type Conversation struct {
	id         kernel.UUID
	customerID kernel.UUID
	agentID    *kernel.UUID
	status     Status
	createdAt  time.Time
	updatedAt  time.Time

	isConstructed bool
}

// NewConversation opens an active, unassigned conversation for customerID.
func NewConversation(id, customerID kernel.UUID, at time.Time) (*Conversation, error) {
	if err := errors.Join(id.Validate(), customerID.Validate()); err != nil {
		return nil, err
	}
	return &Conversation{
		id:            id,
		customerID:    customerID,
		status:        StatusActive,
		createdAt:     at.UTC(),
		updatedAt:     at.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreConversation rebuilds a conversation loaded from storage.
func RestoreConversation(
	id, customerID kernel.UUID,
	agentID *kernel.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) (*Conversation, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	c, err := NewConversation(id, customerID, createdAt)
	if err != nil {
		return nil, err
	}
	c.agentID = agentID
	c.status = status
	c.updatedAt = updatedAt
	return c, nil
}

func (c *Conversation) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConversationIsNotConstructed
	}
	return nil
}

func (c *Conversation) ID() kernel.UUID         { return c.id }
func (c *Conversation) CustomerID() kernel.UUID { return c.customerID }
func (c *Conversation) AgentID() *kernel.UUID   { return c.agentID }
func (c *Conversation) Status() Status          { return c.status }
func (c *Conversation) CreatedAt() time.Time    { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time    { return c.updatedAt }

func (c *Conversation) IsActive() bool {
	return c.status == StatusActive
}

// IsCustomer reports whether userID owns the conversation.
func (c *Conversation) IsCustomer(userID kernel.UUID) bool {
	return c.customerID.IsEqual(userID)
}

// AssignAgent hands the conversation to agentID, replacing any previous agent.
func (c *Conversation) AssignAgent(agentID kernel.UUID, at time.Time) error {
	if err := agentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("agentId", err)
	}
	if !c.IsActive() {
		return ErrConversationIsClosed
	}
	c.agentID = &agentID
	c.updatedAt = at.UTC()
	return nil
}

// Close ends the conversation. Closing twice is a no-op.
func (c *Conversation) Close(at time.Time) {
	if c.status == StatusClosed {
		return
	}
	c.status = StatusClosed
	c.updatedAt = at.UTC()
}

// Touch records activity on the conversation.
func (c *Conversation) Touch(at time.Time) {
	c.updatedAt = at.UTC()
}
