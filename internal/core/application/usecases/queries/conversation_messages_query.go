package queries

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConversationMessagesQueryIsNotConstructed = errors.New(
	"ConversationMessagesQuery must be created via NewConversationMessagesQuery constructor",
)

// ConversationMessagesQuery fetches a page of a conversation's history on
// behalf of viewer.
type ConversationMessagesQuery struct {
	conversationID kernel.UUID
	viewer         chat.Participant
	limit          int
	offset         int

	guard guard.ConstructorGuard
}

func NewConversationMessagesQuery(
	conversationID kernel.UUID,
	viewer chat.Participant,
	limit, offset int,
) (ConversationMessagesQuery, error) {
	var problems []error
	if err := conversationID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("conversationId", err))
	}
	if err := viewer.ID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("viewerId", err))
	}
	if limit == 0 {
		limit = MaxPageSize
	}
	if limit < 1 || limit > MaxPageSize {
		problems = append(problems, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize))
	}
	if offset < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("offset", fmt.Errorf("%d is negative", offset)))
	}
	if err := errors.Join(problems...); err != nil {
		return ConversationMessagesQuery{}, err
	}

	return ConversationMessagesQuery{
		conversationID: conversationID,
		viewer:         viewer,
		limit:          limit,
		offset:         offset,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q ConversationMessagesQuery) Validate() error {
	return q.guard.Validate(ErrConversationMessagesQueryIsNotConstructed)
}

func (q ConversationMessagesQuery) ConversationID() kernel.UUID { return q.conversationID }
func (q ConversationMessagesQuery) Viewer() chat.Participant    { return q.viewer }
func (q ConversationMessagesQuery) Limit() int                  { return q.limit }
func (q ConversationMessagesQuery) Offset() int                 { return q.offset }
