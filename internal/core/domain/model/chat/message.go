package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const MaxMessageLength = 4000

// SenderType tells who wrote a message.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
)

// Message is an immutable entry of a conversation, except for its read flag.
type Message struct {
	ID             kernel.UUID
	ConversationID kernel.UUID
	SenderID       kernel.UUID
	SenderType     SenderType
	Body           string
	IsRead         bool
	CreatedAt      time.Time
}

// NewMessage validates the body and the sender. A closed conversation accepts no messages.
func NewMessage(
	id kernel.UUID,
	conversation *Conversation,
	senderID kernel.UUID,
	senderType SenderType,
	body string,
	at time.Time,
) (Message, error) {
	if err := conversation.Validate(); err != nil {
		return Message{}, err
	}
	if !conversation.IsActive() {
		return Message{}, ErrConversationIsClosed
	}

	body = strings.TrimSpace(body)
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := senderID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("senderId", err))
	}
	if senderType != SenderCustomer && senderType != SenderAgent {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"senderType", fmt.Errorf("%q is not a valid sender type", senderType)))
	}
	if body == "" {
		problems = append(problems, errs.NewValueIsRequiredError("body"))
	}
	if n := utf8.RuneCountInString(body); n > MaxMessageLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("body", n, 1, MaxMessageLength))
	}
	if err := errors.Join(problems...); err != nil {
		return Message{}, err
	}

	return Message{
		ID:             id,
		ConversationID: conversation.ID(),
		SenderID:       senderID,
		SenderType:     senderType,
		Body:           body,
		CreatedAt:      at.UTC(),
	}, nil
}
