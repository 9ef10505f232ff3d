package realtime

import (
	"encoding/json"
	"errors"

	"fulfillment/internal/pkg/errs"
)

// Client events.
const (
	EventDriverJoin       = "driver:join"
	EventDriverLocation   = "driver:location"
	EventOrderTrack       = "order:track"
	EventOrderUntrack     = "order:untrack"
	EventDistributorJoin  = "distributor:join"
	EventChatCustomerJoin = "chat:customer_join"
	EventChatAgentJoin    = "chat:agent_join"
	EventChatOpen         = "chat:conversation_open"
	EventChatMessageSend  = "chat:message_send"
	EventChatTypingStart  = "chat:typing_start"
	EventChatTypingStop   = "chat:typing_stop"
	EventChatAssign       = "chat:conversation_assign"
	EventChatMarkRead     = "chat:messages_mark_read"
	EventChatClose        = "chat:conversation_close"
)

// Server pushes.
const (
	EventAck           = "ack"
	EventError         = "error"
	EventOrderNew      = "order:new"
	EventOrderStatus   = "order:status"
	EventOrderAssigned = "order:assigned"

	EventChatMessage         = "chat:message"
	EventChatCustomerMessage = "chat:customer_message"
	EventChatAgentOnline     = "chat:agent_online"
	EventChatConversationNew = "chat:conversation_new"
	EventChatTyping          = "chat:typing"
	EventChatAssigned        = "chat:conversation_assigned"
	EventChatRead            = "chat:messages_read"
	EventChatClosed          = "chat:conversation_closed"
)

var ErrMalformedFrame = errs.NewValueIsInvalidErrorWithCause("frame", errors.New(`expected {"event": "...", "data": {...}}`))

// Inbound is a client frame.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbound is a server frame.
type Outbound struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type ackData struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type errorData struct {
	Event   string    `json:"event,omitempty"`
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func decodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil || in.Event == "" {
		return Inbound{}, ErrMalformedFrame
	}
	return in, nil
}

// decodeData unmarshals the payload of in into T.
func decodeData[T any](in Inbound) (T, error) {
	var data T
	if len(in.Data) == 0 {
		return data, errs.NewValueIsRequiredError("data")
	}
	if err := json.Unmarshal(in.Data, &data); err != nil {
		return data, errs.NewValueIsInvalidErrorWithCause("data", err)
	}
	return data, nil
}

func ackFrame(event string, data any) Outbound {
	return Outbound{Event: EventAck, Data: ackData{Event: event, Data: data}}
}

// errorFrame hides the message of internal failures.
func errorFrame(event string, err error) Outbound {
	code := errs.CodeOf(err)
	message := err.Error()
	if code == errs.CodeInternal {
		message = "internal error"
	}
	return Outbound{Event: EventError, Data: errorData{Event: event, Code: code, Message: message}}
}
