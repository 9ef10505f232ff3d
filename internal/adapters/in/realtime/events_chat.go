package realtime

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/pkg/auth"
	"fulfillment/internal/pkg/errs"
)

// historyLimit bounds the history sent when an agent opens a conversation.
const historyLimit = 50

type conversationData struct {
	ConversationID string `json:"conversationId"`
}

type messageSendData struct {
	ConversationID string `json:"conversationId"`
	Body           string `json:"body"`
}

type assignData struct {
	ConversationID string `json:"conversationId"`
	AgentID        string `json:"agentId,omitempty"`
}

// ConversationView is the wire form of a conversation.
type ConversationView struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	AgentID    string    `json:"agentId,omitempty"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MessageView is the wire form of a chat message.
type MessageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderType     string    `json:"senderType"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewConversationView(c *chat.Conversation) ConversationView {
	view := ConversationView{
		ID:         c.ID().String(),
		CustomerID: c.CustomerID().String(),
		Status:     string(c.Status()),
		UpdatedAt:  c.UpdatedAt(),
	}
	if agentID := c.AgentID(); agentID != nil {
		view.AgentID = agentID.String()
	}
	return view
}

func NewMessageView(m chat.Message) MessageView {
	return MessageView{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		SenderType:     string(m.SenderType),
		Body:           m.Body,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

// participant maps the session identity onto its chat role.
func participant(s *Session) (chat.Participant, error) {
	identity, ok := s.Identity()
	if !ok {
		return chat.Participant{}, errs.ErrAuthRequired
	}
	if identity.HasRole(auth.RoleAgent, auth.RoleAdmin) {
		return chat.Agent(identity.UserID), nil
	}
	return chat.Customer(identity.UserID), nil
}

func (g *Gateway) chatCustomerJoin(ctx context.Context, s *Session, _ Inbound) (any, error) {
	identity, _ := s.Identity()

	cmd, err := commands.NewOpenConversationCommand(identity.UserID)
	if err != nil {
		return nil, err
	}
	conversation, created, err := g.handlers.OpenConversation.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	g.hub.Join(s, ConversationRoom(conversation.ID()))
	if created {
		g.hub.Publish(ctx, AgentsRoom, EventChatConversationNew, NewConversationView(conversation))
	}
	return NewConversationView(conversation), nil
}

func (g *Gateway) chatAgentJoin(ctx context.Context, s *Session, _ Inbound) (any, error) {
	identity, err := requireRole(s, auth.RoleAgent, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	g.hub.Join(s, AgentsRoom)
	g.hub.PublishExcept(ctx, AgentsRoom, s, EventChatAgentOnline, map[string]string{
		"agentId": identity.UserID.String(),
	})
	return map[string]string{"room": AgentsRoom}, nil
}

// chatOpen joins an agent to a conversation room and returns its recent history.
func (g *Gateway) chatOpen(ctx context.Context, s *Session, in Inbound) (any, error) {
	if _, err := requireRole(s, auth.RoleAgent, auth.RoleAdmin); err != nil {
		return nil, err
	}
	data, err := decodeData[conversationData](in)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversationId", data.ConversationID)
	if err != nil {
		return nil, err
	}
	viewer, err := participant(s)
	if err != nil {
		return nil, err
	}

	query, err := queries.NewConversationMessagesQuery(conversationID, viewer, historyLimit, 0)
	if err != nil {
		return nil, err
	}
	messages, err := g.handlers.ConversationMessages.Handle(ctx, query)
	if err != nil {
		return nil, err
	}

	g.hub.Join(s, ConversationRoom(conversationID))

	history := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		history = append(history, NewMessageView(m))
	}
	return map[string]any{"room": ConversationRoom(conversationID), "messages": history}, nil
}

// chatMessageSend persists first and broadcasts after, so history never lacks
// a message seen live.
func (g *Gateway) chatMessageSend(ctx context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[messageSendData](in)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversationId", data.ConversationID)
	if err != nil {
		return nil, err
	}
	sender, err := participant(s)
	if err != nil {
		return nil, err
	}

	cmd, err := commands.NewSendChatMessageCommand(conversationID, sender, data.Body)
	if err != nil {
		return nil, err
	}
	msg, err := g.handlers.SendChatMessage.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	view := NewMessageView(msg)
	g.hub.Publish(ctx, ConversationRoom(conversationID), EventChatMessage, view)
	if msg.SenderType == chat.SenderCustomer {
		g.hub.Publish(ctx, AgentsRoom, EventChatCustomerMessage, map[string]any{"message": view})
	}
	return view, nil
}

// chatTyping relays typing state to the rest of the conversation room. It is
// never stored.
func (g *Gateway) chatTyping(typing bool) eventHandler {
	return func(ctx context.Context, s *Session, in Inbound) (any, error) {
		data, err := decodeData[conversationData](in)
		if err != nil {
			return nil, err
		}
		conversationID, err := parseID("conversationId", data.ConversationID)
		if err != nil {
			return nil, err
		}
		room := ConversationRoom(conversationID)
		if !g.hub.IsMember(s, room) {
			return nil, errs.ErrUnauthorized
		}
		sender, err := participant(s)
		if err != nil {
			return nil, err
		}

		g.hub.PublishExcept(ctx, room, s, EventChatTyping, map[string]any{
			"conversationId": conversationID.String(),
			"userId":         sender.ID.String(),
			"senderType":     string(sender.Type),
			"typing":         typing,
		})
		return nil, nil
	}
}

// chatAssign hands a conversation to an agent, the caller by default.
func (g *Gateway) chatAssign(ctx context.Context, s *Session, in Inbound) (any, error) {
	identity, err := requireRole(s, auth.RoleAgent, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	data, err := decodeData[assignData](in)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversationId", data.ConversationID)
	if err != nil {
		return nil, err
	}
	agentID := identity.UserID
	if data.AgentID != "" {
		if agentID, err = parseID("agentId", data.AgentID); err != nil {
			return nil, err
		}
	}

	cmd, err := commands.NewAssignConversationCommand(conversationID, agentID)
	if err != nil {
		return nil, err
	}
	conversation, err := g.handlers.AssignConversation.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	view := NewConversationView(conversation)
	g.hub.Publish(ctx, ConversationRoom(conversationID), EventChatAssigned, view)
	g.hub.Publish(ctx, AgentsRoom, EventChatAssigned, view)
	return view, nil
}

func (g *Gateway) chatMarkRead(ctx context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[conversationData](in)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversationId", data.ConversationID)
	if err != nil {
		return nil, err
	}
	reader, err := participant(s)
	if err != nil {
		return nil, err
	}

	cmd, err := commands.NewMarkMessagesReadCommand(conversationID, reader)
	if err != nil {
		return nil, err
	}
	n, err := g.handlers.MarkMessagesRead.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	receipt := map[string]any{
		"conversationId": conversationID.String(),
		"readerType":     string(reader.Type),
		"count":          n,
	}
	if n > 0 {
		g.hub.PublishExcept(ctx, ConversationRoom(conversationID), s, EventChatRead, receipt)
	}
	return receipt, nil
}

func (g *Gateway) chatClose(ctx context.Context, s *Session, in Inbound) (any, error) {
	data, err := decodeData[conversationData](in)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID("conversationId", data.ConversationID)
	if err != nil {
		return nil, err
	}
	by, err := participant(s)
	if err != nil {
		return nil, err
	}

	cmd, err := commands.NewCloseConversationCommand(conversationID, by)
	if err != nil {
		return nil, err
	}
	conversation, err := g.handlers.CloseConversation.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	view := NewConversationView(conversation)
	g.hub.PublishExcept(ctx, ConversationRoom(conversationID), s, EventChatClosed, view)
	return view, nil
}
