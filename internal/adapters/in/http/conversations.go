package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/pkg/auth"

	"github.com/labstack/echo/v4"
)

// ConversationMessages handles GET /conversations/:id/messages for the
// conversation's customer and for agents.
func (s *Server) ConversationMessages(ctx echo.Context) error {
	conversationID, err := requiredUUID("id", ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	limit, err := intParam(ctx, "limit")
	if err != nil {
		return s.fail(ctx, err)
	}
	offset, err := intParam(ctx, "offset")
	if err != nil {
		return s.fail(ctx, err)
	}

	identity, _ := identityFrom(ctx)
	viewer := chat.Customer(identity.UserID)
	if identity.HasRole(auth.RoleAgent, auth.RoleAdmin) {
		viewer = chat.Agent(identity.UserID)
	}

	query, err := queries.NewConversationMessagesQuery(conversationID, viewer, limit, offset)
	if err != nil {
		return s.fail(ctx, err)
	}

	messages, err := s.handlers.ConversationMessages.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		response = append(response, newChatMessage(m))
	}

	return ctx.JSON(http.StatusOK, response)
}
