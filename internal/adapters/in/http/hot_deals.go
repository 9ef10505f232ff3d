package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// RecordHotDealSale handles POST /hot-deals/:id/sold.
func (s *Server) RecordHotDealSale(ctx echo.Context) error {
	dealID, err := requiredUUID("id", ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewRecordHotDealSaleCommand(dealID)
	if err != nil {
		return s.fail(ctx, err)
	}

	sold, err := s.handlers.RecordHotDealSale.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, HotDealSale{ID: dealID.String(), SoldCount: sold})
}
