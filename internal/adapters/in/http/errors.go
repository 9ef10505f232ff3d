package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every failed request.
type Error struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

type InsufficientStockDetails struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func statusOf(code errs.Code) int {
	switch code {
	case errs.CodeValidation:
		return http.StatusBadRequest
	case errs.CodeAuthRequired:
		return http.StatusUnauthorized
	case errs.CodeUnauthorized:
		return http.StatusForbidden
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeInsufficientStock, errs.CodeSlotFull, errs.CodeInvalidTransition:
		return http.StatusConflict
	case errs.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status code and an Error body. Internal failures
// are answered without their message.
func writeError(ctx echo.Context, err error) error {
	var bindErr *echo.HTTPError
	if errors.As(err, &bindErr) {
		return ctx.JSON(bindErr.Code, Error{
			Code:    errs.CodeValidation,
			Message: "Invalid request body",
		})
	}

	code := errs.CodeOf(err)
	body := Error{Code: code, Message: err.Error()}

	var stockErr *errs.InsufficientStockError
	if errors.As(err, &stockErr) {
		body.Details = InsufficientStockDetails{
			ProductID: stockErr.ProductID,
			Requested: stockErr.Requested,
			Available: stockErr.Available,
		}
	}
	if code == errs.CodeInternal {
		body.Message = "Internal server error"
	}

	return ctx.JSON(statusOf(code), body)
}
