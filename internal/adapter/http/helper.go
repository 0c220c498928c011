package http

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/apperr"
)

// writeDomainError maps a usecase error onto the JSON error envelope with
// the status apperr assigns to its kind.
func writeDomainError(c echo.Context, err error) error {
	return c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
