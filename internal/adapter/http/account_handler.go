package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/middleware"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/account"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

func (h *AccountHandler) Profile(c echo.Context) error {
	acct := middleware.CurrentAccount(c)
	return c.JSON(http.StatusOK, h.uc.Profile(c.Request().Context(), acct))
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req account.UpdateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	acct := middleware.CurrentAccount(c)
	updated, err := h.uc.Update(c.Request().Context(), acct, req)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}
