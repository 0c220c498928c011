package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/middleware"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/credit"
)

type CreditHandler struct{ uc *credit.Usecase }

func NewCreditHandler(uc *credit.Usecase) *CreditHandler { return &CreditHandler{uc: uc} }

func (h *CreditHandler) Score(c echo.Context) error {
	acct := middleware.CurrentAccount(c)
	dto, err := h.uc.ScoreFor(c.Request().Context(), acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditHandler) History(c echo.Context) error {
	acct := middleware.CurrentAccount(c)
	loans, err := h.uc.History(c.Request().Context(), acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *CreditHandler) Refresh(c echo.Context) error {
	acct := middleware.CurrentAccount(c)
	dto, err := h.uc.Refresh(c.Request().Context(), acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
