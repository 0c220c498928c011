package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/middleware"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/payment"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

func (h *PaymentHandler) PayInstallment(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	acct := middleware.CurrentAccount(c)
	res, err := h.uc.Pay(c.Request().Context(), requestID, acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ExchangeRate returns the current ETH/INR rate. An optional amount_inr
// query parameter converts that fiat amount in the same response.
func (h *PaymentHandler) ExchangeRate(c echo.Context) error {
	ctx := c.Request().Context()

	if raw := c.QueryParam("amount_inr"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount_inr must be a number"})
		}
		dto, err := h.uc.ConvertINRToETH(ctx, amount)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	}

	rate, err := h.uc.ExchangeRate(ctx)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"currency": "INR", "eth_rate": rate})
}
