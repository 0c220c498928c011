package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/middleware"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/lend"
)

type LendHandler struct{ uc *lend.Usecase }

func NewLendHandler(uc *lend.Usecase) *LendHandler { return &LendHandler{uc: uc} }

type acceptRequestReq struct {
	// optional counter-offer on the rate; nil keeps the borrower's ask
	InterestBps *int `json:"interest_rate_bps" validate:"omitempty,bps"`
}

func (h *LendHandler) AcceptRequest(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	var req acceptRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	acct := middleware.CurrentAccount(c)
	res, err := h.uc.Accept(c.Request().Context(), requestID, acct, req.InterestBps)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LendHandler) History(c echo.Context) error {
	acct := middleware.CurrentAccount(c)
	dtos, err := h.uc.History(c.Request().Context(), acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LendHandler) MarkDefault(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	acct := middleware.CurrentAccount(c)
	receipt, err := h.uc.MarkDefault(c.Request().Context(), requestID, acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"request_id": requestID,
		"status":     "defaulted",
		"tx_hash":    receipt.TxHash,
	})
}
