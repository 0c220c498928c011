package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/middleware"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/borrow"
)

type BorrowHandler struct{ uc *borrow.Usecase }

func NewBorrowHandler(uc *borrow.Usecase) *BorrowHandler { return &BorrowHandler{uc: uc} }

type createRequestReq struct {
	Amount            float64 `json:"amount"              validate:"required,gt=0,dec6"`
	DurationDays      int     `json:"duration_days"       validate:"required,gte=1,lte=3650"`
	InterestBps       int     `json:"interest_rate_bps"   validate:"bps"`
	TotalInstallments int     `json:"total_installments"  validate:"required,gte=1,lte=120"`
	CollateralType    string  `json:"collateral_type"     validate:"required,oneof=OwnETH FriendETH Physical"`
	FriendWallet      string  `json:"friend_wallet"       validate:"omitempty,ethaddr"`
	PhysicalContacts  string  `json:"physical_contacts"`
}

func (h *BorrowHandler) CreateRequest(c echo.Context) error {
	var req createRequestReq
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
	dto, err := h.uc.Create(c.Request().Context(), acct, borrow.CreateInput{
		BorrowerWallet:    acct.WalletAddress,
		Amount:            req.Amount,
		DurationDays:      req.DurationDays,
		InterestBps:       req.InterestBps,
		TotalInstallments: req.TotalInstallments,
		CollateralType:    loanrequest.CollateralType(req.CollateralType),
		FriendWallet:      req.FriendWallet,
		PhysicalContacts:  req.PhysicalContacts,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BorrowHandler) ListPending(c echo.Context) error {
	dtos, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *BorrowHandler) MyRequests(c echo.Context) error {
	acct := middleware.CurrentAccount(c)
	dtos, err := h.uc.ListByBorrower(c.Request().Context(), acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *BorrowHandler) GetRequest(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), requestID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowHandler) CancelRequest(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	acct := middleware.CurrentAccount(c)
	if err := h.uc.Cancel(c.Request().Context(), requestID, acct.WalletAddress); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"request_id": requestID, "status": "cancelled"})
}

func (h *BorrowHandler) Schedule(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	acct := middleware.CurrentAccount(c)
	dto, err := h.uc.Schedule(c.Request().Context(), requestID, acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowHandler) Transactions(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	acct := middleware.CurrentAccount(c)
	records, err := h.uc.Transactions(c.Request().Context(), requestID, acct.WalletAddress)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}
