package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"creditunion-backoffice/internal/domain/apperr"
	domain "creditunion-backoffice/internal/domain/ledger"
	"creditunion-backoffice/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler posts and lists rows of the general ledger.
type TransactionHandler struct{ uc *ledger.Usecase }

func NewTransactionHandler(uc *ledger.Usecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

type recordTransactionReq struct {
	MemberID  string          `json:"member_id"        validate:"omitempty,hex32"`
	Type      string          `json:"transaction_type" validate:"required"`
	Amount    decimal.Decimal `json:"amount"           validate:"required,gt=0,dec2"`
	Date      string          `json:"date"             validate:"omitempty,datetime=2006-01-02"`
	Reference string          `json:"reference"        validate:"max=100"`
	Notes     string          `json:"notes"            validate:"max=1000"`
}

func (h *TransactionHandler) RecordTransaction(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req recordTransactionReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}
	member, err := targetMember(p, req.MemberID)
	if err != nil {
		return writeError(c, err)
	}

	in := ledger.RecordTransactionInput{
		MemberID:   member,
		Type:       domain.Type(strings.TrimSpace(req.Type)),
		Amount:     req.Amount,
		Notes:      req.Notes,
		RecordedBy: p.MemberID,
	}
	if req.Date != "" {
		// already checked by the datetime tag
		date, _ := time.Parse("2006-01-02", req.Date)
		in.Date = &date
	}
	if req.Reference != "" {
		ref := req.Reference
		in.Reference = &ref
	}
	dto, err := h.uc.Record(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	txID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), txID)
	if err != nil {
		return writeError(c, err)
	}
	if dto.MemberID != p.MemberID && !p.CanSeeAll() {
		return writeError(c, apperr.NotFound(apperr.CodeTransactionNotFound, "transaction %d not found", txID))
	}
	return c.JSON(http.StatusOK, dto)
}
