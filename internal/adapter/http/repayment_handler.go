package http

import (
	"net/http"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler { return &RepaymentHandler{uc: uc} }

type recordRepaymentReq struct {
	MemberID string          `json:"member_id" validate:"omitempty,hex32"`
	Amount   decimal.Decimal `json:"amount"    validate:"required,gt=0,dec2"`
}

func (h *RepaymentHandler) RecordRepayment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req recordRepaymentReq
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

	in := repayment.RecordRepaymentInput{MemberID: member, Amount: req.Amount}
	if member != p.MemberID {
		recorder := p.MemberID
		in.RecordedBy = &recorder
	}
	res, err := h.uc.Record(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *RepaymentHandler) ListRepayments(c echo.Context) error {
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

// ListLoanRepayments lists one loan's repayments. Loans of other members look
// absent unless the caller may see all members.
func (h *RepaymentHandler) ListLoanRepayments(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	out, err := h.uc.ListByLoan(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	if out.MemberID != p.MemberID && !p.CanSeeAll() {
		return writeError(c, apperr.NotFound(apperr.CodeLoanNotFound, "loan %s not found", loanID))
	}
	return c.JSON(http.StatusOK, out)
}
