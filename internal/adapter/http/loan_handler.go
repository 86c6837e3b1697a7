package http

import (
	"context"
	"net/http"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/auth"
	"creditunion-backoffice/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	// Only officers and admins may name a member other than themselves.
	MemberID     string          `json:"member_id"     validate:"omitempty,hex32"`
	Principal    decimal.Decimal `json:"principal"     validate:"required,gt=0,dec2"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
	Term         int             `json:"term"          validate:"required,gte=1,lte=360"`
	Purpose      string          `json:"purpose"       validate:"max=1000"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req requestLoanReq
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

	in := loan.RequestLoanInput{
		MemberID:     member,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		TermMonths:   req.Term,
		Purpose:      req.Purpose,
	}
	if member != p.MemberID {
		officer := p.MemberID
		in.OfficerID = &officer
	}
	dto, err := h.uc.Request(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	// other members' loans look absent
	if dto.MemberID != p.MemberID && !p.CanSeeAll() {
		return writeError(c, apperr.NotFound(apperr.CodeLoanNotFound, "loan %s not found", loanID))
	}
	return c.JSON(http.StatusOK, dto)
}

// ListOpenLoans is the officer listing of active, pending and rejected loans.
func (h *LoanHandler) ListOpenLoans(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := require(p, p.CanSeeAll(), "list"); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListOpen(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetActiveLoan(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Active(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetPendingLoan(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Pending(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoanHistory(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.History(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListMemberLoans lists every loan of the member regardless of status.
func (h *LoanHandler) ListMemberLoans(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListAll(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) ApproveLoan(c echo.Context) error {
	return h.transition(c, auth.Principal.CanApprove, "approve", h.uc.Approve)
}

func (h *LoanHandler) RejectLoan(c echo.Context) error {
	return h.transition(c, auth.Principal.CanReject, "reject", h.uc.Reject)
}

func (h *LoanHandler) CancelLoan(c echo.Context) error {
	return h.transition(c, auth.Principal.CanCancel, "cancel", h.uc.Cancel)
}

type transitionFunc func(ctx context.Context, loanID string) (*loan.LoanDTO, error)

func (h *LoanHandler) transition(c echo.Context, allowed func(auth.Principal) bool, action string, op transitionFunc) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := require(p, allowed(p), action); err != nil {
		return writeError(c, err)
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	dto, err := op(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
