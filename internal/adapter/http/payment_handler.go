package http

import (
	"net/http"

	"creditunion-backoffice/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type initiatePaymentReq struct {
	Email  string          `json:"email"  validate:"required,email"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
	// Informational; the checkout page collects the wallet itself.
	Network     string `json:"network"      validate:"max=32"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req initiatePaymentReq
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Initiate(c.Request().Context(), payment.InitiateInput{
		MemberID: p.MemberID,
		Email:    req.Email,
		Amount:   req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// VerifyPayment: GET /api/payments/verify?reference=<ref>
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ref := c.QueryParam("reference")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "transaction reference is required"})
	}
	out, err := h.uc.Verify(c.Request().Context(), p.MemberID, ref)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
