package http

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"creditunion-backoffice/internal/domain/apperr"
	"creditunion-backoffice/internal/domain/payment"

	"github.com/labstack/echo/v4"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:   http.StatusUnprocessableEntity,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindInvalidState: http.StatusConflict,
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindForbidden:    http.StatusForbidden,
}

// writeError maps usecase errors → HTTP codes. Anything unclassified is
// logged and answered with a generic 500.
func writeError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status, ok := statusByKind[ae.Kind]
		if ok {
			return c.JSON(status, ErrorResponse{Error: ae.Error(), Code: string(ae.Code), Details: fieldDetails(ae.Fields)})
		}
	}
	if errors.Is(err, payment.ErrProvider) {
		log.Printf("payment provider: %v", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "payment provider unavailable"})
	}
	log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func fieldDetails(fields map[string]string) []FieldError {
	if len(fields) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(fields))
	for f, msg := range fields {
		out = append(out, FieldError{Field: f, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationError(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    string(apperr.CodeInvalidInput),
		Details: ToFieldErrors(err),
	})
}
