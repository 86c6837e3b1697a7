package http

import (
	"net/http"

	"creditunion-backoffice/internal/usecase/ledger"
	"creditunion-backoffice/internal/usecase/summary"

	"github.com/labstack/echo/v4"
)

// SummaryHandler serves the member's read-only views: loan summary and
// savings dashboard.
type SummaryHandler struct {
	loans  *summary.Usecase
	ledger *ledger.Usecase
}

func NewSummaryHandler(loans *summary.Usecase, l *ledger.Usecase) *SummaryHandler {
	return &SummaryHandler{loans: loans, ledger: l}
}

func (h *SummaryHandler) GetLoanSummary(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.loans.Summary(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SummaryHandler) GetDashboard(c echo.Context) error {
	member, err := memberScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.Dashboard(c.Request().Context(), member)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": true, "data": out})
}
