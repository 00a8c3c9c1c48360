package server

import (
	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/spendlens/spendlens/internal/analytics/domain"
)

func (s *Server) GetInvoiceTrends(c *gin.Context) {
	months, err := parseOptionalInt(c.Query("months"))
	if err != nil {
		AbortWithError(c, newValidationError("months", "invalid_months", "invalid months"))
		return
	}

	req := analyticsdomain.TrendRequest{}
	if months != nil {
		req.Months = *months
	}

	report, err := s.analyticsSvc.Trend(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, report)
}
