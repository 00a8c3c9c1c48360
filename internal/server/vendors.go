package server

import (
	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/spendlens/spendlens/internal/analytics/domain"
)

func (s *Server) GetTopVendors(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}
	months, err := parseOptionalInt(c.Query("months"))
	if err != nil {
		AbortWithError(c, newValidationError("months", "invalid_months", "invalid months"))
		return
	}

	req := analyticsdomain.VendorRankingRequest{}
	if limit != nil {
		req.Limit = *limit
	}
	if months != nil {
		req.Months = *months
	}

	report, err := s.analyticsSvc.VendorRanking(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, report)
}
