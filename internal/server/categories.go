package server

import (
	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/spendlens/spendlens/internal/analytics/domain"
)

func (s *Server) GetCategorySpend(c *gin.Context) {
	months, err := parseOptionalInt(c.Query("months"))
	if err != nil {
		AbortWithError(c, newValidationError("months", "invalid_months", "invalid months"))
		return
	}
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}

	req := analyticsdomain.CategorySpendRequest{}
	if months != nil {
		req.Months = *months
	}
	if limit != nil {
		req.Limit = *limit
	}

	report, err := s.analyticsSvc.CategorySpend(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, report)
}
