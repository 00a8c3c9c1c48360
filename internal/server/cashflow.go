package server

import (
	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/spendlens/spendlens/internal/analytics/domain"
)

func (s *Server) GetCashOutflow(c *gin.Context) {
	weeks, err := parseOptionalInt(c.Query("weeks"))
	if err != nil {
		AbortWithError(c, newValidationError("weeks", "invalid_weeks", "invalid weeks"))
		return
	}

	req := analyticsdomain.CashOutflowRequest{}
	if weeks != nil {
		req.Weeks = *weeks
	}

	report, err := s.analyticsSvc.CashOutflow(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, report)
}
