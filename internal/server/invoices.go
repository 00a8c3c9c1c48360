package server

import (
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/spendlens/spendlens/internal/invoice/domain"
)

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	vendorID, err := parseOptionalSnowflakeID(c.Query("vendorId"))
	if err != nil {
		AbortWithError(c, newValidationError("vendorId", "invalid_vendor_id", "invalid vendor id"))
		return
	}
	req.VendorID = vendorID

	startDate, err := parseOptionalTime(c.Query("startDate"), false)
	if err != nil {
		AbortWithError(c, newValidationError("startDate", "invalid_start_date", "invalid start date"))
		return
	}
	req.StartDate = startDate

	endDate, err := parseOptionalTime(c.Query("endDate"), true)
	if err != nil {
		AbortWithError(c, newValidationError("endDate", "invalid_end_date", "invalid end date"))
		return
	}
	req.EndDate = endDate

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}
