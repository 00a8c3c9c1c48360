package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) GetStats(c *gin.Context) {
	stats, err := s.analyticsSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, stats)
}
