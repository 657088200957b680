package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/printbill/internal/billing/domain"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
)

func (s *Server) getDeviceGroup(c *gin.Context) {
	group, err := s.groups.Resolve(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": group})
}

func (s *Server) getLastReading(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		AbortWithError(c, meterlogdomain.ErrInvalidPeriod)
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		AbortWithError(c, meterlogdomain.ErrInvalidPeriod)
		return
	}

	counts, asOf, err := s.meterLog.LastCounts(c.Request.Context(), c.Param("device_id"), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"counts": counts}
	if !asOf.IsZero() {
		resp["as_of"] = asOf
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getSummaries(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		AbortWithError(c, billingdomain.ErrInvalidInput)
		return
	}

	months, err := s.billing.LoadSummaries(c.Request.Context(), c.Param("device_id"), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

func (s *Server) runBillingCycle(c *gin.Context) {
	var req billingdomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, billingdomain.ErrInvalidInput)
		return
	}

	result, err := s.billing.RunBillingCycle(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
