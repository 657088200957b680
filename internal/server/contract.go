package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
)

func (s *Server) createContract(c *gin.Context) {
	var req contractdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, contractdomain.ErrInvalidDevice)
		return
	}

	contract, err := s.contracts.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) getContract(c *gin.Context) {
	contract, err := s.contracts.Get(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) updateContract(c *gin.Context) {
	var req contractdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, contractdomain.ErrInvalidDevice)
		return
	}
	req.DeviceID = c.Param("device_id")

	contract, err := s.contracts.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}
