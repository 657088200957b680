package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	"github.com/smallbiznis/printbill/pkg/db/pagination"
)

func (s *Server) createCustomer(c *gin.Context) {
	var req customerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, customerdomain.ErrInvalidDevice)
		return
	}

	customer, err := s.customers.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (s *Server) getCustomer(c *gin.Context) {
	customer, err := s.customers.Get(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) listCustomers(c *gin.Context) {
	// a name filter switches the listing into search mode
	if name := c.Query("name"); name != "" {
		customers, err := s.customers.SearchByName(c.Request.Context(), name)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers})
		return
	}

	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		AbortWithError(c, customerdomain.ErrInvalidDevice)
		return
	}

	customers, pageInfo, err := s.customers.List(c.Request.Context(), p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "page_info": pageInfo})
}

func (s *Server) removeCustomer(c *gin.Context) {
	if err := s.customers.Remove(c.Request.Context(), c.Param("device_id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
