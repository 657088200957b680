package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/printbill/internal/billing/domain"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	devicegroupdomain "github.com/smallbiznis/printbill/internal/devicegroup/domain"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, contractdomain.ErrInvalidContract),
		errors.Is(err, ratingdomain.ErrInvalidContract):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_contract",
			Message: "contract terms are malformed",
		}
	case errors.Is(err, contractdomain.ErrContractExists),
		errors.Is(err, customerdomain.ErrCustomerExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidInput),
		errors.Is(err, contractdomain.ErrInvalidDevice),
		errors.Is(err, contractdomain.ErrInvalidMaster),
		errors.Is(err, customerdomain.ErrInvalidDevice),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, devicegroupdomain.ErrInvalidDevice),
		errors.Is(err, meterlogdomain.ErrInvalidDevice),
		errors.Is(err, meterlogdomain.ErrInvalidPeriod),
		errors.Is(err, meterlogdomain.ErrInvalidCount),
		errors.Is(err, summarydomain.ErrInvalidDevice),
		errors.Is(err, summarydomain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrNotFound),
		errors.Is(err, contractdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, devicegroupdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
