package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerr "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// fieldCarrier is satisfied by the domain's rich errors
type fieldCarrier interface {
	LogFields() map[string]any
}

// ErrorHandler middleware recovers from panics and returns appropriate error responses
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				fields := map[string]any{
					"error":      rec,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetHeader("X-Request-ID"),
					"user_agent": c.Request.UserAgent(),
				}

				code := domainerr.ErrorCode(domainerr.ErrInternalServer)
				if err, ok := rec.(error); ok {
					code = domainerr.ErrorCode(err)
					var carrier fieldCarrier
					if errors.As(err, &carrier) {
						for k, v := range carrier.LogFields() {
							fields[k] = v
						}
					}
				}

				logger.Error("Panic recovered in API request", fields)

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    code,
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
