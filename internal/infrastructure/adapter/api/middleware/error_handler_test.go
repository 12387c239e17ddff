package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainerr "github.com/loomapp/credit-ledger/internal/domain/error"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/api/dto"
	coremocks "github.com/loomapp/credit-ledger/mocks/port/core"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("should recover from panic and return internal error", func(t *testing.T) {
		logger := new(coremocks.MockLogger)
		logger.On("Error", "Panic recovered in API request", mock.Anything).Return()

		router := gin.New()
		router.Use(ErrorHandler(logger))
		router.GET("/boom", func(c *gin.Context) {
			panic("something broke")
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body dto.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domainerr.ErrorCode(domainerr.ErrInternalServer), body.Code)
		logger.AssertExpectations(t)
	})

	t.Run("should log structured fields from domain errors", func(t *testing.T) {
		logger := new(coremocks.MockLogger)
		logger.On("Error", "Panic recovered in API request", mock.MatchedBy(func(fields map[string]any) bool {
			return fields["user_id"] == "user-1" && fields["error_type"] == "insufficient_balance"
		})).Return()

		router := gin.New()
		router.Use(ErrorHandler(logger))
		router.GET("/boom", func(c *gin.Context) {
			panic(domainerr.NewInsufficientBalanceError("user-1", -50, 10))
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body dto.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domainerr.CodeInsufficientBalance, body.Code)
		logger.AssertExpectations(t)
	})
}
