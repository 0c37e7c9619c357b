package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStockRequest_Binding(t *testing.T) {
	middleware.SetupValidator()
	gin.SetMode(gin.TestMode)

	var got AdjustStockRequest
	router := gin.New()
	router.POST("/stock", func(c *gin.Context) {
		var req AdjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		got = req
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/stock", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("set to zero is accepted", func(t *testing.T) {
		w := post(`{"operation": "set", "quantity": 0, "reason": "cycle count"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.Quantity)
		assert.Equal(t, 0, *got.Quantity)
		assert.Equal(t, catalog.StockOperationSet, got.Operation)
	})

	t.Run("missing quantity is rejected", func(t *testing.T) {
		w := post(`{"operation": "set", "reason": "cycle count"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown operation is rejected", func(t *testing.T) {
		w := post(`{"operation": "destroy", "quantity": 1, "reason": "typo"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
