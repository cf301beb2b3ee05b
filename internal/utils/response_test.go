// internal/utils/response_test.go
package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(RequestIDKey, "req-1")

	ErrorResponse(c, http.StatusRequestEntityTooLarge, "Payload too large", errors.New("70000 bytes"))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", body.Error.Code)
	assert.Equal(t, "70000 bytes", body.Error.Details)
}

func TestListResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ListResponse(c, "ok", "jobs", []string{"a"}, map[string]int{"total": 1})

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Jobs       []string       `json:"jobs"`
			Pagination map[string]int `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"a"}, body.Data.Jobs)
	assert.Equal(t, 1, body.Data.Pagination["total"])
}
