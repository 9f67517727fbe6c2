package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

func TestSuccessMergesPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"slug": "math-10-a-x1y2", "success": false})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "math-10-a-x1y2", body["slug"])
	_, hasError := body["error"]
	assert.False(t, hasError)
}

func TestErrorWritesKindAndMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, appErrors.Clone(appErrors.ErrConflict, "You are already in this classroom"))

	require.Equal(t, http.StatusConflict, w.Code)
	var body Failure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "You are already in this classroom", body.Error)
	assert.Equal(t, "CONFLICT", body.Kind)
}
