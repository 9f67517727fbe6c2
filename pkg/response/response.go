package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

// Failure is the envelope written for unsuccessful calls.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}

// Success writes {"success": true} merged with the payload keys.
func Success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, payload gin.H) {
	Success(c, http.StatusOK, payload)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, payload gin.H) {
	Success(c, http.StatusCreated, payload)
}

// Error converts err to the failure envelope, using the error's status code.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Failure{Success: false, Error: appErr.Message, Kind: appErr.Code})
}

// Abort writes the failure envelope and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
