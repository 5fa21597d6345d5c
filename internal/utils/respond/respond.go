// Package respond holds the JSON response envelope shared by all HTTP
// handlers: {"success": bool, "data": ..., "message": ...}.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/oggyb/linkup/internal/errors"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK writes a 200 with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// OKWithMessage writes a 200 with data and a human-readable message.
func OKWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Error maps a service error to its HTTP status and writes the envelope.
// Internal details are masked by errs.Message.
func Error(c *gin.Context, err error) {
	c.JSON(errs.Status(err), envelope{Success: false, Message: errs.Message(err)})
}
