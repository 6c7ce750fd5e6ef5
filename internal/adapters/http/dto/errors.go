// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "github.com/gin-gonic/gin"

// ErrorResponse is the envelope every failed request resolves to.
// Field order is part of the wire contract.
type ErrorResponse struct {
	// Code mirrors the HTTP status.
	Code int `json:"code"`

	// Message is safe to show to the caller. Unexpected failures always
	// carry the same generic text.
	Message string `json:"message"`

	// Timestamp is formatted as YYYY-MM-DD HH:mm:ss.
	Timestamp string `json:"timestamp"`

	// Path is "<METHOD> <originalUrl>".
	Path string `json:"path"`
}

// Fail records err on the context for the terminal error middleware and stops
// the handler chain. Handlers and middleware never write error bodies themselves.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
