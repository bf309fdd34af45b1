// Package http provides the JSON API server and its handlers.
//
// This file implements the Builder Pattern for constructing JSON responses.
// Every response body is an envelope with an optional data payload, an
// optional error message and an optional user-facing notification.
package http

import (
	"encoding/json"
	"net/http"
)

// NotificationType selects how a client presents a notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notification is a short message meant to be shown to the user.
type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

type envelope struct {
	Data         any           `json:"data,omitempty"`
	Error        string        `json:"error,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       envelope
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the payload.
func (b *ResponseBuilder) Data(v any) *ResponseBuilder {
	b.body.Data = v
	return b
}

// Error sets the machine-readable error message.
func (b *ResponseBuilder) Error(message string) *ResponseBuilder {
	b.body.Error = message
	return b
}

func (b *ResponseBuilder) Notify(t NotificationType, title, message string) *ResponseBuilder {
	b.body.Notification = &Notification{Type: t, Title: title, Message: message}
	return b
}

func (b *ResponseBuilder) NotifySuccess(title, message string) *ResponseBuilder {
	return b.Notify(NotificationSuccess, title, message)
}

func (b *ResponseBuilder) NotifyError(title, message string) *ResponseBuilder {
	return b.Notify(NotificationError, title, message)
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if b.statusCode == http.StatusNoContent {
		return
	}
	_ = json.NewEncoder(w).Encode(b.body)
}

// ErrorResponse creates a standard error response with a matching error
// notification.
func ErrorResponse(statusCode int, title, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		Error(message).
		NotifyError(title, message)
}

func BadRequestError(title, message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, title, message)
}

func UnprocessableEntityError(title, message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, title, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, "Not Found", message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "Server Error", message)
}
