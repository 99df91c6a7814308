package handler

import "github.com/wardrobe/backend/internal/interfaces/http/dto"

// Envelope types referenced by the swag annotations. Handlers write
// dto.Response; these only give the generated docs a typed data field.

// APIResponse is the success envelope around T
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope; data is always null
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Data    any            `json:"data" swaggertype:"object"`
	Error   *dto.ErrorInfo `json:"error"`
}

// MessageData carries a human readable confirmation
type MessageData struct {
	Message string `json:"message" example:"Pièce supprimée"`
}
