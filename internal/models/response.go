package models

import "time"

// APIResponse is the envelope for errors and plain confirmations.
type APIResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Stack       string            `json:"stack,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(message string) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

// NewValidationErrorResponse creates a validation error response. errors keeps
// the per-field messages in report order.
func NewValidationErrorResponse(message string, errors []string, fieldErrors map[string]string) APIResponse {
	return APIResponse{
		Success:     false,
		Message:     message,
		Errors:      errors,
		FieldErrors: fieldErrors,
	}
}

type ParticipantCreatedResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Participant ParticipantSummary `json:"participant"`
}

type ParticipantListResponse struct {
	Success      bool           `json:"success"`
	Count        int            `json:"count"`
	Participants []*Participant `json:"participants"`
}

type ParticipantStatsResponse struct {
	Success bool             `json:"success"`
	Stats   ParticipantStats `json:"stats"`
}

type DeletedParticipant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	List string `json:"list"`
}

type ParticipantDeletedResponse struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message"`
	DeletedParticipant DeletedParticipant `json:"deletedParticipant"`
}

type SearchRequestCreatedResponse struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message"`
	SearchRequest SearchRequestSummary `json:"searchRequest"`
}

type SearchRequestListResponse struct {
	Success        bool             `json:"success"`
	Count          int              `json:"count"`
	SearchRequests []*SearchRequest `json:"searchRequests"`
}

type DeletedSearchRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SearchRequestDeletedResponse struct {
	Success              bool                 `json:"success"`
	Message              string               `json:"message"`
	DeletedSearchRequest DeletedSearchRequest `json:"deletedSearchRequest"`
}

type HealthResponse struct {
	Success     bool      `json:"success"`
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	Uptime      string    `json:"uptime"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
