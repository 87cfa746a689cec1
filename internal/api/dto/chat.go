package dto

type MessageRequest struct {
	Message string `json:"message"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type ResetResponse struct {
	SessionID string `json:"session_id"`
	Discarded int    `json:"discarded"`
	Error     string `json:"error,omitempty"`
}
