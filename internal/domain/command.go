package domain

const ActionShow = "show"

// Instruction written by the chatbot to highlight a place.
type Command struct {
	Action string `json:"action"`
	DpID   string `json:"dp_id,omitempty"`
}
