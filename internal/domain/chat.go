package domain

// Backend reply to a chat message.
type ChatReply struct {
	Response  string        `json:"response,omitempty"`
	Locations []PlaceRecord `json:"locations,omitempty"`
	ToolCalls []any         `json:"tool_calls,omitempty"`
}

// Backend reply to a search query.
type SearchResult struct {
	Query  string        `json:"query"`
	Count  int           `json:"count"`
	Places []PlaceRecord `json:"places"`
}
