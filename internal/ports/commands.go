package ports

import "context"

// Polled source of the raw chatbot command document.
type CommandSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Push source of raw chatbot command documents. The channel closes when ctx ends.
type CommandStream interface {
	Commands(ctx context.Context) <-chan []byte
}
