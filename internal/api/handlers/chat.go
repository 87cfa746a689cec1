package handlers

import (
	"errors"
	"net/http"
	"place-map-service/internal/api/dto"
	"place-map-service/internal/ports"
	"place-map-service/internal/services"

	"github.com/go-chi/chi/v5"
)

type ChatHandler struct {
	Chat *services.ChatService
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusCreated, dto.SessionResponse{SessionID: h.Chat.NewSession()})
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req dto.MessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Chat.Send(r.Context(), chi.URLParam(r, "id"), req.Message)
	if err != nil {
		writeChatError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	discarded, err := h.Chat.Reset(r.Context(), id)
	if errors.Is(err, services.ErrSessionNotFound) {
		writeChatError(w, r, err)
		return
	}

	res := dto.ResetResponse{SessionID: id, Discarded: discarded}
	if err != nil {
		// The local map is already cleared; report the backend failure only.
		res.Error = err.Error()
		writeJSON(w, r, http.StatusBadGateway, res)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ChatHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	res, err := h.Chat.Search(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		writeChatError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmptyMessage):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRateLimited):
		writeError(w, r, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ports.ErrSearchUnsupported):
		writeError(w, r, http.StatusNotImplemented, err.Error())
	default:
		writeError(w, r, http.StatusBadGateway, err.Error())
	}
}
