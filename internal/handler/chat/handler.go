package chat

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/esvchat/bible-chat/backend/internal/middleware"
	chatService "github.com/esvchat/bible-chat/backend/internal/service/chat"
	"github.com/esvchat/bible-chat/backend/pkg/log"
	"github.com/esvchat/bible-chat/backend/pkg/utils"
)

const (
	emptyMessageReply   = "Please enter a message."
	tooLongMessageReply = "Your message is too long."

	maxAskBodyBytes = 64 << 10
)

//go:embed index.html
var indexPage []byte

// Handler serves the landing page and the ask endpoints.
type Handler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes registers the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/ask", h.handleAsk)
	r.Get("/ws", h.handleWebSocket)
}

type askRequest struct {
	Message string `json:"message"`
}

type askResponse struct {
	Response string `json:"response"`
}

// handleIndex starts a new conversation and renders the landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.Reset(r.Context(), middleware.SessionID(r.Context())); err != nil {
		log.Error("failed to clear transcript", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexPage); err != nil {
		log.Error("failed to write landing page", err)
	}
}

// handleAsk relays one message. An undecodable body counts as a missing message.
func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAskBodyBytes)

	var payload askRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondReply(w, http.StatusRequestEntityTooLarge, tooLongMessageReply)
			return
		}
		utils.RespondReply(w, http.StatusBadRequest, emptyMessageReply)
		return
	}

	status, reply := h.ask(r, payload.Message)
	utils.RespondReply(w, status, reply)
}

// handleWebSocket relays ask frames over a websocket bound to the caller's session.
// A session cookie issued for this request is carried on the 101 response.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	var responseHeader http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		responseHeader = http.Header{"Set-Cookie": cookies}
	}

	conn, err := h.upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		log.Error("websocket upgrade failed", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxAskBodyBytes)

	for {
		var payload askRequest
		if err := conn.ReadJSON(&payload); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("websocket read failed", err)
			}
			return
		}

		_, reply := h.ask(r, payload.Message)
		if err := conn.WriteJSON(askResponse{Response: reply}); err != nil {
			log.Error("websocket write failed", err)
			return
		}
	}
}

func (h *Handler) ask(r *http.Request, message string) (int, string) {
	reply, err := h.chatSvc.Ask(r.Context(), middleware.SessionID(r.Context()), message)
	switch {
	case err == nil:
		return http.StatusOK, reply
	case errors.Is(err, chatService.ErrInvalidInput):
		return http.StatusBadRequest, emptyMessageReply
	default:
		log.Error("failed to answer message", err)
		return http.StatusInternalServerError, "The conversation could not be saved. Please try again."
	}
}
