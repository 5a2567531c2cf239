package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/esvchat/bible-chat/backend/internal/handler/chat"
	middlewarePkg "github.com/esvchat/bible-chat/backend/internal/middleware"
	chatService "github.com/esvchat/bible-chat/backend/internal/service/chat"
	"github.com/esvchat/bible-chat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, sessions *middlewarePkg.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		chat.New(chatSvc).RegisterRoutes(r)
	})

	return r
}
