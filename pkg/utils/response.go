package utils

import (
	"encoding/json"
	"net/http"

	"github.com/esvchat/bible-chat/backend/pkg/log"
)

// RespondJSON writes payload as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", err)
	}
}

// RespondReply writes the {"response": ...} envelope used by the chat endpoints.
func RespondReply(w http.ResponseWriter, status int, reply string) {
	RespondJSON(w, status, map[string]string{"response": reply})
}
