package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alessandronardi/lista-spesa-app/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps store error kinds to HTTP statuses with localized
// messages. Raw diagnostics go to the log, never to the client.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dati non validi"})
	case errors.Is(err, store.ErrDuplicateCategory):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "esiste già una categoria con questo nome"})
	case errors.Is(err, store.ErrDefaultCategory):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "le categorie predefinite non possono essere eliminate"})
	default:
		logger.Error("store failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "si è verificato un errore, riprova"})
	}
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "lista non trovata"})
}
