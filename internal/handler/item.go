package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alessandronardi/lista-spesa-app/internal/model"
	"github.com/alessandronardi/lista-spesa-app/internal/store"
)

type ItemHandler struct {
	lists  *ListHandler
	items  *store.ItemStore
	logger *slog.Logger
}

func NewItemHandler(lists *ListHandler, is *store.ItemStore, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{lists: lists, items: is, logger: logger}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.lists.resolveList(w, r)
	if list == nil {
		return
	}

	items, err := h.items.ListByList(list.ID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	list := h.lists.resolveList(w, r)
	if list == nil {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON non valido"})
		return
	}

	item, err := h.items.Add(list.ID, req.Name, req.Category)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) SetBought(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bought bool `json:"bought"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON non valido"})
		return
	}

	item, err := h.items.SetBought(r.PathValue("id"), req.Bought)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "articolo non trovato"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON non valido"})
		return
	}

	item, err := h.items.UpdateCategory(r.PathValue("id"), req.Category)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "articolo non trovato"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.PathValue("id")); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
