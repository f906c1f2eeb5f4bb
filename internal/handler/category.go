package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alessandronardi/lista-spesa-app/internal/model"
	"github.com/alessandronardi/lista-spesa-app/internal/store"
)

type CategoryHandler struct {
	lists      *ListHandler
	categories *store.CategoryStore
	logger     *slog.Logger
}

func NewCategoryHandler(lists *ListHandler, cs *store.CategoryStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{lists: lists, categories: cs, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.lists.resolveList(w, r)
	if list == nil {
		return
	}

	categories, err := h.categories.ListByList(list.ID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	list := h.lists.resolveList(w, r)
	if list == nil {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON non valido"})
		return
	}

	category, err := h.categories.Create(list.ID, req.Name)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list := h.lists.resolveList(w, r)
	if list == nil {
		return
	}

	if err := h.categories.Delete(r.PathValue("id"), list.ID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
