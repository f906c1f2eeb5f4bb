package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alessandronardi/lista-spesa-app/internal/model"
	"github.com/alessandronardi/lista-spesa-app/internal/store"
	"github.com/alessandronardi/lista-spesa-app/internal/view"
)

type ListHandler struct {
	lists      *store.ListStore
	categories *store.CategoryStore
	items      *store.ItemStore
	logger     *slog.Logger
}

func NewListHandler(ls *store.ListStore, cs *store.CategoryStore, is *store.ItemStore, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: ls, categories: cs, items: is, logger: logger}
}

// resolveList turns the {code} path value into a list, writing the error
// response itself when it cannot. Malformed codes never reach the store.
func (h *ListHandler) resolveList(w http.ResponseWriter, r *http.Request) *model.List {
	list, err := h.lists.GetByCode(r.PathValue("code"))
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "codice non valido"})
			return nil
		}
		writeStoreError(w, h.logger, err)
		return nil
	}
	if list == nil {
		writeNotFound(w)
		return nil
	}
	return list
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.Create(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.logger.Info("list created", "list_id", list.ID, "code", list.Code)
	writeJSON(w, http.StatusCreated, list)
}

type listSnapshot struct {
	List       *model.List      `json:"list"`
	Categories []model.Category `json:"categories"`
	Items      []model.Item     `json:"items"`
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list := h.resolveList(w, r)
	if list == nil {
		return
	}

	categories, err := h.categories.ListByList(list.ID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	items, err := h.items.ListByList(list.ID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	if items == nil {
		items = []model.Item{}
	}

	writeJSON(w, http.StatusOK, listSnapshot{List: list, Categories: categories, Items: items})
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	list := h.resolveList(w, r)
	if list == nil {
		return
	}

	if err := h.lists.Delete(list.ID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	h.logger.Info("list deleted", "list_id", list.ID)
	w.WriteHeader(http.StatusNoContent)
}

// View returns the grouped, ordered display view of a list.
func (h *ListHandler) View(w http.ResponseWriter, r *http.Request) {
	list := h.resolveList(w, r)
	if list == nil {
		return
	}

	categories, err := h.categories.ListByList(list.ID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	items, err := h.items.ListByList(list.ID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	groups := view.GroupItems(items, categories)
	if groups == nil {
		groups = []view.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}
