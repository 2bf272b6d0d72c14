package card

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cardvault/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Search handles GET /cards/search
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := query.Get("q")
	if q == "" {
		httpx.JSONError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter 'q' is required", nil)
		return
	}

	limit := DefaultSearchLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		val, err := strconv.Atoi(limitStr)
		if err != nil || val < 1 || val > 50 {
			httpx.JSONError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 50", nil)
			return
		}
		limit = val
	}

	var bt *BinderType
	if btStr := query.Get("binder_type"); btStr != "" {
		parsed, err := ParseBinderType(btStr)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "INVALID_BINDER_TYPE", "binder_type must be 'collection' or 'deck'", nil)
			return
		}
		bt = &parsed
	}

	cards, err := h.service.SearchCards(r.Context(), q, limit, bt)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if cards == nil {
		cards = []CardSummary{}
	}

	httpx.JSONSuccess(w, cards, map[string]any{"count": len(cards)})
}

// ListDecks handles GET /decks
func (h *HTTPHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.service.ListDecks(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if decks == nil {
		decks = []Deck{}
	}
	httpx.JSONSuccess(w, decks, nil)
}

// GetDeck handles GET /decks/{name}
func (h *HTTPHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		name = strings.TrimPrefix(r.URL.Path, "/decks/")
	}
	if name == "" {
		http.NotFound(w, r)
		return
	}

	deck, err := h.service.GetDeck(r.Context(), name)
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "DECK_NOT_FOUND", "No deck found; list decks to see what exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, deck, nil)
}
