package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cardvault/internal/card"
	"cardvault/internal/platform/scryfall"
)

const (
	minSearchLimit = 1
	maxSearchLimit = 50
)

// Resolver is the catalog query surface the tools call into.
type Resolver interface {
	SearchCards(ctx context.Context, query string, limit int, bt *card.BinderType) ([]card.CardSummary, error)
	ListDecks(ctx context.Context) ([]card.Deck, error)
	GetDeck(ctx context.Context, name string) (card.DeckContents, error)
}

// CardLookup resolves cards outside the local catalog.
type CardLookup interface {
	NamedFuzzy(ctx context.Context, name string) (*scryfall.CardInfo, error)
}

// ToolHandler dispatches tool calls. It borrows the shared resolver and
// lookup client; per-session state is just the session id.
type ToolHandler struct {
	resolver  Resolver
	lookup    CardLookup
	log       *logrus.Logger
	sessionID string
}

func NewToolHandler(resolver Resolver, lookup CardLookup, log *logrus.Logger) *ToolHandler {
	h := &ToolHandler{
		resolver:  resolver,
		lookup:    lookup,
		log:       log,
		sessionID: uuid.New().String(),
	}
	log.WithField("session_id", h.sessionID).Debug("tool session started")
	return h
}

func toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "search_cards",
			Description: "Search the card collection by name. Handles misspellings: if nothing contains the query, the closest names by edit distance are returned instead.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Card name or part of one",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum distinct card names to return (1-50, default 5)",
					},
					"binder_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"collection", "deck"},
						"description": "Restrict the search to the loose collection or to decks",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "list_decks",
			Description: "List every deck in the collection with its total card count.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "get_deck",
			Description: "Get a deck's full contents by name. The name may be misspelled; the closest deck is returned along with its resolved name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Deck name",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "scryfall_lookup",
			Description: "Look up canonical card data on Scryfall for cards that may not be in the collection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Card name, misspellings tolerated",
					},
				},
				"required": []string{"name"},
			},
		},
	}
}

// Handle dispatches a tool call and returns the text content of the result.
func (h *ToolHandler) Handle(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	switch name {
	case "search_cards":
		return h.handleSearchCards(ctx, args)
	case "list_decks":
		return h.handleListDecks(ctx)
	case "get_deck":
		return h.handleGetDeck(ctx, args)
	case "scryfall_lookup":
		return h.handleScryfallLookup(ctx, args)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func (h *ToolHandler) handleSearchCards(ctx context.Context, args map[string]interface{}) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	limit := card.DefaultSearchLimit
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
		if limit < minSearchLimit || limit > maxSearchLimit {
			return "", fmt.Errorf("limit must be between %d and %d", minSearchLimit, maxSearchLimit)
		}
	}

	var bt *card.BinderType
	if raw, ok := args["binder_type"].(string); ok && raw != "" {
		parsed, err := card.ParseBinderType(raw)
		if err != nil {
			return "", err
		}
		bt = &parsed
	}

	results, err := h.resolver.SearchCards(ctx, query, limit, bt)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return fmt.Sprintf("No cards found matching %q.", query), nil
	}

	return marshal(map[string]interface{}{
		"cards": results,
		"count": len(results),
	})
}

func (h *ToolHandler) handleListDecks(ctx context.Context) (string, error) {
	decks, err := h.resolver.ListDecks(ctx)
	if err != nil {
		return "", err
	}
	if len(decks) == 0 {
		return "No decks in the collection.", nil
	}
	return marshal(map[string]interface{}{
		"decks": decks,
		"count": len(decks),
	})
}

func (h *ToolHandler) handleGetDeck(ctx context.Context, args map[string]interface{}) (string, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}

	deck, err := h.resolver.GetDeck(ctx, name)
	if err != nil {
		if errors.Is(err, card.ErrDeckNotFound) {
			return fmt.Sprintf("No deck found matching %q. Use list_decks to see available decks.", name), nil
		}
		return "", err
	}
	return marshal(deck)
}

func (h *ToolHandler) handleScryfallLookup(ctx context.Context, args map[string]interface{}) (string, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}

	info, err := h.lookup.NamedFuzzy(ctx, name)
	if err != nil {
		if errors.Is(err, scryfall.ErrCardNotFound) {
			return fmt.Sprintf("Scryfall found no card matching %q.", name), nil
		}
		return "", err
	}
	return marshal(info)
}

func marshal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
