package card

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrDeckNotFound is returned when no deck matches a lookup.
var ErrDeckNotFound = errors.New("deck not found")

// BinderType partitions the catalog into the loose collection and named decks.
type BinderType string

const (
	BinderCollection BinderType = "collection"
	BinderDeck       BinderType = "deck"
)

// ParseBinderType maps a raw ManaBox binder type to the closed enum.
// Unknown values are rejected rather than stored as free text.
func ParseBinderType(s string) (BinderType, error) {
	switch s {
	case "binder", "collection":
		return BinderCollection, nil
	case "deck":
		return BinderDeck, nil
	default:
		return "", fmt.Errorf("unknown binder type %q", s)
	}
}

// Card represents one printing of a card in the catalog. Everything past
// Quantity is descriptive payload: search never inspects it, only returns it.
type Card struct {
	BinderName            string          `json:"binder_name"`
	BinderType            BinderType      `json:"binder_type"`
	Name                  string          `json:"name"`
	SetCode               string          `json:"set_code"`
	SetName               string          `json:"set_name"`
	CollectorNumber       string          `json:"collector_number"`
	Foil                  string          `json:"foil"`
	Rarity                string          `json:"rarity"`
	Quantity              int             `json:"quantity"`
	ManaboxID             int64           `json:"manabox_id"`
	ScryfallID            string          `json:"scryfall_id"`
	PurchasePrice         decimal.Decimal `json:"purchase_price"`
	Misprint              bool            `json:"misprint"`
	Altered               bool            `json:"altered"`
	Condition             string          `json:"condition"`
	Language              string          `json:"language"`
	PurchasePriceCurrency string          `json:"purchase_price_currency"`
}

// CardSummary is the projection returned by search and deck listings.
type CardSummary struct {
	BinderType BinderType `json:"binder_type"`
	BinderName string     `json:"binder_name"`
	Quantity   int        `json:"quantity"`
	Name       string     `json:"name"`
	SetCode    string     `json:"set_code"`
	ScryfallID string     `json:"scryfall_id"`
}

// Deck is an aggregate view over binder_type=deck rows; it is computed on
// demand and never stored.
type Deck struct {
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
}

// DeckContents pairs a resolved deck name (possibly a corrected spelling of
// the query) with every card in it.
type DeckContents struct {
	Name  string        `json:"name"`
	Cards []CardSummary `json:"cards"`
}
