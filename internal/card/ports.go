package card

import (
	"context"
)

// Repository defines the contract for catalog storage.
type Repository interface {
	// ReplaceAll discards the current catalog and inserts cards in a single
	// transaction; readers never observe a mix of old and new rows.
	ReplaceAll(ctx context.Context, cards []Card) error

	// SearchNames returns distinct card names containing substr,
	// case-insensitively, optionally restricted to one binder type.
	SearchNames(ctx context.Context, substr string, bt *BinderType) ([]string, error)

	// DistinctNames returns every distinct card name, optionally restricted
	// to one binder type.
	DistinctNames(ctx context.Context, bt *BinderType) ([]string, error)

	// DistinctDeckNames returns every distinct deck name.
	DistinctDeckNames(ctx context.Context) ([]string, error)

	// FetchByNames returns summaries for the given names, ordered by the
	// position of each name in names, then by set code.
	FetchByNames(ctx context.Context, names []string, bt *BinderType) ([]CardSummary, error)

	// AggregateDeckCounts returns one Deck per distinct deck name with the
	// summed quantity, ordered by deck name ascending.
	AggregateDeckCounts(ctx context.Context) ([]Deck, error)

	// FetchDeckContents returns every card in the named deck, ordered by
	// card name ascending.
	FetchDeckContents(ctx context.Context, deckName string) ([]CardSummary, error)
}
