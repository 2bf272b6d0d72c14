package card

import (
	"context"

	"cardvault/internal/fuzzy"
)

// DefaultSearchLimit bounds the distinct names returned when the caller does
// not ask for a specific count.
const DefaultSearchLimit = 5

// Service resolves free-text queries against the catalog. It holds no state
// of its own; every call re-reads the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SearchCards resolves query to the closest card names and returns their
// rows. The substring pre-filter runs first; only when it finds nothing does
// the full-catalog typo-correction scan run. A binder-type filter that finds
// nothing, while the name exists under another binder type, yields an empty
// result instead of unrelated suggestions.
//
// limit bounds distinct names, not rows: one name can expand into several
// printings.
func (s *Service) SearchCards(ctx context.Context, query string, limit int, bt *BinderType) ([]CardSummary, error) {
	if limit <= 0 {
		return nil, nil
	}

	candidates, err := s.repo.SearchNames(ctx, query, bt)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		if bt != nil {
			elsewhere, err := s.repo.SearchNames(ctx, query, nil)
			if err != nil {
				return nil, err
			}
			if len(elsewhere) > 0 {
				// The card exists, just not in the requested binder type.
				return nil, nil
			}
		}
		candidates, err = s.repo.DistinctNames(ctx, bt)
		if err != nil {
			return nil, err
		}
	}

	resolved := fuzzy.Rank(query, candidates, limit)
	if len(resolved) == 0 {
		return nil, nil
	}

	return s.repo.FetchByNames(ctx, resolved, bt)
}

// ListDecks returns every deck with its summed card quantity, name ascending.
func (s *Service) ListDecks(ctx context.Context) ([]Deck, error) {
	return s.repo.AggregateDeckCounts(ctx)
}

// GetDeck fuzzy-resolves name against the full deck-name set (no substring
// pre-filter; the set is small) and returns the resolved deck with its
// contents, or ErrDeckNotFound.
func (s *Service) GetDeck(ctx context.Context, name string) (DeckContents, error) {
	deckNames, err := s.repo.DistinctDeckNames(ctx)
	if err != nil {
		return DeckContents{}, err
	}

	best := fuzzy.Rank(name, deckNames, 1)
	if len(best) == 0 {
		return DeckContents{}, ErrDeckNotFound
	}

	cards, err := s.repo.FetchDeckContents(ctx, best[0])
	if err != nil {
		return DeckContents{}, err
	}
	return DeckContents{Name: best[0], Cards: cards}, nil
}
