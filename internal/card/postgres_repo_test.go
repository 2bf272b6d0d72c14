package card_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cardvault/internal/card"
	"cardvault/internal/testutil"
)

func setupCardTestDB(t *testing.T) *card.PostgresRepo {
	t.Helper()
	return card.NewPostgresRepo(testutil.OpenTestDB(t))
}

func testCard(name, binderName string, bt card.BinderType, setCode string, qty int) card.Card {
	return card.Card{
		BinderName: binderName,
		BinderType: bt,
		Name:       name,
		SetCode:    setCode,
		Quantity:   qty,
	}
}

func TestPostgresRepo_ReplaceAll_RoundTrip(t *testing.T) {
	repo := setupCardTestDB(t)
	ctx := context.Background()

	// Deliberately unsorted, with one name appearing in two printings.
	cards := []card.Card{
		testCard("Swords to Plowshares", "Binder A", card.BinderCollection, "sld", 1),
		testCard("Arcane Signet", "Zurgo", card.BinderDeck, "cmr", 1),
		testCard("Sol Ring", "Binder A", card.BinderCollection, "c21", 2),
		testCard("Sol Ring", "Zurgo", card.BinderDeck, "ltc", 1),
	}
	require.NoError(t, repo.ReplaceAll(ctx, cards))

	names, err := repo.DistinctNames(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Arcane Signet", "Sol Ring", "Swords to Plowshares"}, names)

	// The same set of names comes back regardless of insertion order.
	reversed := []card.Card{cards[3], cards[2], cards[1], cards[0]}
	require.NoError(t, repo.ReplaceAll(ctx, reversed))

	names, err = repo.DistinctNames(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Arcane Signet", "Sol Ring", "Swords to Plowshares"}, names)
}

func TestPostgresRepo_ReplaceAll_Idempotent(t *testing.T) {
	repo := setupCardTestDB(t)
	ctx := context.Background()

	cards := []card.Card{
		testCard("Sol Ring", "Binder A", card.BinderCollection, "c21", 2),
		testCard("Arcane Signet", "Zurgo", card.BinderDeck, "cmr", 1),
	}

	require.NoError(t, repo.ReplaceAll(ctx, cards))
	require.NoError(t, repo.ReplaceAll(ctx, cards))

	rows, err := repo.FetchByNames(ctx, []string{"Sol Ring", "Arcane Signet"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	decks, err := repo.AggregateDeckCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []card.Deck{{Name: "Zurgo", CardCount: 1}}, decks)
}

func TestPostgresRepo_ReplaceAll_EmptyCatalog(t *testing.T) {
	repo := setupCardTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []card.Card{
		testCard("Sol Ring", "Binder A", card.BinderCollection, "c21", 1),
	}))
	require.NoError(t, repo.ReplaceAll(ctx, nil))

	names, err := repo.DistinctNames(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestPostgresRepo_SearchNames(t *testing.T) {
	repo := setupCardTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []card.Card{
		testCard("Sol Ring", "Binder A", card.BinderCollection, "c21", 1),
		testCard("Solemn Simulacrum", "Zurgo", card.BinderDeck, "2x2", 1),
		testCard("100% Chance of Rain", "Binder A", card.BinderCollection, "unk", 1),
	}))

	t.Run("case-insensitive substring", func(t *testing.T) {
		names, err := repo.SearchNames(ctx, "sol", nil)
		require.NoError(t, err)
		require.Equal(t, []string{"Sol Ring", "Solemn Simulacrum"}, names)
	})

	t.Run("binder type scope", func(t *testing.T) {
		deck := card.BinderDeck
		names, err := repo.SearchNames(ctx, "sol", &deck)
		require.NoError(t, err)
		require.Equal(t, []string{"Solemn Simulacrum"}, names)
	})

	t.Run("percent matches literally", func(t *testing.T) {
		names, err := repo.SearchNames(ctx, "100%", nil)
		require.NoError(t, err)
		require.Equal(t, []string{"100% Chance of Rain"}, names)
	})

	t.Run("underscore does not match everything", func(t *testing.T) {
		names, err := repo.SearchNames(ctx, "___", nil)
		require.NoError(t, err)
		require.Empty(t, names)
	})
}

func TestPostgresRepo_FetchByNames_PreservesCallerOrder(t *testing.T) {
	repo := setupCardTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []card.Card{
		testCard("Arcane Signet", "Binder A", card.BinderCollection, "cmr", 1),
		testCard("Sol Ring", "Binder A", card.BinderCollection, "ltc", 1),
		testCard("Sol Ring", "Binder A", card.BinderCollection, "c21", 2),
	}))

	rows, err := repo.FetchByNames(ctx, []string{"Sol Ring", "Arcane Signet"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Sol Ring", rows[0].Name)
	require.Equal(t, "c21", rows[0].SetCode)
	require.Equal(t, "Sol Ring", rows[1].Name)
	require.Equal(t, "ltc", rows[1].SetCode)
	require.Equal(t, "Arcane Signet", rows[2].Name)
}

func TestPostgresRepo_DeckQueries(t *testing.T) {
	repo := setupCardTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []card.Card{
		testCard("Sol Ring", "Zurgo", card.BinderDeck, "c21", 1),
		testCard("Arcane Signet", "Zurgo", card.BinderDeck, "cmr", 2),
		testCard("Sol Ring", "Binder A", card.BinderCollection, "ltc", 4),
	}))

	names, err := repo.DistinctDeckNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Zurgo"}, names)

	decks, err := repo.AggregateDeckCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []card.Deck{{Name: "Zurgo", CardCount: 3}}, decks)

	contents, err := repo.FetchDeckContents(ctx, "Zurgo")
	require.NoError(t, err)
	require.Len(t, contents, 2)
	require.Equal(t, "Arcane Signet", contents[0].Name)
}
