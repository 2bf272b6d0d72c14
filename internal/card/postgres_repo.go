package card

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) ReplaceAll(ctx context.Context, cards []Card) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM cards"); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	rows := make([][]any, len(cards))
	for i, c := range cards {
		rows[i] = []any{
			c.BinderName, string(c.BinderType), c.Name, c.SetCode, c.SetName,
			c.CollectorNumber, c.Foil, c.Rarity, c.Quantity, c.ManaboxID,
			c.ScryfallID, c.PurchasePrice, c.Misprint, c.Altered,
			c.Condition, c.Language, c.PurchasePriceCurrency,
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"cards"},
		[]string{
			"binder_name", "binder_type", "name", "set_code", "set_name",
			"collector_number", "foil", "rarity", "quantity", "manabox_id",
			"scryfall_id", "purchase_price", "misprint", "altered",
			"condition", "language", "purchase_price_currency",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	return tx.Commit(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE pattern metacharacters so the search string
// matches literally. Card names like "+2 Mace" are harmless, but "%" or "_"
// in a query would otherwise match everything.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostgresRepo) SearchNames(ctx context.Context, substr string, bt *BinderType) ([]string, error) {
	query := `SELECT DISTINCT name FROM cards WHERE name ILIKE '%' || $1 || '%'`
	args := []any{escapeLike(substr)}
	if bt != nil {
		query += ` AND binder_type = $2`
		args = append(args, string(*bt))
	}
	query += ` ORDER BY name`
	return r.queryNames(ctx, query, args...)
}

func (r *PostgresRepo) DistinctNames(ctx context.Context, bt *BinderType) ([]string, error) {
	query := `SELECT DISTINCT name FROM cards`
	args := []any{}
	if bt != nil {
		query += ` WHERE binder_type = $1`
		args = append(args, string(*bt))
	}
	query += ` ORDER BY name`
	return r.queryNames(ctx, query, args...)
}

func (r *PostgresRepo) DistinctDeckNames(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT binder_name FROM cards
		WHERE binder_type = 'deck'
		ORDER BY binder_name`
	return r.queryNames(ctx, query)
}

func (r *PostgresRepo) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FetchByNames orders rows by the caller's ranking of names, so fuzzy-match
// order survives the row fetch; set_code breaks ties among printings of the
// same name.
func (r *PostgresRepo) FetchByNames(ctx context.Context, names []string, bt *BinderType) ([]CardSummary, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := `
		SELECT binder_type, binder_name, quantity, name, set_code, scryfall_id
		FROM cards
		WHERE name = ANY($1)`
	args := []any{names}
	if bt != nil {
		query += ` AND binder_type = $2`
		args = append(args, string(*bt))
	}
	query += ` ORDER BY array_position($1::text[], name), set_code`

	return r.querySummaries(ctx, query, args...)
}

func (r *PostgresRepo) AggregateDeckCounts(ctx context.Context) ([]Deck, error) {
	const query = `
		SELECT binder_name, COALESCE(SUM(quantity), 0)
		FROM cards
		WHERE binder_type = 'deck'
		GROUP BY binder_name
		ORDER BY binder_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		var d Deck
		if err := rows.Scan(&d.Name, &d.CardCount); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *PostgresRepo) FetchDeckContents(ctx context.Context, deckName string) ([]CardSummary, error) {
	const query = `
		SELECT binder_type, binder_name, quantity, name, set_code, scryfall_id
		FROM cards
		WHERE binder_type = 'deck' AND binder_name = $1
		ORDER BY name, set_code`
	return r.querySummaries(ctx, query, deckName)
}

func (r *PostgresRepo) querySummaries(ctx context.Context, query string, args ...any) ([]CardSummary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CardSummary
	for rows.Next() {
		var s CardSummary
		var bt string
		if err := rows.Scan(&bt, &s.BinderName, &s.Quantity, &s.Name, &s.SetCode, &s.ScryfallID); err != nil {
			return nil, err
		}
		s.BinderType = BinderType(bt)
		out = append(out, s)
	}
	return out, rows.Err()
}
