// Package importer loads a ManaBox collection export into the catalog.
// The whole catalog is replaced on every import; there is no incremental
// update path.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cardvault/internal/card"
)

// ManaBox export columns. The header row is matched by name so the export's
// column order does not matter.
const (
	colBinderName      = "Binder Name"
	colBinderType      = "Binder Type"
	colName            = "Name"
	colSetCode         = "Set code"
	colSetName         = "Set name"
	colCollectorNumber = "Collector number"
	colFoil            = "Foil"
	colRarity          = "Rarity"
	colQuantity        = "Quantity"
	colManaboxID       = "ManaBox ID"
	colScryfallID      = "Scryfall ID"
	colPurchasePrice   = "Purchase price"
	colMisprint        = "Misprint"
	colAltered         = "Altered"
	colCondition       = "Condition"
	colLanguage        = "Language"
	colCurrency        = "Purchase price currency"
)

var requiredColumns = []string{
	colBinderName, colBinderType, colName, colQuantity,
}

var knownConditions = map[string]bool{
	"mint": true, "near_mint": true, "excellent": true, "good": true,
	"light_played": true, "played": true, "poor": true,
}

type Result struct {
	Rows    int
	Cards   int
	Copies  int
	Decks   map[string]bool
	Binders map[string]bool
}

type Importer struct {
	repo card.Repository
	log  *logrus.Logger
}

func New(repo card.Repository, log *logrus.Logger) *Importer {
	return &Importer{repo: repo, log: log}
}

// ImportFile parses the CSV at path and replaces the catalog with its rows.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import parses a ManaBox CSV stream and replaces the catalog atomically.
// A malformed row aborts the import; the previous catalog stays intact.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	cards, res, err := im.parse(r)
	if err != nil {
		return nil, err
	}

	if err := im.repo.ReplaceAll(ctx, cards); err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}
	return res, nil
}

func (im *Importer) parse(r io.Reader) ([]card.Card, *Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	res := &Result{Decks: map[string]bool{}, Binders: map[string]bool{}}
	var cardsOut []card.Card

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", res.Rows+2, err)
		}
		res.Rows++
		rowNum := res.Rows + 1 // 1-based, counting the header

		c, err := im.parseRow(record, field)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		cardsOut = append(cardsOut, c)
		res.Cards++
		res.Copies += c.Quantity
		if c.BinderType == card.BinderDeck {
			res.Decks[c.BinderName] = true
		} else {
			res.Binders[c.BinderName] = true
		}
	}

	return cardsOut, res, nil
}

func (im *Importer) parseRow(record []string, field func([]string, string) string) (card.Card, error) {
	name := field(record, colName)
	if name == "" {
		return card.Card{}, fmt.Errorf("empty card name")
	}

	bt, err := card.ParseBinderType(field(record, colBinderType))
	if err != nil {
		return card.Card{}, err
	}

	qty, err := strconv.Atoi(field(record, colQuantity))
	if err != nil || qty < 0 {
		return card.Card{}, fmt.Errorf("invalid quantity %q", field(record, colQuantity))
	}

	var manaboxID int64
	if raw := field(record, colManaboxID); raw != "" {
		manaboxID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return card.Card{}, fmt.Errorf("invalid ManaBox ID %q", raw)
		}
	}

	price := decimal.Zero
	if raw := field(record, colPurchasePrice); raw != "" {
		price, err = decimal.NewFromString(raw)
		if err != nil {
			return card.Card{}, fmt.Errorf("invalid purchase price %q", raw)
		}
	}

	condition := field(record, colCondition)
	if condition != "" && !knownConditions[condition] {
		im.log.WithField("condition", condition).Warn("unknown condition value, keeping as-is")
	}

	return card.Card{
		BinderName:            field(record, colBinderName),
		BinderType:            bt,
		Name:                  name,
		SetCode:               field(record, colSetCode),
		SetName:               field(record, colSetName),
		CollectorNumber:       field(record, colCollectorNumber),
		Foil:                  field(record, colFoil),
		Rarity:                field(record, colRarity),
		Quantity:              qty,
		ManaboxID:             manaboxID,
		ScryfallID:            field(record, colScryfallID),
		PurchasePrice:         price,
		Misprint:              field(record, colMisprint) == "true",
		Altered:               field(record, colAltered) == "true",
		Condition:             condition,
		Language:              field(record, colLanguage),
		PurchasePriceCurrency: field(record, colCurrency),
	}, nil
}
