// Package portfolio loads reserve holdings from CSV files and stores them.
package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aristath/reservestress/internal/domain"
)

// ErrInvalidHolding is wrapped by every structural fault in an import file
var ErrInvalidHolding = errors.New("invalid holding")

// Upper bounds on a single row. Totals over bounded rows stay finite.
const (
	MaxAmount        = 1e15
	MaxLiquidityDays = 36500
)

// Column names are matched case-insensitively
const (
	colAssetType     = "asset_type"
	colLiquidityDays = "liquidity_period_days"
	colName          = "name"
	colAssetName     = "asset_name"
	colInstitution   = "institution"
	amountPrefix     = "amount_"
)

// Loader parses portfolio CSV files
type Loader struct {
	currency string
}

// NewLoader creates a loader that prefers the Amount_<currency> column
func NewLoader(currency string) *Loader {
	return &Loader{currency: strings.ToLower(currency)}
}

// LoadFile parses the portfolio file at path
func (l *Loader) LoadFile(path string) (domain.Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open portfolio file: %w", err)
	}
	defer f.Close()

	return l.Parse(f)
}

// Parse reads holdings from CSV. The first record is the header.
func (l *Loader) Parse(r io.Reader) (domain.Portfolio, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidHolding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := l.mapColumns(header)
	if err != nil {
		return nil, err
	}

	holdings := domain.Portfolio{}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if isBlank(record) {
			continue
		}

		h, err := cols.holding(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		holdings = append(holdings, h)
	}

	return holdings, nil
}

type columns struct {
	assetType, amount, liquidity int
	name, institution            int // -1 when absent
}

func (l *Loader) mapColumns(header []string) (columns, error) {
	cols := columns{assetType: -1, amount: -1, liquidity: -1, name: -1, institution: -1}
	preferredAmount := amountPrefix + l.currency

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		switch {
		case name == colAssetType:
			cols.assetType = i
		case name == colLiquidityDays:
			cols.liquidity = i
		case name == colAssetName, name == colName && cols.name < 0:
			cols.name = i
		case name == colInstitution:
			cols.institution = i
		case name == preferredAmount:
			cols.amount = i
		case strings.HasPrefix(name, amountPrefix) && cols.amount < 0:
			cols.amount = i
		}
	}

	var missing []string
	if cols.assetType < 0 {
		missing = append(missing, "Asset_Type")
	}
	if cols.amount < 0 {
		missing = append(missing, "Amount_"+strings.ToUpper(l.currency))
	}
	if cols.liquidity < 0 {
		missing = append(missing, "Liquidity_Period_Days")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing columns %s", ErrInvalidHolding, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) holding(record []string) (domain.Holding, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	class := field(c.assetType)
	if class == "" {
		return domain.Holding{}, fmt.Errorf("%w: empty asset type", ErrInvalidHolding)
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(field(c.amount), ",", ""), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.Holding{}, fmt.Errorf("%w: unparsable amount %q", ErrInvalidHolding, field(c.amount))
	}
	if amount < 0 {
		return domain.Holding{}, fmt.Errorf("%w: negative amount %g", ErrInvalidHolding, amount)
	}
	if amount > MaxAmount {
		return domain.Holding{}, fmt.Errorf("%w: amount %g exceeds %g", ErrInvalidHolding, amount, MaxAmount)
	}

	days, err := strconv.ParseFloat(field(c.liquidity), 64)
	if err != nil || math.IsInf(days, 0) || days != math.Trunc(days) {
		return domain.Holding{}, fmt.Errorf("%w: liquidity days %q is not a whole number", ErrInvalidHolding, field(c.liquidity))
	}
	if days < 0 {
		return domain.Holding{}, fmt.Errorf("%w: negative liquidity days %g", ErrInvalidHolding, days)
	}
	if days > MaxLiquidityDays {
		return domain.Holding{}, fmt.Errorf("%w: liquidity days %g exceed %d", ErrInvalidHolding, days, MaxLiquidityDays)
	}

	return domain.Holding{
		Name:          field(c.name),
		Institution:   field(c.institution),
		AssetClass:    domain.AssetClass(class),
		Amount:        amount,
		LiquidityDays: int(days),
	}, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
