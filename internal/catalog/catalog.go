// Package catalog holds the read-only index membership tables used to scope
// the company selector.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"stock-predictor/internal/models"
)

//go:embed data/*.json
var fixtures embed.FS

type IndexID string

const (
	SP500     IndexID = "sp500"
	Nasdaq100 IndexID = "nasdaq100"

	DefaultIndex = SP500
)

var indexNames = map[IndexID]string{
	SP500:     "S&P 500",
	Nasdaq100: "Nasdaq 100",
}

var fixtureFiles = map[IndexID]string{
	SP500:     "data/sp500-with-logos.json",
	Nasdaq100: "data/nasdaq100-with-logos.json",
}

// IDs lists the known indices in display order
func IDs() []IndexID {
	return []IndexID{SP500, Nasdaq100}
}

// ParseID validates a raw index identifier
func ParseID(raw string) (IndexID, bool) {
	id := IndexID(raw)
	_, ok := indexNames[id]
	return id, ok
}

// Catalog maps each index to its company set. It is immutable once built;
// every accessor hands out copies.
type Catalog struct {
	sets map[IndexID][]models.Company
}

// New builds a catalog, requiring a non-empty set with unique symbols for
// every known index.
func New(sets map[IndexID][]models.Company) (*Catalog, error) {
	c := &Catalog{sets: make(map[IndexID][]models.Company, len(sets))}

	for id, companies := range sets {
		if _, ok := indexNames[id]; !ok {
			return nil, fmt.Errorf("unknown index %q", id)
		}
		if err := validateSet(companies); err != nil {
			return nil, fmt.Errorf("index %s: %w", id, err)
		}
		c.sets[id] = append([]models.Company(nil), companies...)
	}

	for _, id := range IDs() {
		if _, ok := c.sets[id]; !ok {
			return nil, fmt.Errorf("index %s: missing company set", id)
		}
	}

	return c, nil
}

// LoadEmbedded builds the catalog from the fixtures compiled into the binary
func LoadEmbedded() (*Catalog, error) {
	sets := make(map[IndexID][]models.Company, len(fixtureFiles))
	for id, path := range fixtureFiles {
		raw, err := fixtures.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var companies []models.Company
		if err := json.Unmarshal(raw, &companies); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		sets[id] = companies
	}
	return New(sets)
}

func validateSet(companies []models.Company) error {
	if len(companies) == 0 {
		return fmt.Errorf("company set is empty")
	}
	seen := make(map[string]struct{}, len(companies))
	for i, company := range companies {
		if company.Symbol == "" {
			return fmt.Errorf("entry %d has no symbol", i)
		}
		if _, dup := seen[company.Symbol]; dup {
			return fmt.Errorf("duplicate symbol %s", company.Symbol)
		}
		seen[company.Symbol] = struct{}{}
	}
	return nil
}

// Name returns the display name of an index
func (c *Catalog) Name(id IndexID) string {
	return indexNames[id]
}

// Indices describes every index in display order
func (c *Catalog) Indices() []models.IndexInfo {
	infos := make([]models.IndexInfo, 0, len(c.sets))
	for _, id := range IDs() {
		infos = append(infos, models.IndexInfo{
			ID:   string(id),
			Name: indexNames[id],
			Size: len(c.sets[id]),
		})
	}
	return infos
}

// Companies returns a copy of the company set of an index
func (c *Catalog) Companies(id IndexID) ([]models.Company, bool) {
	set, ok := c.sets[id]
	if !ok {
		return nil, false
	}
	return append([]models.Company(nil), set...), true
}

// First returns the first company of an index
func (c *Catalog) First(id IndexID) (models.Company, bool) {
	set, ok := c.sets[id]
	if !ok {
		return models.Company{}, false
	}
	return set[0], true
}

// Contains reports whether symbol belongs to the index
func (c *Catalog) Contains(id IndexID, symbol string) bool {
	for _, company := range c.sets[id] {
		if company.Symbol == symbol {
			return true
		}
	}
	return false
}
