package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/models"
)

var (
	ErrUnknownIndex  = errors.New("unknown index")
	ErrUnknownSymbol = errors.New("symbol is not part of the selected index")
)

const (
	defaultBuyPrice    = 100
	defaultShareCount  = 10
	defaultHorizonDays = 365
)

// Selection is the user's current choice. Numeric fields hold NaN when the
// raw input could not be parsed.
type Selection struct {
	IndexID     catalog.IndexID
	Symbol      string
	BuyPrice    float64
	ShareCount  float64
	HorizonDays float64
}

// SelectionManager keeps the index and company choices consistent: the
// symbol is always a member of the active index's company set.
type SelectionManager struct {
	mu        sync.RWMutex
	catalog   *catalog.Catalog
	selection Selection
}

func NewSelectionManager(cat *catalog.Catalog) *SelectionManager {
	first, _ := cat.First(catalog.DefaultIndex)
	return &SelectionManager{
		catalog: cat,
		selection: Selection{
			IndexID:     catalog.DefaultIndex,
			Symbol:      first.Symbol,
			BuyPrice:    defaultBuyPrice,
			ShareCount:  defaultShareCount,
			HorizonDays: defaultHorizonDays,
		},
	}
}

func (m *SelectionManager) Selection() Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selection
}

// Companies returns the active company set
func (m *SelectionManager) Companies() []models.Company {
	m.mu.RLock()
	defer m.mu.RUnlock()
	companies, _ := m.catalog.Companies(m.selection.IndexID)
	return companies
}

// SetIndex switches the active company set and resets the symbol to the
// first company of the new set. Selecting the current index is a no-op.
func (m *SelectionManager) SetIndex(id catalog.IndexID) error {
	first, ok := m.catalog.First(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIndex, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selection.IndexID == id {
		return nil
	}
	m.selection.IndexID = id
	m.selection.Symbol = first.Symbol
	return nil
}

// SetSymbol changes the company; symbols outside the active set are rejected
// and leave the selection untouched.
func (m *SelectionManager) SetSymbol(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.catalog.Contains(m.selection.IndexID, symbol) {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	m.selection.Symbol = symbol
	return nil
}

func (m *SelectionManager) SetBuyPrice(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.BuyPrice = ParseNumber(raw)
}

func (m *SelectionManager) SetShareCount(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.ShareCount = ParseNumber(raw)
}

// SetHorizonDays only records intent; requests always use RequestHorizonDays.
func (m *SelectionManager) SetHorizonDays(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection.HorizonDays = ParseNumber(raw)
}

// ParseNumber coerces raw input the way a browser number field does: blank
// is 0, anything unparseable is NaN.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
