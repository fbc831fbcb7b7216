package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidNumber   = errors.New("invalid numeric field")
)

// Session is one user's page state. Sessions never share mutable state.
type Session struct {
	ID        string
	CreatedAt time.Time
	Selection *SelectionManager
	Forecast  *ForecastController

	chartWindow int
}

// View recomputes everything the page shows from the current selection and
// request state.
func (s *Session) View() models.SessionView {
	sel := s.Selection.Selection()
	state := s.Forecast.State()
	metrics := DeriveMetrics(state.Series, sel)

	view := models.SessionView{
		ID: s.ID,
		Selection: models.SelectionView{
			Index:       string(sel.IndexID),
			Symbol:      sel.Symbol,
			BuyPrice:    models.Number(sel.BuyPrice),
			ShareCount:  models.Number(sel.ShareCount),
			HorizonDays: models.Number(sel.HorizonDays),
		},
		Companies: s.Selection.Companies(),
		Status:    state.Status.String(),
		Loading:   state.Status == StatusPending,
		Error:     state.Message,
		Summary:   metrics.Summary(),
	}
	if len(state.Series) > 0 {
		view.Chart = WindowForChart(state.Series, s.chartWindow)
	}
	return view
}

// SessionService owns the live sessions. Forecasts run on the service's base
// context so they outlive the HTTP request that started them.
type SessionService struct {
	ctx         context.Context
	catalog     *catalog.Catalog
	predictor   Predictor
	sessions    *Cache[string, *Session]
	chartWindow int
	log         zerolog.Logger
}

func NewSessionService(
	ctx context.Context,
	cat *catalog.Catalog,
	p Predictor,
	ttl time.Duration,
	chartWindow int,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		ctx:         ctx,
		catalog:     cat,
		predictor:   p,
		sessions:    NewCache[string, *Session](ttl, time.Minute),
		chartWindow: chartWindow,
		log:         log.With().Str("service", "sessions").Logger(),
	}
}

func (s *SessionService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *SessionService) Create() *Session {
	session := &Session{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		Selection:   NewSelectionManager(s.catalog),
		Forecast:    NewForecastController(s.predictor, s.log),
		chartWindow: s.chartWindow,
	}
	s.sessions.Set(session.ID, session)
	s.log.Debug().Str("session", session.ID).Msg("Session created")
	return session
}

func (s *SessionService) Get(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

func (s *SessionService) Delete(id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// UpdateSelection applies a partial update. Index and symbol are validated
// up front so a rejected update changes nothing.
func (s *SessionService) UpdateSelection(id string, update models.SelectionUpdate) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	target := session.Selection.Selection().IndexID
	if update.Index != nil {
		parsed, ok := catalog.ParseID(*update.Index)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownIndex, *update.Index)
		}
		target = parsed
	}
	if update.Symbol != nil && !s.catalog.Contains(target, *update.Symbol) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, *update.Symbol)
	}

	buyPrice, err := optionalNumberText(update.BuyPrice)
	if err != nil {
		return nil, err
	}
	shareCount, err := optionalNumberText(update.ShareCount)
	if err != nil {
		return nil, err
	}
	horizonDays, err := optionalNumberText(update.HorizonDays)
	if err != nil {
		return nil, err
	}

	if update.Index != nil {
		if err := session.Selection.SetIndex(target); err != nil {
			return nil, err
		}
	}
	if update.Symbol != nil {
		if err := session.Selection.SetSymbol(*update.Symbol); err != nil {
			return nil, err
		}
	}
	if buyPrice != nil {
		session.Selection.SetBuyPrice(*buyPrice)
	}
	if shareCount != nil {
		session.Selection.SetShareCount(*shareCount)
	}
	if horizonDays != nil {
		session.Selection.SetHorizonDays(*horizonDays)
	}

	return session, nil
}

// Predict starts a forecast for the session's current symbol. The returned
// channel closes when that request has been resolved.
func (s *SessionService) Predict(id string) (*Session, <-chan struct{}, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	symbol := session.Selection.Selection().Symbol
	done := session.Forecast.RequestForecast(s.ctx, symbol)
	return session, done, nil
}

func (s *SessionService) Close() {
	s.sessions.Close()
}

func optionalNumberText(raw *json.RawMessage) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	text, err := rawNumberText(*raw)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

// rawNumberText accepts a JSON number, a JSON string holding raw user input,
// or null (read as blank).
func rawNumberText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidNumber, err)
		}
		return text, nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidNumber, err)
		}
		return n.String(), nil
	}
}
