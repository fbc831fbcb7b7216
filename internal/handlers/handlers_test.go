package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/models"
	"stock-predictor/internal/services"
	"stock-predictor/pkg/predictor"
)

func newTestApp(t *testing.T, predictHandler http.HandlerFunc) *fiber.App {
	t.Helper()

	server := httptest.NewServer(predictHandler)
	t.Cleanup(server.Close)

	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	client := predictor.NewClient(server.URL, 2*time.Second)
	sessions := services.NewSessionService(context.Background(), cat, client, time.Hour, services.DefaultChartWindow, zerolog.Nop())
	t.Cleanup(sessions.Close)

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	RegisterRoutes(app,
		NewHealthHandler("test", cat, server.URL),
		NewCatalogHandler(cat),
		NewSessionHandler(sessions),
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeView(t *testing.T, data []byte) models.SessionView {
	t.Helper()
	var view models.SessionView
	require.NoError(t, json.Unmarshal(data, &view))
	return view
}

func createSession(t *testing.T, app *fiber.App) models.SessionView {
	t.Helper()
	status, data := doRequest(t, app, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, status)
	return decodeView(t, data)
}

func waitForSettled(t *testing.T, app *fiber.App, id string) models.SessionView {
	t.Helper()
	var view models.SessionView
	require.Eventually(t, func() bool {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id, nil))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var current models.SessionView
		if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
			return false
		}
		view = current
		return !current.Loading
	}, 2*time.Second, 10*time.Millisecond)
	return view
}

func predictions(n int) string {
	points := make([]string, n)
	for i := range points {
		points[i] = `{"date":"2025-01-01","predicted_price":` + strconv.Itoa(100+i) + `}`
	}
	return `{"predictions":[` + strings.Join(points, ",") + `]}`
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	status, data := doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"status":"healthy"`)

	status, data = doRequest(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"status":"ready"`)
}

func TestReady_NotConfigured(t *testing.T) {
	app := fiber.New()
	app.Get("/health/ready", NewHealthHandler("test", nil, "").Ready)

	status, data := doRequest(t, app, http.MethodGet, "/health/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(data), `"catalog":"missing"`)
}

func TestIndicesAndCompanies(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	status, data := doRequest(t, app, http.MethodGet, "/v1/indices", "")
	require.Equal(t, http.StatusOK, status)
	var indices []models.IndexInfo
	require.NoError(t, json.Unmarshal(data, &indices))
	require.Len(t, indices, 2)
	assert.Equal(t, "sp500", indices[0].ID)

	status, data = doRequest(t, app, http.MethodGet, "/v1/indices/nasdaq100/companies", "")
	require.Equal(t, http.StatusOK, status)
	var companies []models.Company
	require.NoError(t, json.Unmarshal(data, &companies))
	assert.Equal(t, "AAPL", companies[0].Symbol)

	status, _ = doRequest(t, app, http.MethodGet, "/v1/indices/dax/companies", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.PredictRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Symbol != "MSFT" || req.Days != 365 {
			_, _ = w.Write([]byte(`{"error":"unexpected request"}`))
			return
		}
		_, _ = w.Write([]byte(predictions(365)))
	})

	view := createSession(t, app)
	assert.Equal(t, "sp500", view.Selection.Index)
	assert.Equal(t, "MMM", view.Selection.Symbol)
	assert.Equal(t, "idle", view.Status)
	assert.NotEmpty(t, view.Companies)

	status, data := doRequest(t, app, http.MethodPatch, "/v1/sessions/"+view.ID+"/selection",
		`{"symbol":"MSFT","buyPrice":"300","shareCount":2,"horizonDays":"7"}`)
	require.Equal(t, http.StatusOK, status, string(data))
	view = decodeView(t, data)
	assert.Equal(t, "MSFT", view.Selection.Symbol)
	assert.Equal(t, models.Number(300), view.Selection.BuyPrice)

	status, _ = doRequest(t, app, http.MethodPost, "/v1/sessions/"+view.ID+"/predict", "")
	require.Equal(t, http.StatusAccepted, status)

	view = waitForSettled(t, app, view.ID)
	assert.Equal(t, "succeeded", view.Status)
	assert.Equal(t, "280.00", view.Summary.Price6Months)
	assert.Equal(t, "464.00", view.Summary.Price1Year)
	assert.Equal(t, "464.00", view.Summary.FinalPrice)
	assert.Equal(t, "600.00", view.Summary.TotalInvestment)
	assert.Equal(t, "+328.00", view.Summary.ProfitLoss)
	assert.Len(t, view.Chart, 30)

	status, _ = doRequest(t, app, http.MethodDelete, "/v1/sessions/"+view.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, data = doRequest(t, app, http.MethodGet, "/v1/sessions/"+view.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(data), "Session not found")
}

func TestSwitchingIndexResetsSymbol(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	view := createSession(t, app)

	status, data := doRequest(t, app, http.MethodPatch, "/v1/sessions/"+view.ID+"/selection", `{"index":"nasdaq100"}`)
	require.Equal(t, http.StatusOK, status)

	view = decodeView(t, data)
	assert.Equal(t, "nasdaq100", view.Selection.Index)
	assert.Equal(t, "AAPL", view.Selection.Symbol)
	assert.Equal(t, "AAPL", view.Companies[0].Symbol)
}

func TestUpdateSelection_Rejections(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	view := createSession(t, app)
	path := "/v1/sessions/" + view.ID + "/selection"

	testCases := []struct {
		name string
		body string
		code int
	}{
		{"unknown index", `{"index":"dax"}`, http.StatusBadRequest},
		{"symbol outside index", `{"symbol":"WDAY"}`, http.StatusBadRequest},
		{"non numeric json", `{"buyPrice":{"x":1}}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := doRequest(t, app, http.MethodPatch, path, tc.body)
			assert.Equal(t, tc.code, status)
		})
	}

	status, _ := doRequest(t, app, http.MethodPatch, "/v1/sessions/missing/selection", `{"symbol":"MMM"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPredict_ServiceErrorSurfaces(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"symbol not found"}`))
	})
	view := createSession(t, app)

	status, _ := doRequest(t, app, http.MethodPost, "/v1/sessions/"+view.ID+"/predict", "")
	require.Equal(t, http.StatusAccepted, status)

	view = waitForSettled(t, app, view.ID)
	assert.Equal(t, "failed", view.Status)
	assert.Equal(t, "symbol not found", view.Error)
	assert.Empty(t, view.Chart)
	assert.Equal(t, "0.00", view.Summary.FinalPrice)
	assert.Equal(t, "1000.00", view.Summary.TotalInvestment)
	assert.Equal(t, "-1000.00", view.Summary.ProfitLoss)
}

func TestPredict_TransportErrorSurfaces(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})
	view := createSession(t, app)

	doRequest(t, app, http.MethodPost, "/v1/sessions/"+view.ID+"/predict", "")

	view = waitForSettled(t, app, view.ID)
	assert.Equal(t, "failed", view.Status)
	assert.Equal(t, "API error", view.Error)
}

func TestPredict_UnknownSession(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	status, _ := doRequest(t, app, http.MethodPost, "/v1/sessions/missing/predict", "")

	assert.Equal(t, http.StatusNotFound, status)
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	status, data := doRequest(t, app, http.MethodGet, "/teapot", "")

	assert.Equal(t, fiber.StatusTeapot, status)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "short and stout", resp.Message)
	assert.Equal(t, fiber.StatusTeapot, resp.Code)
}
