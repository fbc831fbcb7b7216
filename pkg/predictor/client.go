package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-predictor/internal/models"
)

// TransportError covers everything that keeps a well-formed payload from
// arriving: network failures, timeouts and bodies that are not JSON.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("prediction service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError is a well-formed payload carrying an error field
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict makes a single POST {baseURL}/predict call. The HTTP status is not
// inspected; only the decoded payload decides the outcome.
func (c *Client) Predict(ctx context.Context, symbol string, days int) (models.ForecastSeries, error) {
	jsonData, err := json.Marshal(models.PredictRequest{Symbol: symbol, Days: days})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(jsonData))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, &TransportError{Err: fmt.Errorf("status %d: empty payload", resp.StatusCode)}
	}

	var payload models.PredictResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}

	if payload.Error != "" {
		return nil, &ServiceError{Message: payload.Error}
	}

	return payload.Predictions, nil
}
