package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"growbox_dashboard/internal/models"
)

// Device endpoints.
const (
	SensorsPath = "/api/sensors"
	StatusPath  = "/api/status"
	TargetsPath = "/api/targets"
	EventsPath  = "/events"
	WSPath      = "/ws"
)

// maxBodyBytes bounds every response body read by the client.
const maxBodyBytes = 1 << 16

// ErrMalformedBody is returned when a response body cannot be decoded.
var ErrMalformedBody = errors.New("malformed response body")

// StatusError is returned for non-2xx responses of the GET endpoints.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("device: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("device: HTTP %d: %s", e.StatusCode, e.Body)
}

// TargetResponse is the outcome of a target submission that produced a parseable body.
type TargetResponse struct {
	StatusCode int
	Result     models.TargetUpdateResult
}

// OK reports whether the HTTP status was 2xx.
func (r TargetResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client talks to the device HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the device at baseURL. A nil httpClient
// means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// URL joins the base URL and path.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// HTTPClient exposes the underlying client so transports can share it.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// FetchSensors performs GET /api/sensors.
func (c *Client) FetchSensors(ctx context.Context) (models.SensorSnapshot, error) {
	body, err := c.get(ctx, SensorsPath)
	if err != nil {
		return models.SensorSnapshot{}, err
	}
	s, err := models.DecodeSensorSnapshot(body)
	if err != nil {
		return models.SensorSnapshot{}, fmt.Errorf("sensors: %w: %w", ErrMalformedBody, err)
	}
	return s, nil
}

// FetchStatus performs GET /api/status.
func (c *Client) FetchStatus(ctx context.Context) (models.DeviceStatusSnapshot, error) {
	body, err := c.get(ctx, StatusPath)
	if err != nil {
		return models.DeviceStatusSnapshot{}, err
	}
	d, err := models.DecodeStatusSnapshot(body)
	if err != nil {
		return models.DeviceStatusSnapshot{}, fmt.Errorf("status: %w: %w", ErrMalformedBody, err)
	}
	return d, nil
}

// PostTargets performs POST /api/targets. Any HTTP status with a parseable
// body yields a TargetResponse; transport failures and unparseable bodies
// yield an error.
func (c *Client) PostTargets(ctx context.Context, req models.TargetUpdateRequest) (TargetResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return TargetResponse{}, fmt.Errorf("targets: marshaling request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(TargetsPath), bytes.NewReader(payload))
	if err != nil {
		return TargetResponse{}, fmt.Errorf("targets: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return TargetResponse{}, fmt.Errorf("targets: sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return TargetResponse{}, fmt.Errorf("targets: reading response: %w", err)
	}
	result, err := decodeTargetResult(body)
	if err != nil {
		return TargetResponse{}, fmt.Errorf("targets: HTTP %d: %w", resp.StatusCode, err)
	}
	return TargetResponse{StatusCode: resp.StatusCode, Result: result}, nil
}

// decodeTargetResult requires a JSON object with a boolean "success";
// "message" is optional.
func decodeTargetResult(body []byte) (models.TargetUpdateResult, error) {
	var w struct {
		Success *bool   `json:"success"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &w); err != nil {
		return models.TargetUpdateResult{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if w.Success == nil {
		return models.TargetUpdateResult{}, fmt.Errorf("%w: missing \"success\"", ErrMalformedBody)
	}
	result := models.TargetUpdateResult{Success: *w.Success}
	if w.Message != nil {
		result.Message = *w.Message
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: sending request: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
