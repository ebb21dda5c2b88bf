// Package geo talks to the countriesnow-style geography lookup service that
// lists a country's states and each state's cities.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Domain Errors
var (
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = errors.New("geography service request failed")
	// ErrShape means the response body did not carry the expected list.
	ErrShape = errors.New("geography service returned an unexpected payload")
)

const maxResponseBytes = 4 << 20

// Client queries one country's administrative regions.
type Client struct {
	baseURL    string
	country    string
	httpClient *http.Client
}

// NewClient creates a Client. timeout bounds every request; zero disables it.
func NewClient(baseURL, country string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		country:    country,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Country returns the country the client is scoped to.
func (c *Client) Country() string {
	return c.country
}

type statesRequest struct {
	Country string `json:"country"`
}

type citiesRequest struct {
	Country string `json:"country"`
	State   string `json:"state"`
}

type envelope struct {
	Error bool            `json:"error"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
}

type statesData struct {
	States json.RawMessage `json:"states"`
}

type stateEntry struct {
	Name string `json:"name"`
}

// States returns the state names of the configured country in service order.
// Entries without a name are dropped.
func (c *Client) States(ctx context.Context) ([]string, error) {
	env, err := c.post(ctx, "/countries/states", statesRequest{Country: c.country})
	if err != nil {
		return nil, err
	}

	var data statesData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrShape, err)
	}

	var entries []stateEntry
	if err := decodeArray(data.States, &entries); err != nil {
		return nil, fmt.Errorf("%w: data.states: %v", ErrShape, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// Cities returns the city names of state in service order.
func (c *Client) Cities(ctx context.Context, state string) ([]string, error) {
	env, err := c.post(ctx, "/countries/state/cities", citiesRequest{Country: c.country, State: state})
	if err != nil {
		return nil, err
	}

	var cities []string
	if err := decodeArray(env.Data, &cities); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrShape, err)
	}
	return cities, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: HTTP %d", ErrTransport, res.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrShape, err)
	}
	return &env, nil
}

// decodeArray rejects anything that is not a JSON array, including null and a missing field.
func decodeArray(raw json.RawMessage, dst interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return errors.New("not an array")
	}
	return json.Unmarshal(trimmed, dst)
}
