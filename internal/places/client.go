// Package places wraps the HERE Discover API used as the pricing fallback
// when the local store has no rows for a slug. The call is scoped to a fixed
// geographic bias point, limited to a single result, and bounded by a hard
// timeout that acts as a circuit breaker: a slow upstream must not stall the
// reply path, so there are no retries at this call site.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrTimeout reports that the discover call exceeded its hard budget.
var ErrTimeout = errors.New("places: discover timed out")

// Item is the subset of a HERE Discover result the assistant consumes.
type Item struct {
	Title    string `json:"title"`
	Address  struct {
		Label string `json:"label"`
	} `json:"address"`
	Position struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"position"`
	Categories []Category `json:"categories"`
	Contacts   []Contact  `json:"contacts"`
}

// Category identifies a HERE place category.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Primary bool   `json:"primary"`
}

// Contact carries phone and website references for a result.
type Contact struct {
	Phone []ContactValue `json:"phone"`
	WWW   []ContactValue `json:"www"`
}

// ContactValue is a single contact entry.
type ContactValue struct {
	Value string `json:"value"`
}

// PrimaryCategory returns the primary category of the item, falling back to
// the first one listed. The zero Category means the item is uncategorized.
func (i *Item) PrimaryCategory() Category {
	for _, c := range i.Categories {
		if c.Primary {
			return c
		}
	}
	if len(i.Categories) > 0 {
		return i.Categories[0]
	}
	return Category{}
}

// Client calls the HERE Discover endpoint. The zero value is not usable;
// construct with New.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	biasLat    float64
	biasLng    float64
	timeout    time.Duration
}

// New constructs a Client with the given endpoint, credentials, bias point,
// and per-call budget.
func New(baseURL, apiKey string, biasLat, biasLng float64, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		biasLat:    biasLat,
		biasLng:    biasLng,
		timeout:    timeout,
	}
}

type discoverResponse struct {
	Items []Item `json:"items"`
}

// Discover searches for a single place near the configured bias point.
// It returns (nil, nil) when the upstream has no match. Exceeding the budget
// yields an error matching ErrTimeout (and context.DeadlineExceeded), which
// callers log distinctly from other upstream failures. Cancellation of the
// parent context is not a timeout and surfaces unwrapped.
func (c *Client) Discover(ctx context.Context, q string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("at", formatCoord(c.biasLat)+","+formatCoord(c.biasLng))
	params.Set("q", q)
	params.Set("apiKey", c.apiKey)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Only a deadline overrun is a timeout; a canceled parent context
		// is reported as is.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, context.DeadlineExceeded)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("places: discover status %d", resp.StatusCode)
	}

	var out discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, context.DeadlineExceeded)
		}
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return &out.Items[0], nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
