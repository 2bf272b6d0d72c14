// Package scryfall looks up canonical card data on api.scryfall.com for
// cards that are not in the local catalog.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrCardNotFound is returned when the fuzzy lookup matches no card.
var ErrCardNotFound = errors.New("card not found")

const defaultBaseURL = "https://api.scryfall.com"

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient builds a client that stays under rps requests per second.
// Scryfall asks clients to keep roughly 10 requests/second or less.
// rps values below 1 are raised to 1 and negative maxRetries means no
// retries, so misconfigured env vars degrade to the slowest settings.
func NewClient(userAgent string, rps int, maxRetries int) *Client {
	if rps < 1 {
		rps = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// CardInfo is the trimmed projection of Scryfall's card object. The full
// response runs to dozens of fields; tool callers only need these.
type CardInfo struct {
	Name            string `json:"name"`
	ManaCost        string `json:"mana_cost"`
	TypeLine        string `json:"type_line"`
	OracleText      string `json:"oracle_text"`
	Set             string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`
	Prices          struct {
		USD string `json:"usd"`
		EUR string `json:"eur"`
	} `json:"prices"`
}

// NamedFuzzy resolves a possibly misspelled card name through Scryfall's
// fuzzy endpoint.
func (c *Client) NamedFuzzy(ctx context.Context, name string) (*CardInfo, error) {
	u := fmt.Sprintf("%s/cards/named?fuzzy=%s", c.baseURL, url.QueryEscape(name))

	var info CardInfo
	if err := c.get(ctx, u, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(target)
			resp.Body.Close()
			return err
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrCardNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
