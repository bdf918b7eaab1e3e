// Package remote implements choices.Fetcher and choices.Resolver over a
// JSON HTTP endpoint.
//
// Pages are requested with GET <endpoint>?search=&offset=&limit= and must
// answer {"total": n, "result": [...]}; total is optional. Ids are resolved
// with POST <endpoint>/resolve and body {"ids": [...]}, answering
// {"result": [...]}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	choices "github.com/goliatone/go-choices"
	"github.com/goliatone/go-choices/internal/hydrate"
)

// Client talks to one options endpoint. It is safe for concurrent use.
type Client struct {
	endpoint   string
	resolveURL string
	httpClient *http.Client
	headers    http.Header
	pages      *hydrate.Decoder[pagePayload]
	items      *hydrate.Decoder[itemsPayload]
}

var (
	_ choices.Fetcher  = (*Client)(nil)
	_ choices.Resolver = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// WithResolveURL overrides the by-id endpoint.
func WithResolveURL(resolveURL string) Option {
	return func(c *Client) { c.resolveURL = resolveURL }
}

// New returns a client for the options endpoint. Resolution posts to
// endpoint + "/resolve".
func New(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimRight(endpoint, "/")
	c := &Client{
		endpoint:   endpoint,
		resolveURL: endpoint + "/resolve",
		httpClient: http.DefaultClient,
		headers:    http.Header{},
		pages: hydrate.NewDecoder(
			hydrate.WithPreHook[pagePayload](requireResultList),
			hydrate.WithPreHook[pagePayload](dropNonNumericTotal),
		),
		items: hydrate.NewDecoder(
			hydrate.WithPreHook[itemsPayload](requireResultList),
		),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type pagePayload struct {
	Total  *int             `json:"total"`
	Result []choices.Option `json:"result"`
}

type itemsPayload struct {
	Result []choices.Option `json:"result"`
}

// Fetch implements choices.Fetcher.
func (c *Client) Fetch(ctx context.Context, search string, offset, limit int) (*choices.Page, error) {
	query := url.Values{}
	query.Set("search", search)
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build page request: %w", err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	payload, err := c.pages.DecodeBytes(hydrate.Context{
		Endpoint: c.endpoint,
		Search:   search,
		Offset:   offset,
		Limit:    limit,
	}, body)
	if err != nil {
		return nil, err
	}
	return &choices.Page{Total: payload.Total, Result: payload.Result}, nil
}

// Resolve implements choices.Resolver.
func (c *Client) Resolve(ctx context.Context, ids []choices.OptionID) ([]choices.Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	buffer, err := json.Marshal(map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("remote: encode ids: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL, bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("remote: build resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	payload, err := c.items.DecodeBytes(hydrate.Context{Endpoint: c.resolveURL}, body)
	if err != nil {
		return nil, err
	}
	return payload.Result, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote: status %d", e.Code)
	}
	return fmt.Sprintf("remote: status %d: %s", e.Code, e.Body)
}

func requireResultList(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	if _, ok := payload["result"].([]any); !ok {
		return nil, fmt.Errorf("%w: result is not a list", choices.ErrMalformedFetchResult)
	}
	return payload, nil
}

// dropNonNumericTotal removes totals the controller cannot use, so it falls
// back to the previous total.
func dropNonNumericTotal(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	raw, ok := payload["total"]
	if !ok {
		return payload, nil
	}
	number, ok := raw.(json.Number)
	if !ok {
		delete(payload, "total")
		return payload, nil
	}
	if _, err := number.Int64(); err != nil {
		delete(payload, "total")
	}
	return payload, nil
}
