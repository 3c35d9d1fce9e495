// Package storage is the HTTP adapter for the remote acquisitions storage
// service, which owns the durable orders, order lines and pieces.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/domain/shared"
)

// maxResponseSize is the maximum allowed response size from storage (10MB)
const maxResponseSize = 10 * 1024 * 1024

// lineFetchLimit bounds how many lines one order may carry
const lineFetchLimit = 500

// ErrConfigMissingBaseURL indicates an unset storage base URL
var ErrConfigMissingBaseURL = errors.New("storage: base URL is required")

// Config holds connection settings for the storage collaborator
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tenant  string
	Token   string
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	return nil
}

// Client implements orders.Storage against the remote storage HTTP API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a storage client with the given configuration
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// GetOrder fetches the stored order snapshot without its composite lines
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	var doc orderDoc
	if err := c.getJSON(ctx, "/purchase-orders/"+id.String(), &doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// IsNumberUnique reports whether no stored order uses the given number
func (c *Client) IsNumberUnique(ctx context.Context, number string) (bool, error) {
	endpoint := "/purchase-orders?" + url.Values{
		"query": {fmt.Sprintf("poNumber==%s", number)},
		"limit": {"0"},
	}.Encode()

	var page struct {
		TotalRecords int `json:"totalRecords"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return false, err
	}
	return page.TotalRecords == 0, nil
}

// UpdateOrderSummary persists the flat order document
func (c *Client) UpdateOrderSummary(ctx context.Context, summary orders.OrderSummary) error {
	return c.send(ctx, http.MethodPut, "/purchase-orders/"+summary.ID.String(), summaryToDoc(summary), nil)
}

// GetLines fetches the full stored line list of an order
func (c *Client) GetLines(ctx context.Context, orderID uuid.UUID) ([]orders.LineItem, error) {
	endpoint := "/order-lines?" + url.Values{
		"query": {fmt.Sprintf("purchaseOrderId==%s", orderID)},
		"limit": {fmt.Sprintf("%d", lineFetchLimit)},
	}.Encode()

	var page struct {
		PoLines []lineDoc `json:"poLines"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	lines := make([]orders.LineItem, 0, len(page.PoLines))
	for _, doc := range page.PoLines {
		line, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CreateLine persists a new order line and returns its id
func (c *Client) CreateLine(ctx context.Context, line orders.LineItem) (uuid.UUID, error) {
	var created lineDoc
	resp, err := c.sendForResponse(ctx, http.MethodPost, "/order-lines", lineToDoc(line), &created)
	if err != nil {
		return uuid.Nil, err
	}
	return extractID(created.ID, resp)
}

// UpdateLine persists changes to an existing order line
func (c *Client) UpdateLine(ctx context.Context, line orders.LineItem) error {
	return c.send(ctx, http.MethodPut, "/order-lines/"+line.ID.String(), lineToDoc(line), nil)
}

// DeleteLine removes an order line
func (c *Client) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return c.send(ctx, http.MethodDelete, "/order-lines/"+id.String(), nil, nil)
}

// GetPieces fetches piece records by id
func (c *Client) GetPieces(ctx context.Context, ids []uuid.UUID) ([]orders.Piece, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	terms := make([]string, 0, len(ids))
	for _, id := range ids {
		terms = append(terms, "id=="+id.String())
	}
	endpoint := "/pieces?" + url.Values{
		"query": {"(" + strings.Join(terms, " or ") + ")"},
		"limit": {fmt.Sprintf("%d", len(ids))},
	}.Encode()

	var page struct {
		Pieces []pieceDoc `json:"pieces"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	pieces := make([]orders.Piece, 0, len(page.Pieces))
	for _, doc := range page.Pieces {
		piece, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// SavePieces persists mutated pieces. Each piece is stored individually by
// the remote API; the writes run concurrently and the first failure is
// reported after all writes settle.
func (c *Client) SavePieces(ctx context.Context, pieces []orders.Piece) error {
	var g errgroup.Group
	for _, piece := range pieces {
		g.Go(func() error {
			return c.send(ctx, http.MethodPut, "/pieces/"+piece.ID.String(), pieceToDoc(piece), nil)
		})
	}
	return g.Wait()
}

// GetReceivingHistory fetches a page of the receiving history view.
// The query string is passed through to storage untouched.
func (c *Client) GetReceivingHistory(ctx context.Context, limit, offset int, query string) (*orders.ReceivingHistory, error) {
	params := url.Values{
		"limit":  {fmt.Sprintf("%d", limit)},
		"offset": {fmt.Sprintf("%d", offset)},
	}
	if query != "" {
		params.Set("query", query)
	}

	var history orders.ReceivingHistory
	if err := c.getJSON(ctx, "/receiving-history?"+params.Encode(), &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// ---------------------------------------------------------------------------
// Transport plumbing
// ---------------------------------------------------------------------------

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.send(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body, out any) error {
	_, err := c.sendForResponse(ctx, method, endpoint, body, out)
	return err
}

// sendForResponse issues one request and decodes a JSON response body into
// out when provided. The returned response carries only status and headers;
// its body is already consumed.
func (c *Client) sendForResponse(ctx context.Context, method, endpoint string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("storage: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Tenant != "" {
		req.Header.Set("X-Tenant", c.config.Tenant)
	}
	if c.config.Token != "" {
		req.Header.Set("X-Auth-Token", c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", shared.ErrNotFound, method, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("storage request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s %s returned %d", shared.ErrCollaborator, method, endpoint, resp.StatusCode)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return nil, fmt.Errorf("storage: failed to decode response: %w", err)
		}
	}
	return resp, nil
}

// extractID returns the id from the response body or, when the body carried
// none, from the Location header
func extractID(bodyID string, resp *http.Response) (uuid.UUID, error) {
	raw := bodyID
	if raw == "" {
		location := resp.Header.Get("Location")
		if idx := strings.LastIndex(location, "/"); idx >= 0 {
			raw = location[idx+1:]
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: created record id missing or invalid: %w", err)
	}
	return id, nil
}
