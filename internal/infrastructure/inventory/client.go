// Package inventory is the HTTP adapter for the remote inventory service,
// which owns instances, holdings, items and reference records.
package inventory

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

	"github.com/libsys/acquisitions/internal/domain/catalog"
	"github.com/libsys/acquisitions/internal/domain/shared"
)

// maxResponseSize is the maximum allowed response size from inventory (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrConfigMissingBaseURL indicates an unset inventory base URL
var ErrConfigMissingBaseURL = errors.New("inventory: base URL is required")

// Config holds connection settings for the inventory collaborator
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

// Client implements catalog.Inventory against the remote inventory HTTP API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an inventory client with the given configuration
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

// LookupIdentifierTypes resolves identifier scheme names to ids in one call
func (c *Client) LookupIdentifierTypes(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	terms := make([]string, 0, len(names))
	for _, name := range names {
		terms = append(terms, "name=="+name)
	}
	endpoint := "/identifier-types?" + url.Values{
		"query": {strings.Join(terms, " or ")},
	}.Encode()

	var page struct {
		IdentifierTypes []struct {
			ID   uuid.UUID `json:"id"`
			Name string    `json:"name"`
		} `json:"identifierTypes"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	types := make(map[string]uuid.UUID, len(page.IdentifierTypes))
	for _, t := range page.IdentifierTypes {
		types[t.Name] = t.ID
	}
	return types, nil
}

// LookupInstances searches instances matching any of the typed identifiers
func (c *Client) LookupInstances(ctx context.Context, identifiers []catalog.Identifier) ([]catalog.Instance, error) {
	terms := make([]string, 0, len(identifiers))
	for _, ident := range identifiers {
		terms = append(terms, fmt.Sprintf(
			`(identifiers adj "\"identifierTypeId\": \"%s\"" and identifiers adj "\"value\": \"%s\"")`,
			ident.TypeID, ident.Value,
		))
	}
	endpoint := "/inventory/instances?" + url.Values{
		"query": {strings.Join(terms, " or ")},
	}.Encode()

	var page struct {
		Instances []catalog.Instance `json:"instances"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return page.Instances, nil
}

// CreateInstance submits a new instance and returns its id
func (c *Client) CreateInstance(ctx context.Context, payload catalog.InstancePayload) (uuid.UUID, error) {
	return c.createRecord(ctx, "/inventory/instances", payload)
}

// LookupHolding finds the holding for an (instance, location) pair, or nil
func (c *Client) LookupHolding(ctx context.Context, instanceID, locationID uuid.UUID) (*catalog.Holding, error) {
	endpoint := "/holdings-storage/holdings?" + url.Values{
		"query": {fmt.Sprintf("instanceId==%s and permanentLocationId==%s", instanceID, locationID)},
		"limit": {"1"},
	}.Encode()

	var page struct {
		HoldingsRecords []catalog.Holding `json:"holdingsRecords"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	if len(page.HoldingsRecords) == 0 {
		return nil, nil
	}
	return &page.HoldingsRecords[0], nil
}

// CreateHolding creates a holding tying an instance to a location
func (c *Client) CreateHolding(ctx context.Context, instanceID, locationID uuid.UUID) (uuid.UUID, error) {
	payload := map[string]string{
		"instanceId":          instanceID.String(),
		"permanentLocationId": locationID.String(),
	}
	return c.createRecord(ctx, "/holdings-storage/holdings", payload)
}

// LookupItems searches items already created for an order line under a holding
func (c *Client) LookupItems(ctx context.Context, lineID, holdingID uuid.UUID, limit int) ([]catalog.Item, error) {
	endpoint := "/item-storage/items?" + url.Values{
		"query": {fmt.Sprintf("purchaseOrderLineIdentifier==%s and holdingsRecordId==%s", lineID, holdingID)},
		"limit": {fmt.Sprintf("%d", limit)},
	}.Encode()

	var page struct {
		Items []itemDoc `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(page.Items))
	for _, doc := range page.Items {
		items = append(items, doc.toDomain())
	}
	return items, nil
}

// CreateItem submits a new item and returns its id
func (c *Client) CreateItem(ctx context.Context, payload catalog.ItemPayload) (uuid.UUID, error) {
	return c.createRecord(ctx, "/item-storage/items", itemPayloadToDoc(payload))
}

// LookupReference resolves a reference record by code or name. Identifier
// schemes and instance types/statuses are keyed by code, loan types by name.
func (c *Client) LookupReference(ctx context.Context, kind catalog.ReferenceKind, code string) (uuid.UUID, error) {
	field := "code"
	if kind == catalog.RefLoanType {
		field = "name"
	}
	endpoint := "/" + string(kind) + "?" + url.Values{
		"query": {fmt.Sprintf("%s==%s", field, code)},
	}.Encode()

	var page map[string]json.RawMessage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return uuid.Nil, err
	}

	// The collection property is named after the resource; find the first
	// array-valued property and take its first element.
	for key, raw := range page {
		if key == "totalRecords" {
			continue
		}
		var records []struct {
			ID uuid.UUID `json:"id"`
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			continue
		}
		if len(records) > 0 {
			return records[0].ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: no records of %q found for %q", shared.ErrInventory, kind, code)
}

// UpdateItem applies receiving details to an item and returns its resulting
// status. The full item document is fetched, mutated and written back.
func (c *Client) UpdateItem(ctx context.Context, itemID uuid.UUID, update catalog.ItemUpdate) (string, error) {
	endpoint := "/item-storage/items/" + itemID.String()

	var item map[string]any
	if err := c.getJSON(ctx, endpoint, &item); err != nil {
		return "", err
	}

	item["status"] = map[string]any{"name": update.Status}
	if update.Caption != "" {
		item["displaySummary"] = update.Caption
	}
	if update.Comment != "" {
		item["notes"] = []map[string]any{{"note": update.Comment}}
	}
	if update.LocationID != nil {
		item["temporaryLocationId"] = update.LocationID.String()
	}

	if err := c.send(ctx, http.MethodPut, endpoint, item, nil); err != nil {
		return "", err
	}
	return update.Status, nil
}

// ---------------------------------------------------------------------------
// Transport plumbing
// ---------------------------------------------------------------------------

type itemDoc struct {
	ID        uuid.UUID `json:"id"`
	HoldingID uuid.UUID `json:"holdingsRecordId"`
	Status    struct {
		Name string `json:"name"`
	} `json:"status"`
}

func (d itemDoc) toDomain() catalog.Item {
	return catalog.Item{
		ID:        d.ID,
		HoldingID: d.HoldingID,
		Status:    d.Status.Name,
	}
}

func itemPayloadToDoc(payload catalog.ItemPayload) map[string]any {
	return map[string]any{
		"holdingsRecordId":            payload.HoldingID.String(),
		"materialTypeId":              payload.MaterialTypeID.String(),
		"permanentLoanTypeId":         payload.LoanTypeID.String(),
		"purchaseOrderLineIdentifier": payload.LineID.String(),
		"status":                      map[string]any{"name": payload.Status},
	}
}

// createRecord posts a new record and extracts its id from the response body
// or, when the body carries none, from the Location header
func (c *Client) createRecord(ctx context.Context, endpoint string, payload any) (uuid.UUID, error) {
	var created struct {
		ID string `json:"id"`
	}
	resp, err := c.sendForResponse(ctx, http.MethodPost, endpoint, payload, &created)
	if err != nil {
		return uuid.Nil, err
	}

	raw := created.ID
	if raw == "" {
		location := resp.Header.Get("Location")
		if idx := strings.LastIndex(location, "/"); idx >= 0 {
			raw = location[idx+1:]
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inventory: created record id missing or invalid: %w", err)
	}
	return id, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.send(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body, out any) error {
	_, err := c.sendForResponse(ctx, method, endpoint, body, out)
	return err
}

func (c *Client) sendForResponse(ctx context.Context, method, endpoint string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("inventory: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("inventory: failed to build request: %w", err)
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
		return nil, fmt.Errorf("inventory: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("inventory: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", shared.ErrNotFound, method, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("inventory request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s %s returned %d", shared.ErrCollaborator, method, endpoint, resp.StatusCode)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return nil, fmt.Errorf("inventory: failed to decode response: %w", err)
		}
	}
	return resp, nil
}
