package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libsys/acquisitions/internal/domain/catalog"
	"github.com/libsys/acquisitions/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestLookupIdentifierTypes(t *testing.T) {
	isbnID := uuid.New()
	issnID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/identifier-types", r.URL.Path)
		assert.Equal(t, "name==ISBN or name==ISSN", r.URL.Query().Get("query"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"identifierTypes": []map[string]string{
				{"id": isbnID.String(), "name": "ISBN"},
				{"id": issnID.String(), "name": "ISSN"},
			},
			"totalRecords": 2,
		})
	})

	types, err := client.LookupIdentifierTypes(context.Background(), []string{"ISBN", "ISSN"})

	require.NoError(t, err)
	assert.Equal(t, isbnID, types["ISBN"])
	assert.Equal(t, issnID, types["ISSN"])
}

func TestLookupInstances_QueryShape(t *testing.T) {
	typeID := uuid.New()
	instanceID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/instances", r.URL.Path)
		query := r.URL.Query().Get("query")
		assert.Contains(t, query, typeID.String())
		assert.Contains(t, query, "9780201896831")
		assert.Contains(t, query, "identifiers adj")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"instances": []map[string]string{{"id": instanceID.String()}},
		})
	})

	instances, err := client.LookupInstances(context.Background(), []catalog.Identifier{
		{TypeID: typeID, Value: "9780201896831"},
	})

	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, instanceID, instances[0].ID)
}

func TestCreateInstance_IDFromLocationHeader(t *testing.T) {
	instanceID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Location", "/inventory/instances/"+instanceID.String())
		w.WriteHeader(http.StatusCreated)
	})

	id, err := client.CreateInstance(context.Background(), catalog.InstancePayload{Title: "A Title"})

	require.NoError(t, err)
	assert.Equal(t, instanceID, id)
}

func TestLookupHolding_AbsentIsNil(t *testing.T) {
	instanceID := uuid.New()
	locationID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holdings-storage/holdings", r.URL.Path)
		assert.Equal(t,
			"instanceId=="+instanceID.String()+" and permanentLocationId=="+locationID.String(),
			r.URL.Query().Get("query"))
		_ = json.NewEncoder(w).Encode(map[string]any{"holdingsRecords": []any{}})
	})

	holding, err := client.LookupHolding(context.Background(), instanceID, locationID)

	require.NoError(t, err)
	assert.Nil(t, holding)
}

func TestLookupItems(t *testing.T) {
	lineID := uuid.New()
	holdingID := uuid.New()
	itemID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item-storage/items", r.URL.Path)
		assert.Equal(t,
			"purchaseOrderLineIdentifier=="+lineID.String()+" and holdingsRecordId=="+holdingID.String(),
			r.URL.Query().Get("query"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"id":               itemID.String(),
				"holdingsRecordId": holdingID.String(),
				"status":           map[string]string{"name": "On order"},
			}},
		})
	})

	items, err := client.LookupItems(context.Background(), lineID, holdingID, 3)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, itemID, items[0].ID)
	assert.Equal(t, "On order", items[0].Status)
}

func TestLookupReference_ByCode(t *testing.T) {
	refID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance-types", r.URL.Path)
		assert.Equal(t, "code==zzz", r.URL.Query().Get("query"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"instanceTypes": []map[string]string{{"id": refID.String()}},
			"totalRecords":  1,
		})
	})

	id, err := client.LookupReference(context.Background(), catalog.RefInstanceType, "zzz")

	require.NoError(t, err)
	assert.Equal(t, refID, id)
}

func TestLookupReference_LoanTypesUseName(t *testing.T) {
	refID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loan-types", r.URL.Path)
		assert.Equal(t, "name==Can circulate", r.URL.Query().Get("query"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"loantypes": []map[string]string{{"id": refID.String()}},
		})
	})

	id, err := client.LookupReference(context.Background(), catalog.RefLoanType, "Can circulate")

	require.NoError(t, err)
	assert.Equal(t, refID, id)
}

func TestLookupReference_EmptyIsInventoryError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"instanceStatuses": []any{},
			"totalRecords":     0,
		})
	})

	_, err := client.LookupReference(context.Background(), catalog.RefInstanceStatus, "temp")
	assert.True(t, errors.Is(err, shared.ErrInventory))
}

func TestUpdateItem_PreservesUnknownFields(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	var written map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":       itemID.String(),
				"barcode":  "0042",
				"status":   map[string]string{"name": "On order"},
				"_version": 7,
			})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	status, err := client.UpdateItem(context.Background(), itemID, catalog.ItemUpdate{
		Status:     "In process",
		Caption:    "v.2",
		Comment:    "scuffed",
		LocationID: &locationID,
	})

	require.NoError(t, err)
	assert.Equal(t, "In process", status)
	require.NotNil(t, written)
	assert.Equal(t, "0042", written["barcode"])
	assert.Equal(t, map[string]any{"name": "In process"}, written["status"])
	assert.Equal(t, "v.2", written["displaySummary"])
	assert.Equal(t, locationID.String(), written["temporaryLocationId"])
}

func TestUpdateItem_MissingItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.UpdateItem(context.Background(), uuid.New(), catalog.ItemUpdate{Status: "In process"})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
