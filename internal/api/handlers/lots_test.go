package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/mike4330/stokapp-v2/internal/api/handlers"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

// TestLotHandler_ListOpenLots tests the GET /api/lots endpoint.
//
// WHY: The frontend's lot table consumes this directly. The contract is a
// JSON array with nullable value fields, plus an optional symbol filter.
func TestLotHandler_ListOpenLots(t *testing.T) {
	t.Run("returns 200 with empty array", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewLotHandler(
			testutil.NewTestLedgerService(t, db),
			testutil.NewTestLotSelectorService(t, db),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/lots/", nil)
		w := httptest.NewRecorder()

		handler.ListOpenLots(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
		}

		var response []model.OpenLot
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d items", len(response))
		}
	})

	t.Run("filters by symbol query parameter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewLotHandler(
			testutil.NewTestLedgerService(t, db),
			testutil.NewTestLotSelectorService(t, db),
		)

		testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertBuy(t, db, "MSFT", "2024-01-15", 50.0, 100)

		req := httptest.NewRequest(http.MethodGet, "/api/lots/?symbol=AAPL", nil)
		w := httptest.NewRecorder()

		handler.ListOpenLots(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var response []model.OpenLot
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 1 || response[0].Symbol != "AAPL" {
			t.Errorf("Expected only AAPL lots, got %v", response)
		}
	})
}

// TestLotHandler_CloseLots tests the POST /api/lots/close endpoint.
//
// WHY: Closing is the only mutating lot endpoint. The status code carries
// the semantics: 200 with a count when something closed, 404 when nothing
// matched, 400 for a bad request body.
func TestLotHandler_CloseLots(t *testing.T) {
	t.Run("returns 200 with the closed count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewLotHandler(
			testutil.NewTestLedgerService(t, db),
			testutil.NewTestLotSelectorService(t, db),
		)

		id := testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)

		body := `{"lot_ids": [` + strconv.FormatInt(id, 10) + `]}`
		req := httptest.NewRequest(http.MethodPost, "/api/lots/close", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CloseLots(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]int64
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response["closed_count"] != 1 {
			t.Errorf("Expected closed_count 1, got %d", response["closed_count"])
		}
	})

	t.Run("returns 404 when no lot was open", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewLotHandler(
			testutil.NewTestLedgerService(t, db),
			testutil.NewTestLotSelectorService(t, db),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/lots/close", strings.NewReader(`{"lot_ids": [9999]}`))
		w := httptest.NewRecorder()

		handler.CloseLots(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("returns 400 for an empty id list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewLotHandler(
			testutil.NewTestLedgerService(t, db),
			testutil.NewTestLotSelectorService(t, db),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/lots/close", strings.NewReader(`{"lot_ids": []}`))
		w := httptest.NewRecorder()

		handler.CloseLots(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewLotHandler(
			testutil.NewTestLedgerService(t, db),
			testutil.NewTestLotSelectorService(t, db),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/lots/close", strings.NewReader(`{not json`))
		w := httptest.NewRecorder()

		handler.CloseLots(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
