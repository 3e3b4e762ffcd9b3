package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/repository"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

// TestPriceRepository_GetPriceMap tests the price snapshot.
//
// WHY: Callers distinguish "no price known" from "price is zero" by map
// absence. A NULL price leaking through as 0 would value positions at
// nothing instead of skipping them.
func TestPriceRepository_GetPriceMap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	testutil.InsertPrice(t, db, "AAPL", 60.0)
	if _, err := db.Exec(`INSERT INTO prices (symbol, price) VALUES ('NULLPX', NULL)`); err != nil {
		t.Fatalf("Failed to insert null price: %v", err)
	}

	prices, err := repo.GetPriceMap()
	if err != nil {
		t.Fatalf("GetPriceMap() returned unexpected error: %v", err)
	}

	if prices["AAPL"] != 60.0 {
		t.Errorf("Expected AAPL at 60.00, got %v", prices["AAPL"])
	}
	if _, found := prices["NULLPX"]; found {
		t.Error("Expected NULL-priced symbol omitted from the map")
	}
}

// TestPriceRepository_UpsertPrice tests quote writes.
func TestPriceRepository_UpsertPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	at := time.Date(2025, time.June, 2, 14, 35, 0, 0, time.UTC)
	if err := repo.UpsertPrice("AAPL", 60.0, at); err != nil {
		t.Fatalf("UpsertPrice() returned unexpected error: %v", err)
	}
	if err := repo.UpsertPrice("AAPL", 61.5, at.Add(time.Hour)); err != nil {
		t.Fatalf("Second UpsertPrice() returned unexpected error: %v", err)
	}

	testutil.AssertRowCount(t, db, "prices", 1)

	quote, err := repo.GetQuote("AAPL")
	if err != nil {
		t.Fatalf("GetQuote() returned unexpected error: %v", err)
	}
	if quote.Price == nil || *quote.Price != 61.5 {
		t.Errorf("Expected updated price 61.50, got %v", quote.Price)
	}
	if quote.LastUpdate == nil || *quote.LastUpdate != at.Add(time.Hour).Unix() {
		t.Errorf("Expected lastupdate stamped, got %v", quote.LastUpdate)
	}
}

// TestPriceRepository_UpdateMovingAverages tests the MA write path.
func TestPriceRepository_UpdateMovingAverages(t *testing.T) {
	t.Run("writes both averages", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceRepository(db)

		testutil.InsertPrice(t, db, "AAPL", 60.0)
		if err := repo.UpdateMovingAverages("AAPL", 58.2, 54.7); err != nil {
			t.Fatalf("UpdateMovingAverages() returned unexpected error: %v", err)
		}

		quote, err := repo.GetQuote("AAPL")
		if err != nil {
			t.Fatalf("GetQuote() returned unexpected error: %v", err)
		}
		if quote.Mean50 == nil || *quote.Mean50 != 58.2 {
			t.Errorf("Expected mean50 58.2, got %v", quote.Mean50)
		}
		if quote.Mean200 == nil || *quote.Mean200 != 54.7 {
			t.Errorf("Expected mean200 54.7, got %v", quote.Mean200)
		}
	})

	t.Run("returns the sentinel for unknown symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceRepository(db)

		err := repo.UpdateMovingAverages("GHOST", 1, 1)
		if !errors.Is(err, apperrors.ErrPriceNotFound) {
			t.Errorf("Expected ErrPriceNotFound, got %v", err)
		}
	})
}
