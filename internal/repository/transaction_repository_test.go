package repository_test

import (
	"errors"
	"testing"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/repository"
	"github.com/mike4330/stokapp-v2/internal/testutil"
)

// TestTransactionRepository_GetOpenLots tests the open-lot query.
//
// WHY: The open-lot filter is shared by every position-derived query. It has
// three legs (type, disposition, remaining units) and a legacy wrinkle: rows
// predating the units_remaining column are fully open, not closed.
func TestTransactionRepository_GetOpenLots(t *testing.T) {
	t.Run("treats legacy null remaining as fully open", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		_, err := db.Exec(
			`INSERT INTO transactions (date_new, symbol, xtype, acct, price, units)
			 VALUES ('2024-01-15', 'AAPL', 'Buy', 'taxable', 50.0, 100)`,
		)
		if err != nil {
			t.Fatalf("Failed to insert legacy row: %v", err)
		}

		lots, err := repo.GetOpenLots("AAPL")
		if err != nil {
			t.Fatalf("GetOpenLots() returned unexpected error: %v", err)
		}
		if len(lots) != 1 {
			t.Fatalf("Expected 1 open lot, got %d", len(lots))
		}
		if lots[0].EffectiveUnits() != 100 {
			t.Errorf("Expected effective units 100 for legacy row, got %v", lots[0].EffectiveUnits())
		}
	})

	t.Run("orders lots by purchase date for FIFO consumption", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		later := testutil.InsertBuy(t, db, "AAPL", "2024-03-01", 55.0, 50)
		earlier := testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)

		lots, err := repo.GetOpenLots("AAPL")
		if err != nil {
			t.Fatalf("GetOpenLots() returned unexpected error: %v", err)
		}
		if len(lots) != 2 {
			t.Fatalf("Expected 2 open lots, got %d", len(lots))
		}
		if lots[0].ID != earlier || lots[1].ID != later {
			t.Errorf("Expected FIFO order [%d %d], got [%d %d]", earlier, later, lots[0].ID, lots[1].ID)
		}
	})

	t.Run("excludes closed and exhausted lots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		txRepo := repository.NewTransactionRepository(db)

		testutil.InsertClosedBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		testutil.InsertBuyRemaining(t, db, "AAPL", "2024-02-15", 50.0, 100, 0)
		testutil.InsertSell(t, db, "AAPL", "2024-03-01", 55.0, 20, 100)

		lots, err := txRepo.GetOpenLots("AAPL")
		if err != nil {
			t.Fatalf("GetOpenLots() returned unexpected error: %v", err)
		}
		if len(lots) != 0 {
			t.Errorf("Expected no open lots, got %d", len(lots))
		}
	})
}

// TestTransactionRepository_GetNetPositions tests position aggregation.
//
// WHY: Net positions feed the portfolio total the rebalance engine divides
// by. Partially sold lots must count only their remaining units, at the
// original purchase price.
func TestTransactionRepository_GetNetPositions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
	testutil.InsertBuyRemaining(t, db, "AAPL", "2024-02-15", 60.0, 100, 40)
	testutil.InsertClosedBuy(t, db, "AAPL", "2023-01-15", 30.0, 100)

	positions, err := repo.GetNetPositions()
	if err != nil {
		t.Fatalf("GetNetPositions() returned unexpected error: %v", err)
	}

	pos, ok := positions["AAPL"]
	if !ok {
		t.Fatal("Expected AAPL in net positions")
	}
	if pos.Units != 140 {
		t.Errorf("Expected 140 units (100 + 40 remaining), got %v", pos.Units)
	}
	if pos.TotalCost != 7400.0 {
		t.Errorf("Expected cost 7400.00 (100*50 + 40*60), got %v", pos.TotalCost)
	}
}

// TestTransactionRepository_GetMonthlyDividends tests income grouping.
func TestTransactionRepository_GetMonthlyDividends(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	// Two payments in the same month sum into one bucket.
	testutil.InsertDividend(t, db, "AAPL", "2024-03-05", 0.25, 100)
	testutil.InsertDividend(t, db, "AAPL", "2024-03-20", 0.10, 100)
	testutil.InsertDividend(t, db, "AAPL", "2024-04-05", 0.25, 100)
	testutil.InsertDividend(t, db, "AAPL", "2023-01-05", 0.25, 100)

	months, err := repo.GetMonthlyDividends("AAPL", "2024-01-01")
	if err != nil {
		t.Fatalf("GetMonthlyDividends() returned unexpected error: %v", err)
	}

	if len(months) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(months))
	}
	if months[0].Month != "2024-03" || months[0].Amount != 35.0 {
		t.Errorf("Expected 2024-03 with 35.00, got %s with %v", months[0].Month, months[0].Amount)
	}
	if months[1].Month != "2024-04" || months[1].Amount != 25.0 {
		t.Errorf("Expected 2024-04 with 25.00, got %s with %v", months[1].Month, months[1].Amount)
	}
}

// TestTransactionRepository_GetTransaction tests row lookup errors.
func TestTransactionRepository_GetTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	if _, err := repo.GetTransaction(42); !errors.Is(err, apperrors.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
	if err := repo.DeleteTransaction(42); !errors.Is(err, apperrors.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound from delete, got %v", err)
	}
}

// TestTransactionRepository_CloseLots tests the bulk close statement.
func TestTransactionRepository_CloseLots(t *testing.T) {
	t.Run("empty input is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		closed, err := repo.CloseLots(nil)
		if err != nil {
			t.Fatalf("CloseLots() returned unexpected error: %v", err)
		}
		if closed != 0 {
			t.Errorf("Expected 0 closed lots, got %d", closed)
		}
	})

	t.Run("counts only rows actually transitioned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		open := testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
		alreadyClosed := testutil.InsertClosedBuy(t, db, "AAPL", "2023-01-15", 40.0, 100)
		sell := testutil.InsertSell(t, db, "AAPL", "2024-02-01", 55.0, 20, 100)

		closed, err := repo.CloseLots([]int64{open, alreadyClosed, sell, 9999})
		if err != nil {
			t.Fatalf("CloseLots() returned unexpected error: %v", err)
		}
		if closed != 1 {
			t.Errorf("Expected exactly 1 row transitioned, got %d", closed)
		}
	})
}
