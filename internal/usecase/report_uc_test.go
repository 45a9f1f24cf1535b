//go:build !integration

package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
)

func newReportFixture(t *testing.T) (*memSaleRepo, *reportUC) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	store := newMemStore()
	sales := newMemSaleRepo(store)
	uc := NewReportUseCase(sales, model.DefaultCatalog(), loc, testLogger())
	return sales, uc
}

func record(t *testing.T, repo *memSaleRepo, buyer string, typ model.ProductType, qty int, seller string, at time.Time) {
	t.Helper()
	sale := &model.Sale{ID: buyer + "-" + string(typ), BuyerID: buyer, Type: typ, Quantity: qty, SellerID: seller, CreatedAt: at}
	if err := repo.Record(context.Background(), nil, sale); err != nil {
		t.Fatalf("record sale: %v", err)
	}
}

func TestSummarize_AllTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sales, uc := newReportFixture(t)
	now := time.Now()

	record(t, sales, "b1", model.ProductShortTerm, 3, "s1", now.AddDate(0, -2, 0))
	record(t, sales, "b2", model.ProductLongTerm, 2, "s1", now)

	sum, err := uc.Summarize(ctx, model.AllTime())
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if sum.TotalQuantity != 5 {
		t.Errorf("expected total quantity 5, got %d", sum.TotalQuantity)
	}
	wantRevenue := int64(3*19_300 + 2*61_000)
	if sum.TotalRevenue != wantRevenue {
		t.Errorf("expected revenue %d, got %d", wantRevenue, sum.TotalRevenue)
	}
	if pt := sum.PerType[model.ProductShortTerm]; pt.Quantity != 3 || pt.Revenue != 3*19_300 {
		t.Errorf("unexpected short-term slice: %+v", pt)
	}
}

func TestSummarize_WindowsExcludeOlderRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sales, uc := newReportFixture(t)
	now := time.Now()

	record(t, sales, "old", model.ProductShortTerm, 7, "s", now.AddDate(0, 0, -40))
	record(t, sales, "new", model.ProductShortTerm, 2, "s", now)

	sum, err := uc.Summarize(ctx, model.TrailingDays(7))
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalQuantity != 2 {
		t.Errorf("trailing-7 window should only see the recent sale, got qty %d", sum.TotalQuantity)
	}

	sum, err = uc.Summarize(ctx, model.AllTime())
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalQuantity != 9 {
		t.Errorf("all-time should see both sales, got qty %d", sum.TotalQuantity)
	}
}

// Calling Summarize twice with no intervening commits returns identical
// results.
func TestSummarize_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sales, uc := newReportFixture(t)
	record(t, sales, "b", model.ProductLongTerm, 4, "s", time.Now())

	first, err := uc.Summarize(ctx, model.ThisMonth())
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Summarize(ctx, model.ThisMonth())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated summarize differed: %+v vs %+v", first, second)
	}
}

func TestSummarize_UnknownLedgerTypeHasZeroRevenue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sales, uc := newReportFixture(t)
	record(t, sales, "b", model.ProductType("RETIRED"), 2, "s", time.Now())

	sum, err := uc.Summarize(ctx, model.AllTime())
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalQuantity != 2 || sum.TotalRevenue != 0 {
		t.Errorf("retired SKU should count quantity but no revenue, got %+v", sum)
	}
}

func TestLeaderboard_OrderingAndTies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sales, uc := newReportFixture(t)
	now := time.Now()

	record(t, sales, "alice", model.ProductShortTerm, 5, "s1", now)
	record(t, sales, "bob", model.ProductShortTerm, 8, "s2", now)
	record(t, sales, "carol", model.ProductLongTerm, 5, "s1", now)

	board, err := uc.Leaderboard(ctx, model.RoleBuyer, 10)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	want := []model.LeaderboardEntry{
		{Identity: "bob", TotalQuantity: 8},
		{Identity: "alice", TotalQuantity: 5}, // tie with carol broken by identity
		{Identity: "carol", TotalQuantity: 5},
	}
	if !reflect.DeepEqual(board, want) {
		t.Errorf("expected %+v, got %+v", want, board)
	}

	t.Run("limit truncates", func(t *testing.T) {
		board, err := uc.Leaderboard(ctx, model.RoleBuyer, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(board) != 2 || board[0].Identity != "bob" {
			t.Errorf("expected top-2 starting with bob, got %+v", board)
		}
	})

	t.Run("seller role groups by seller", func(t *testing.T) {
		board, err := uc.Leaderboard(ctx, model.RoleSeller, 10)
		if err != nil {
			t.Fatal(err)
		}
		want := []model.LeaderboardEntry{
			{Identity: "s1", TotalQuantity: 10},
			{Identity: "s2", TotalQuantity: 8},
		}
		if !reflect.DeepEqual(board, want) {
			t.Errorf("expected %+v, got %+v", want, board)
		}
	})

	t.Run("default limit applies", func(t *testing.T) {
		if _, err := uc.Leaderboard(ctx, model.RoleBuyer, 0); err != nil {
			t.Errorf("zero limit should fall back to default, got %v", err)
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		if _, err := uc.Leaderboard(ctx, "referrer", 10); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestHistoryFor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sales, uc := newReportFixture(t)
	now := time.Now()

	record(t, sales, "alice", model.ProductShortTerm, 2, "s", now)
	record(t, sales, "alice", model.ProductLongTerm, 1, "s", now)
	record(t, sales, "bob", model.ProductShortTerm, 9, "s", now)

	hist, err := uc.HistoryFor(ctx, "alice")
	if err != nil {
		t.Fatalf("HistoryFor returned error: %v", err)
	}
	if hist[model.ProductShortTerm] != 2 || hist[model.ProductLongTerm] != 1 {
		t.Errorf("unexpected history: %+v", hist)
	}

	if _, err := uc.HistoryFor(ctx, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty buyer, got %v", err)
	}
}
