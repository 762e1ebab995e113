package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"inkwell/internal/database"
	"inkwell/internal/domain"
)

func newAccountTestDB(t *testing.T) *AccountRepository {
	t.Helper()

	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.PayoutAccount{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAccountRepository(db)
}

func TestAccountRepositoryUpsertInsertsThenRefreshes(t *testing.T) {
	repo := newAccountTestDB(t)
	ctx := context.Background()

	first := &domain.PayoutAccount{
		UserID:          11,
		StripeAccountID: "acct_up",
		ChargesEnabled:  false,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("initial upsert: %v", err)
	}

	// A later sync for the same connected account refreshes the flags
	// without creating a second row.
	second := &domain.PayoutAccount{
		UserID:           12,
		StripeAccountID:  "acct_up",
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("conflicting upsert: %v", err)
	}

	got, err := repo.GetByUserID(ctx, 11)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.ChargesEnabled || !got.PayoutsEnabled || !got.DetailsSubmitted {
		t.Fatalf("expected capability flags refreshed, got %+v", got)
	}
	if !got.CanReceiveTransfers() {
		t.Fatal("expected account to be transfer-ready after refresh")
	}
}

func TestAccountRepositoryUpdateCapabilities(t *testing.T) {
	repo := newAccountTestDB(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &domain.PayoutAccount{UserID: 21, StripeAccountID: "acct_caps"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.UpdateCapabilities(ctx, "acct_caps", true, false, true); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByUserID(ctx, 21)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.ChargesEnabled || got.PayoutsEnabled || !got.DetailsSubmitted {
		t.Fatalf("unexpected flags: %+v", got)
	}
}

func TestAccountRepositoryUpdateCapabilitiesUnknownAccount(t *testing.T) {
	repo := newAccountTestDB(t)

	err := repo.UpdateCapabilities(context.Background(), "acct_missing", true, true, true)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown account, got %v", err)
	}
}

func TestAccountRepositoryGetByUserIDMissing(t *testing.T) {
	repo := newAccountTestDB(t)

	_, err := repo.GetByUserID(context.Background(), 999)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
