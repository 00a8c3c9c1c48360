package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/party/domain"
	"github.com/spendlens/spendlens/internal/party/repository"
	"github.com/spendlens/spendlens/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var partyTestNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func setupPartyService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Vendor{}, &domain.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// sqlite allows one writer at a time; a single pooled connection keeps
	// concurrent tests from tripping over driver-level busy errors.
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(partyTestNow),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func countVendors(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := conn.Model(&domain.Vendor{}).Count(&count).Error; err != nil {
		t.Fatalf("count vendors: %v", err)
	}
	return count
}

func TestResolveVendorDedupByNaturalKey(t *testing.T) {
	svc, conn := setupPartyService(t)
	ctx := context.Background()

	first, err := svc.ResolveVendor(ctx, domain.VendorInput{Name: "Acme GmbH", TaxID: "DE123"})
	if err != nil {
		t.Fatalf("resolve first: %v", err)
	}
	second, err := svc.ResolveVendor(ctx, domain.VendorInput{Name: "Acme GmbH", TaxID: "DE123"})
	if err != nil {
		t.Fatalf("resolve second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same vendor for equal natural key, got %s vs %s", first.ID, second.ID)
	}
	if !first.CreatedAt.Equal(partyTestNow) {
		t.Fatalf("expected CreatedAt from the injected clock, got %v", first.CreatedAt)
	}

	// Same name without a tax id is a different entity.
	third, err := svc.ResolveVendor(ctx, domain.VendorInput{Name: "Acme GmbH"})
	if err != nil {
		t.Fatalf("resolve without tax id: %v", err)
	}
	if third.ID == first.ID {
		t.Fatalf("expected distinct vendor for absent tax id")
	}

	if count := countVendors(t, conn); count != 2 {
		t.Fatalf("expected 2 vendors, got %d", count)
	}
}

func TestResolveVendorConcurrent(t *testing.T) {
	svc, conn := setupPartyService(t)
	ctx := context.Background()

	in := domain.VendorInput{Name: "Parallel Supplies"}

	var wg sync.WaitGroup
	ids := make(chan snowflake.ID, 20)
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vendor, err := svc.ResolveVendor(ctx, in)
			if err != nil {
				errs <- err
				return
			}
			ids <- vendor.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("resolve concurrent: %v", err)
	}

	var want snowflake.ID
	for id := range ids {
		if want == 0 {
			want = id
			continue
		}
		if id != want {
			t.Fatalf("expected one vendor identity, got %s and %s", want, id)
		}
	}

	if count := countVendors(t, conn); count != 1 {
		t.Fatalf("expected 1 vendor after concurrent resolution, got %d", count)
	}
}

func TestResolveVendorRejectsEmptyName(t *testing.T) {
	svc, _ := setupPartyService(t)

	_, err := svc.ResolveVendor(context.Background(), domain.VendorInput{Name: "   "})
	if !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestResolveCustomerDedupByName(t *testing.T) {
	svc, conn := setupPartyService(t)
	ctx := context.Background()

	first, err := svc.ResolveCustomer(ctx, domain.CustomerInput{Name: "Globex AG"})
	if err != nil {
		t.Fatalf("resolve first: %v", err)
	}
	second, err := svc.ResolveCustomer(ctx, domain.CustomerInput{Name: "Globex AG"})
	if err != nil {
		t.Fatalf("resolve second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same customer, got %s vs %s", first.ID, second.ID)
	}

	var count int64
	if err := conn.Model(&domain.Customer{}).Count(&count).Error; err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 customer, got %d", count)
	}
}

func TestVendorKey(t *testing.T) {
	if got := domain.VendorKey("Acme", "DE123"); got != "Acme|DE123" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := domain.VendorKey("Acme", ""); got != "Acme|NO_TAX_ID" {
		t.Fatalf("unexpected key %q", got)
	}
}
