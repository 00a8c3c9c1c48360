package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/invoice/domain"
	partydomain "github.com/spendlens/spendlens/internal/party/domain"
	"github.com/spendlens/spendlens/pkg/db"
	"github.com/spendlens/spendlens/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupInvoiceService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&partydomain.Vendor{},
		&domain.Invoice{},
		&domain.LineItem{},
		&domain.Payment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{DB: conn, Log: zap.NewNop()})
	return svc, conn, node
}

type seed struct {
	number string
	vendor *snowflake.ID
	date   time.Time
	total  float64
	status domain.InvoiceStatus
}

func seedListing(t *testing.T, conn *gorm.DB, node *snowflake.Node, seeds []seed) {
	t.Helper()
	for i := range seeds {
		s := seeds[i]
		inv := domain.Invoice{
			ID:             node.Generate(),
			DocumentID:     "doc-" + node.Generate().String(),
			FileName:       s.number + ".pdf",
			InvoiceNumber:  &s.number,
			Status:         s.status,
			InvoiceDate:    &s.date,
			Total:          &s.total,
			Currency:       "EUR",
			OrganizationID: "org-1",
			DepartmentID:   "dept-1",
			VendorID:       s.vendor,
		}
		if err := conn.Create(&inv).Error; err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}
}

func newVendor(t *testing.T, conn *gorm.DB, node *snowflake.Node, name string) snowflake.ID {
	t.Helper()
	vendor := partydomain.Vendor{ID: node.Generate(), Name: name}
	if err := conn.Create(&vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	return vendor.ID
}

func TestListSortsByDateDescByDefault(t *testing.T) {
	svc, conn, node := setupInvoiceService(t)

	seedListing(t, conn, node, []seed{
		{number: "RE-1", date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), total: 10, status: domain.InvoiceStatusProcessed},
		{number: "RE-2", date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), total: 20, status: domain.InvoiceStatusProcessed},
		{number: "RE-3", date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), total: 30, status: domain.InvoiceStatusProcessed},
	})

	resp, err := svc.List(context.Background(), domain.ListInvoiceRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(resp.Invoices) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(resp.Invoices))
	}
	want := []string{"RE-2", "RE-3", "RE-1"}
	for i, row := range resp.Invoices {
		if row.InvoiceNumber == nil || *row.InvoiceNumber != want[i] {
			t.Fatalf("row %d: expected %s, got %v", i, want[i], row.InvoiceNumber)
		}
	}
}

func TestListSortsByAmountAsc(t *testing.T) {
	svc, conn, node := setupInvoiceService(t)

	seedListing(t, conn, node, []seed{
		{number: "RE-1", date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), total: 30, status: domain.InvoiceStatusProcessed},
		{number: "RE-2", date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), total: 10, status: domain.InvoiceStatusProcessed},
		{number: "RE-3", date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), total: 20, status: domain.InvoiceStatusProcessed},
	})

	resp, err := svc.List(context.Background(), domain.ListInvoiceRequest{
		SortBy:    domain.SortByAmount,
		SortOrder: domain.SortOrderAsc,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []float64{10, 20, 30}
	for i, row := range resp.Invoices {
		if row.Total != want[i] {
			t.Fatalf("row %d: expected total %v, got %v", i, want[i], row.Total)
		}
	}
}

func TestListFilters(t *testing.T) {
	svc, conn, node := setupInvoiceService(t)

	acme := newVendor(t, conn, node, "Acme GmbH")
	globex := newVendor(t, conn, node, "Globex AG")

	seedListing(t, conn, node, []seed{
		{number: "RE-100", vendor: &acme, date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), total: 10, status: domain.InvoiceStatusProcessed},
		{number: "RE-200", vendor: &globex, date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), total: 20, status: domain.InvoiceStatusValidated},
		{number: "XX-300", vendor: &acme, date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), total: 30, status: domain.InvoiceStatusPending},
	})

	ctx := context.Background()

	// Case-insensitive search matches invoice number or vendor name.
	resp, err := svc.List(ctx, domain.ListInvoiceRequest{Search: "re-1"})
	if err != nil {
		t.Fatalf("search number: %v", err)
	}
	if len(resp.Invoices) != 1 || *resp.Invoices[0].InvoiceNumber != "RE-100" {
		t.Fatalf("unexpected search result %+v", resp.Invoices)
	}

	resp, err = svc.List(ctx, domain.ListInvoiceRequest{Search: "globex"})
	if err != nil {
		t.Fatalf("search vendor: %v", err)
	}
	if len(resp.Invoices) != 1 || *resp.Invoices[0].InvoiceNumber != "RE-200" {
		t.Fatalf("unexpected vendor search result %+v", resp.Invoices)
	}
	if resp.Invoices[0].VendorName == nil || *resp.Invoices[0].VendorName != "Globex AG" {
		t.Fatalf("expected vendor name projection, got %v", resp.Invoices[0].VendorName)
	}

	resp, err = svc.List(ctx, domain.ListInvoiceRequest{VendorID: &acme})
	if err != nil {
		t.Fatalf("filter vendor: %v", err)
	}
	if len(resp.Invoices) != 2 {
		t.Fatalf("expected 2 acme invoices, got %d", len(resp.Invoices))
	}

	resp, err = svc.List(ctx, domain.ListInvoiceRequest{Status: string(domain.InvoiceStatusPending)})
	if err != nil {
		t.Fatalf("filter status: %v", err)
	}
	if len(resp.Invoices) != 1 || *resp.Invoices[0].InvoiceNumber != "XX-300" {
		t.Fatalf("unexpected status filter result %+v", resp.Invoices)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	resp, err = svc.List(ctx, domain.ListInvoiceRequest{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("filter dates: %v", err)
	}
	if len(resp.Invoices) != 1 || *resp.Invoices[0].InvoiceNumber != "RE-200" {
		t.Fatalf("unexpected date filter result %+v", resp.Invoices)
	}
}

func TestListPagination(t *testing.T) {
	svc, conn, node := setupInvoiceService(t)

	seeds := make([]seed, 0, 5)
	for i := 0; i < 5; i++ {
		seeds = append(seeds, seed{
			number: "RE-" + string(rune('A'+i)),
			date:   time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			total:  float64(10 * (i + 1)),
			status: domain.InvoiceStatusProcessed,
		})
	}
	seedListing(t, conn, node, seeds)

	resp, err := svc.List(context.Background(), domain.ListInvoiceRequest{
		Pagination: pagination.Pagination{Page: 2, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(resp.Invoices) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Invoices))
	}
	meta := resp.Pagination
	if meta.Total != 5 || meta.Page != 2 || meta.PageSize != 2 || meta.TotalPages != 3 {
		t.Fatalf("unexpected pagination meta %+v", meta)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Fatalf("unexpected page flags %+v", meta)
	}
}

func TestListRejectsInvalidParams(t *testing.T) {
	svc, _, _ := setupInvoiceService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, domain.ListInvoiceRequest{SortBy: "vendorName"}); !errors.Is(err, domain.ErrInvalidSortBy) {
		t.Fatalf("expected ErrInvalidSortBy, got %v", err)
	}
	if _, err := svc.List(ctx, domain.ListInvoiceRequest{SortOrder: "sideways"}); !errors.Is(err, domain.ErrInvalidSortOrder) {
		t.Fatalf("expected ErrInvalidSortOrder, got %v", err)
	}
	if _, err := svc.List(ctx, domain.ListInvoiceRequest{Status: "SHREDDED"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
