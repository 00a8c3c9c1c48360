package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	analyticsservice "github.com/spendlens/spendlens/internal/analytics/service"
	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/config"
	invoicedomain "github.com/spendlens/spendlens/internal/invoice/domain"
	invoiceservice "github.com/spendlens/spendlens/internal/invoice/service"
	"github.com/spendlens/spendlens/internal/migration"
	"github.com/spendlens/spendlens/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServer(t *testing.T, now time.Time) (*Server, *gorm.DB, *snowflake.Node) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(migration.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	logger := zap.NewNop()

	srv := NewServer(ServerParams{
		Gin: NewEngine(logger, nil),
		Cfg: config.Config{AppName: "spendlens-test"},
		InvoiceSvc: invoiceservice.New(invoiceservice.Params{
			DB:  conn,
			Log: logger,
		}),
		AnalyticsSvc: analyticsservice.New(analyticsservice.Params{
			DB:    conn,
			Log:   logger,
			Clock: clock.NewFakeClock(now),
		}),
	})
	return srv, conn, node
}

func doRequest(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	var body map[string]any
	if len(rec.Body.Bytes()) > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	srv, _, _ := setupServer(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	rec, body := doRequest(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestStatsEnvelope(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	srv, conn, node := setupServer(t, now)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	total := 125.5
	inv := invoicedomain.Invoice{
		ID:             node.Generate(),
		DocumentID:     "doc-1",
		FileName:       "invoice.pdf",
		Status:         invoicedomain.InvoiceStatusProcessed,
		InvoiceDate:    &date,
		Total:          &total,
		Currency:       "EUR",
		OrganizationID: "org-1",
		DepartmentID:   "dept-1",
	}
	if err := conn.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	rec, body := doRequest(t, srv, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %+v", body)
	}
	if body["timestamp"] == nil {
		t.Fatalf("expected timestamp, got %+v", body)
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %+v", body)
	}
	if data["totalSpend"] != 125.5 {
		t.Fatalf("unexpected total spend %v", data["totalSpend"])
	}
}

func TestTrendQueryValidation(t *testing.T) {
	srv, _, _ := setupServer(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	rec, body := doRequest(t, srv, "/api/invoice-trends?months=soon")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %+v", body)
	}

	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error payload, got %+v", body)
	}
	if errObj["type"] != "validation_error" {
		t.Fatalf("unexpected error type %v", errObj["type"])
	}
}

func TestTrendClampsOversizedWindow(t *testing.T) {
	srv, _, _ := setupServer(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	rec, body := doRequest(t, srv, "/api/invoice-trends?months=500")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	trends := data["trends"].([]any)
	if len(trends) != 36 {
		t.Fatalf("expected capped 36 entries, got %d", len(trends))
	}
}

func TestListInvoicesValidation(t *testing.T) {
	srv, _, _ := setupServer(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	rec, body := doRequest(t, srv, "/api/invoices?sortBy=vendorName")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := body["error"].(map[string]any)
	if errObj["type"] != "validation_error" {
		t.Fatalf("unexpected error type %v", errObj["type"])
	}

	rec, _ = doRequest(t, srv, "/api/invoices?vendorId=not-a-number")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad vendor id, got %d", rec.Code)
	}
}

func TestListInvoicesEnvelope(t *testing.T) {
	srv, _, _ := setupServer(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	rec, body := doRequest(t, srv, "/api/invoices")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := body["data"].(map[string]any)
	if _, ok := data["pagination"].(map[string]any); !ok {
		t.Fatalf("expected pagination meta, got %+v", data)
	}
}
