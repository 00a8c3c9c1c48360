// Package domain defines the read-only analytics views computed over the
// ingested invoice graph.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Window defaults and server-side caps. All request parameters are clamped to
// these caps before use so each view stays a bounded, single-shot computation.
const (
	DefaultTrendMonths = 12
	MaxTrendMonths     = 36

	DefaultVendorLimit  = 10
	MaxVendorLimit      = 50
	DefaultVendorMonths = 12
	MaxVendorMonths     = 60

	DefaultCategoryLimit  = 20
	MaxCategoryLimit      = 100
	DefaultCategoryMonths = 12
	MaxCategoryMonths     = 60

	DefaultForecastWeeks = 12
	MaxForecastWeeks     = 52
)

// Stats is the point-in-time dashboard snapshot.
type Stats struct {
	TotalSpend        float64 `json:"totalSpend"`
	InvoicesProcessed int64   `json:"invoicesProcessed"`
	DocumentsUploaded int64   `json:"documentsUploaded"`
	AvgInvoiceValue   float64 `json:"avgInvoiceValue"`
	OverdueCount      int64   `json:"overdueCount"`
}

type TrendRequest struct {
	Months int `form:"months"`
}

// TrendPoint is one calendar month of the spend trend. Months without
// invoices are zero-filled, never omitted.
type TrendPoint struct {
	Month        string  `json:"month"`
	InvoiceCount int     `json:"invoiceCount"`
	TotalValue   float64 `json:"totalValue"`
	AvgValue     float64 `json:"avgValue"`
}

type TrendReport struct {
	Trends        []TrendPoint `json:"trends"`
	TotalInvoices int          `json:"totalInvoices"`
	TotalSpend    float64      `json:"totalSpend"`
}

type VendorRankingRequest struct {
	Limit  int `form:"limit"`
	Months int `form:"months"`
}

type VendorSpend struct {
	ID              snowflake.ID `json:"id"`
	Name            string       `json:"name"`
	TotalSpend      float64      `json:"totalSpend"`
	InvoiceCount    int          `json:"invoiceCount"`
	AvgInvoiceValue float64      `json:"avgInvoiceValue"`
	LastInvoiceDate *time.Time   `json:"lastInvoiceDate"`
}

type VendorRankingReport struct {
	Vendors      []VendorSpend `json:"vendors"`
	TotalVendors int64         `json:"totalVendors"`
	TotalSpend   float64       `json:"totalSpend"`
}

type CategorySpendRequest struct {
	Months int `form:"months"`
	Limit  int `form:"limit"`
}

type CategorySpend struct {
	Category   string  `json:"category"`
	TotalSpend float64 `json:"totalSpend"`
	ItemCount  int     `json:"itemCount"`
	Percentage float64 `json:"percentage"`
}

type CategorySpendReport struct {
	Categories []CategorySpend `json:"categories"`
	TotalSpend float64         `json:"totalSpend"`
}

type CashOutflowRequest struct {
	Weeks int `form:"weeks"`
}

// CashOutflowPeriod is one 7-day bucket of the forecast. Every requested
// bucket is emitted, empty or not.
type CashOutflowPeriod struct {
	Period          string  `json:"period"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	ExpectedOutflow float64 `json:"expectedOutflow"`
	InvoiceCount    int     `json:"invoiceCount"`
}

type CashOutflowReport struct {
	Forecast       []CashOutflowPeriod `json:"forecast"`
	TotalForecast  float64             `json:"totalForecast"`
	ForecastPeriod string              `json:"forecastPeriod"`
}

// Service computes the analytics views. Implementations are stateless pure
// functions of persisted state and request parameters; they may run
// concurrently with each other and with ingestion.
type Service interface {
	Stats(ctx context.Context) (Stats, error)
	Trend(ctx context.Context, req TrendRequest) (TrendReport, error)
	VendorRanking(ctx context.Context, req VendorRankingRequest) (VendorRankingReport, error)
	CategorySpend(ctx context.Context, req CategorySpendRequest) (CategorySpendReport, error)
	CashOutflow(ctx context.Context, req CashOutflowRequest) (CashOutflowReport, error)
}

// Clamp normalizes a window or limit parameter: non-positive values fall back
// to the default, values above the cap are clamped to it.
func Clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
