package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spendlens/spendlens/internal/analytics/domain"
	"github.com/spendlens/spendlens/internal/clock"
	invoicedomain "github.com/spendlens/spendlens/internal/invoice/domain"
	partydomain "github.com/spendlens/spendlens/internal/party/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("analytics.service"),
		clock: p.Clock,
	}
}

// Stats reports year-to-date spend figures, the all-time document count and
// the number of invoices with an overdue unpaid payment.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	now := s.clock.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var stats domain.Stats

	err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoice_date >= ? AND status IN ?", yearStart, invoicedomain.RecognizedStatuses).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalSpend).Error
	if err != nil {
		return domain.Stats{}, err
	}

	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoice_date >= ? AND status IN ?", yearStart, invoicedomain.RecognizedStatuses).
		Count(&stats.InvoicesProcessed).Error
	if err != nil {
		return domain.Stats{}, err
	}

	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Count(&stats.DocumentsUploaded).Error
	if err != nil {
		return domain.Stats{}, err
	}

	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoice_date >= ? AND status IN ?", yearStart, invoicedomain.RecognizedStatuses).
		Select("COALESCE(AVG(total), 0)").
		Scan(&stats.AvgInvoiceValue).Error
	if err != nil {
		return domain.Stats{}, err
	}

	// Payments are unique per invoice, so counting overdue payments counts
	// overdue invoices.
	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Payment{}).
		Where("due_date < ? AND is_paid = ?", now, false).
		Count(&stats.OverdueCount).Error
	if err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}

// Trend groups recognized invoices by calendar month over a trailing window.
// The result always has exactly N contiguous entries, zero-filled where no
// invoices fall in a month.
func (s *Service) Trend(ctx context.Context, req domain.TrendRequest) (domain.TrendReport, error) {
	months := domain.Clamp(req.Months, domain.DefaultTrendMonths, domain.MaxTrendMonths)

	now := s.clock.Now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0)

	var invoices []invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Where("invoice_date >= ? AND status IN ?", windowStart, invoicedomain.RecognizedStatuses).
		Find(&invoices).Error
	if err != nil {
		return domain.TrendReport{}, err
	}

	type bucket struct {
		count int
		total float64
	}
	byMonth := make(map[string]*bucket, months)
	totalSpend := 0.0
	for _, inv := range invoices {
		if inv.InvoiceDate == nil {
			continue
		}
		key := inv.InvoiceDate.UTC().Format(monthLayout)
		b := byMonth[key]
		if b == nil {
			b = &bucket{}
			byMonth[key] = b
		}
		b.count++
		if inv.Total != nil {
			b.total += *inv.Total
			totalSpend += *inv.Total
		}
	}

	trends := make([]domain.TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		month := windowStart.AddDate(0, i, 0)
		key := month.Format(monthLayout)
		point := domain.TrendPoint{Month: key}
		if b := byMonth[key]; b != nil {
			point.InvoiceCount = b.count
			point.TotalValue = b.total
			point.AvgValue = b.total / float64(b.count)
		}
		trends = append(trends, point)
	}

	return domain.TrendReport{
		Trends:        trends,
		TotalInvoices: len(invoices),
		TotalSpend:    totalSpend,
	}, nil
}

// VendorRanking ranks vendors by spend within a trailing window, excluding
// vendors without spend and truncating to the top K.
func (s *Service) VendorRanking(ctx context.Context, req domain.VendorRankingRequest) (domain.VendorRankingReport, error) {
	limit := domain.Clamp(req.Limit, domain.DefaultVendorLimit, domain.MaxVendorLimit)
	months := domain.Clamp(req.Months, domain.DefaultVendorMonths, domain.MaxVendorMonths)

	windowStart := s.clock.Now().AddDate(0, -months, 0)

	var invoices []invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Where("vendor_id IS NOT NULL AND invoice_date >= ? AND status IN ?",
			windowStart, invoicedomain.RecognizedStatuses).
		Find(&invoices).Error
	if err != nil {
		return domain.VendorRankingReport{}, err
	}

	type agg struct {
		total float64
		count int
		last  *time.Time
	}
	byVendor := make(map[snowflake.ID]*agg)
	for _, inv := range invoices {
		a := byVendor[*inv.VendorID]
		if a == nil {
			a = &agg{}
			byVendor[*inv.VendorID] = a
		}
		a.count++
		if inv.Total != nil {
			a.total += *inv.Total
		}
		if inv.InvoiceDate != nil && (a.last == nil || inv.InvoiceDate.After(*a.last)) {
			a.last = inv.InvoiceDate
		}
	}

	var totalVendors int64
	if err := s.db.WithContext(ctx).Model(&partydomain.Vendor{}).Count(&totalVendors).Error; err != nil {
		return domain.VendorRankingReport{}, err
	}

	var vendors []partydomain.Vendor
	if len(byVendor) > 0 {
		ids := make([]snowflake.ID, 0, len(byVendor))
		for id := range byVendor {
			ids = append(ids, id)
		}
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error; err != nil {
			return domain.VendorRankingReport{}, err
		}
	}

	ranked := make([]domain.VendorSpend, 0, len(vendors))
	for _, vendor := range vendors {
		a := byVendor[vendor.ID]
		if a == nil || a.total <= 0 {
			continue
		}
		ranked = append(ranked, domain.VendorSpend{
			ID:              vendor.ID,
			Name:            vendor.Name,
			TotalSpend:      a.total,
			InvoiceCount:    a.count,
			AvgInvoiceValue: a.total / float64(a.count),
			LastInvoiceDate: a.last,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSpend != ranked[j].TotalSpend {
			return ranked[i].TotalSpend > ranked[j].TotalSpend
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	totalSpend := 0.0
	for _, row := range ranked {
		totalSpend += row.TotalSpend
	}

	return domain.VendorRankingReport{
		Vendors:      ranked,
		TotalVendors: totalVendors,
		TotalSpend:   totalSpend,
	}, nil
}

// CategorySpend groups line items of eligible invoices by category, falling
// back to the line description and then "Uncategorized". Percentages are
// shares of the total spend across all groups, computed before truncation.
func (s *Service) CategorySpend(ctx context.Context, req domain.CategorySpendRequest) (domain.CategorySpendReport, error) {
	months := domain.Clamp(req.Months, domain.DefaultCategoryMonths, domain.MaxCategoryMonths)
	limit := domain.Clamp(req.Limit, domain.DefaultCategoryLimit, domain.MaxCategoryLimit)

	windowStart := s.clock.Now().AddDate(0, -months, 0)

	var invoiceIDs []snowflake.ID
	err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoice_date >= ? AND status IN ?", windowStart, invoicedomain.RecognizedStatuses).
		Pluck("id", &invoiceIDs).Error
	if err != nil {
		return domain.CategorySpendReport{}, err
	}
	if len(invoiceIDs) == 0 {
		return domain.CategorySpendReport{Categories: []domain.CategorySpend{}}, nil
	}

	var items []invoicedomain.LineItem
	err = s.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Find(&items).Error
	if err != nil {
		return domain.CategorySpendReport{}, err
	}

	type agg struct {
		total float64
		count int
	}
	byCategory := make(map[string]*agg)
	totalSpend := 0.0
	for _, item := range items {
		category := "Uncategorized"
		switch {
		case item.Category != nil && *item.Category != "":
			category = *item.Category
		case item.Description != nil && *item.Description != "":
			category = *item.Description
		}

		a := byCategory[category]
		if a == nil {
			a = &agg{}
			byCategory[category] = a
		}
		a.count++
		if item.TotalPrice != nil {
			a.total += *item.TotalPrice
			totalSpend += *item.TotalPrice
		}
	}

	categories := make([]domain.CategorySpend, 0, len(byCategory))
	for name, a := range byCategory {
		percentage := 0.0
		if totalSpend > 0 {
			percentage = a.total / totalSpend * 100
		}
		categories = append(categories, domain.CategorySpend{
			Category:   name,
			TotalSpend: a.total,
			ItemCount:  a.count,
			Percentage: percentage,
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].TotalSpend != categories[j].TotalSpend {
			return categories[i].TotalSpend > categories[j].TotalSpend
		}
		return categories[i].Category < categories[j].Category
	})
	if len(categories) > limit {
		categories = categories[:limit]
	}

	return domain.CategorySpendReport{
		Categories: categories,
		TotalSpend: totalSpend,
	}, nil
}

// CashOutflow partitions unpaid invoices due within the next W weeks into
// 7-day buckets. Every bucket is emitted, empty or not, with its literal
// calendar bounds.
func (s *Service) CashOutflow(ctx context.Context, req domain.CashOutflowRequest) (domain.CashOutflowReport, error) {
	weeks := domain.Clamp(req.Weeks, domain.DefaultForecastWeeks, domain.MaxForecastWeeks)

	today := s.clock.Now()
	horizon := today.AddDate(0, 0, weeks*7)

	var payments []invoicedomain.Payment
	err := s.db.WithContext(ctx).
		Where("is_paid = ? AND due_date >= ? AND due_date <= ?", false, today, horizon).
		Find(&payments).Error
	if err != nil {
		return domain.CashOutflowReport{}, err
	}

	totals, err := s.invoiceTotals(ctx, payments)
	if err != nil {
		return domain.CashOutflowReport{}, err
	}

	type bucket struct {
		count int
		total float64
	}
	byWeek := make(map[int]*bucket)
	for _, payment := range payments {
		if payment.DueDate == nil {
			continue
		}
		week := int(math.Ceil(payment.DueDate.Sub(today).Hours() / (24 * 7)))
		if week <= 0 || week > weeks {
			continue
		}
		b := byWeek[week]
		if b == nil {
			b = &bucket{}
			byWeek[week] = b
		}
		b.count++
		b.total += totals[payment.InvoiceID]
	}

	forecast := make([]domain.CashOutflowPeriod, 0, weeks)
	totalForecast := 0.0
	for i := 1; i <= weeks; i++ {
		start := today.AddDate(0, 0, (i-1)*7)
		end := start.AddDate(0, 0, 6)
		period := domain.CashOutflowPeriod{
			Period:    fmt.Sprintf("%d-W%02d", today.Year(), i),
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
		}
		if b := byWeek[i]; b != nil {
			period.InvoiceCount = b.count
			period.ExpectedOutflow = b.total
			totalForecast += b.total
		}
		forecast = append(forecast, period)
	}

	return domain.CashOutflowReport{
		Forecast:       forecast,
		TotalForecast:  totalForecast,
		ForecastPeriod: fmt.Sprintf("next %d weeks", weeks),
	}, nil
}

func (s *Service) invoiceTotals(ctx context.Context, payments []invoicedomain.Payment) (map[snowflake.ID]float64, error) {
	if len(payments) == 0 {
		return nil, nil
	}

	ids := make([]snowflake.ID, 0, len(payments))
	for _, payment := range payments {
		ids = append(ids, payment.InvoiceID)
	}

	var invoices []invoicedomain.Invoice
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&invoices).Error; err != nil {
		return nil, err
	}

	totals := make(map[snowflake.ID]float64, len(invoices))
	for _, inv := range invoices {
		if inv.Total != nil {
			totals[inv.ID] = *inv.Total
		}
	}
	return totals, nil
}
