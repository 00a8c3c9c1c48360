package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/spendlens/spendlens/internal/clock"
	"github.com/spendlens/spendlens/internal/ingest/domain"
	"github.com/spendlens/spendlens/internal/ingest/payload"
	invoicedomain "github.com/spendlens/spendlens/internal/invoice/domain"
	"github.com/spendlens/spendlens/internal/observability/metrics"
	partydomain "github.com/spendlens/spendlens/internal/party/domain"
	referencedomain "github.com/spendlens/spendlens/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	GenID      *snowflake.Node
	References referencedomain.Service
	Parties    partydomain.Service
	Invoices   invoicedomain.Repository
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	references referencedomain.Service
	parties    partydomain.Service
	invoices   invoicedomain.Repository
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ingest.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		references: p.References,
		parties:    p.Parties,
		invoices:   p.Invoices,
		metrics:    p.Metrics,
	}
}

// runContext holds the deduplication state for one ingestion run. It is
// created at the start of a run, passed by reference through the stages and
// discarded at the end; it is not safe to share across concurrent runs.
type runContext struct {
	runID     string
	orgs      map[string]struct{}
	depts     map[string]struct{}
	users     map[string]struct{}
	vendors   map[string]snowflake.ID
	customers map[string]snowflake.ID
}

func newRunContext() *runContext {
	return &runContext{
		runID:     uuid.NewString(),
		orgs:      make(map[string]struct{}),
		depts:     make(map[string]struct{}),
		users:     make(map[string]struct{}),
		vendors:   make(map[string]snowflake.ID),
		customers: make(map[string]snowflake.ID),
	}
}

// Run executes the pipeline over one batch: reference resolution, party
// deduplication, then per-record invoice assembly. Reference and party
// failures abort the run; assembly failures are isolated per record and
// collected into the report.
func (s *Service) Run(ctx context.Context, records []domain.RawRecord) (domain.Report, error) {
	rc := newRunContext()
	log := s.log.With(zap.String("run_id", rc.runID))
	log.Info("ingestion run started", zap.Int("records", len(records)))

	if err := s.resolveReferences(ctx, rc, records); err != nil {
		return domain.Report{}, err
	}
	if err := s.resolveParties(ctx, rc, records); err != nil {
		return domain.Report{}, err
	}

	report := domain.Report{
		RunID:         rc.runID,
		Records:       len(records),
		Organizations: len(rc.orgs),
		Departments:   len(rc.depts),
		Users:         len(rc.users),
		Vendors:       len(rc.vendors),
		Customers:     len(rc.customers),
	}
	for i := range records {
		s.assembleRecord(ctx, rc, &records[i], &report, log)
	}

	log.Info("ingestion run finished",
		zap.Int("invoices", report.Invoices),
		zap.Int("line_items", report.LineItems),
		zap.Int("payments", report.Payments),
		zap.Int("skipped_no_payload", report.SkippedNoPayload),
		zap.Int("skipped_duplicates", report.SkippedDuplicates),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

func (s *Service) resolveReferences(ctx context.Context, rc *runContext, records []domain.RawRecord) error {
	for _, rec := range records {
		id := strings.TrimSpace(rec.OrganizationID)
		if id == "" {
			continue
		}
		if _, ok := rc.orgs[id]; ok {
			continue
		}
		if _, err := s.references.EnsureOrganization(ctx, id); err != nil {
			return err
		}
		rc.orgs[id] = struct{}{}
	}

	for _, rec := range records {
		id := strings.TrimSpace(rec.DepartmentID)
		if id == "" {
			continue
		}
		if _, ok := rc.depts[id]; ok {
			continue
		}
		// The first record referencing a department supplies its organization.
		if _, err := s.references.EnsureDepartment(ctx, id, rec.OrganizationID); err != nil {
			return err
		}
		rc.depts[id] = struct{}{}
	}

	for _, rec := range records {
		for _, id := range []string{rec.UploadedByID, rec.AssignedToID} {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := rc.users[id]; ok {
				continue
			}
			if _, err := s.references.EnsureUser(ctx, id); err != nil {
				return err
			}
			rc.users[id] = struct{}{}
		}
	}
	return nil
}

func (s *Service) resolveParties(ctx context.Context, rc *runContext, records []domain.RawRecord) error {
	for _, rec := range records {
		llm := llmDataOf(rec)
		if llm == nil {
			continue
		}

		if in, ok := vendorInputFrom(llm); ok {
			key := partydomain.VendorKey(in.Name, in.TaxID)
			if _, seen := rc.vendors[key]; !seen {
				vendor, err := s.parties.ResolveVendor(ctx, in)
				if err != nil {
					return err
				}
				rc.vendors[key] = vendor.ID
			}
		}

		if in, ok := customerInputFrom(llm); ok {
			if _, seen := rc.customers[in.Name]; !seen {
				customer, err := s.parties.ResolveCustomer(ctx, in)
				if err != nil {
					return err
				}
				rc.customers[in.Name] = customer.ID
			}
		}
	}
	return nil
}

func (s *Service) assembleRecord(ctx context.Context, rc *runContext, rec *domain.RawRecord, report *domain.Report, log *zap.Logger) {
	llm := llmDataOf(*rec)
	if llm == nil {
		log.Warn("skipping record without extraction payload", zap.String("document_id", rec.ID))
		report.SkippedNoPayload++
		s.metrics.RecordIngest(metrics.OutcomeSkipped)
		return
	}

	exists, err := s.invoices.ExistsByDocumentID(ctx, s.db, rec.ID)
	if err != nil {
		s.recordError(report, rec.ID, err, log)
		return
	}
	if exists {
		log.Debug("skipping already ingested record", zap.String("document_id", rec.ID))
		report.SkippedDuplicates++
		s.metrics.RecordIngest(metrics.OutcomeDuplicate)
		return
	}

	invoice := s.buildInvoice(rc, *rec, llm)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.invoices.InsertGraph(ctx, tx, invoice)
	})
	if err != nil {
		s.recordError(report, rec.ID, err, log)
		return
	}

	report.Invoices++
	report.LineItems += len(invoice.LineItems)
	if invoice.Payment != nil {
		report.Payments++
	}
	s.metrics.RecordIngest(metrics.OutcomeIngested)
}

func (s *Service) recordError(report *domain.Report, documentID string, err error, log *zap.Logger) {
	log.Warn("record assembly failed",
		zap.String("document_id", documentID),
		zap.Error(err),
	)
	report.Errors = append(report.Errors, domain.RecordError{
		DocumentID: documentID,
		Message:    err.Error(),
	})
	s.metrics.RecordIngest(metrics.OutcomeFailed)
}

func (s *Service) buildInvoice(rc *runContext, rec domain.RawRecord, llm map[string]any) *invoicedomain.Invoice {
	invoiceSec := payload.Section(llm, "invoice")
	summarySec := payload.Section(llm, "summary")
	paymentSec := payload.Section(llm, "payment")

	now := s.clock.Now()
	createdAt := now
	if parsed := payload.Date(rec.CreatedAt); parsed != nil {
		createdAt = *parsed
	}
	updatedAt := now
	if parsed := payload.Date(rec.UpdatedAt); parsed != nil {
		updatedAt = *parsed
	}

	currency := payload.String(summarySec["currencySymbol"])
	if currency == "" {
		currency = "EUR"
	}

	invoice := &invoicedomain.Invoice{
		ID:             s.genID.Generate(),
		DocumentID:     rec.ID,
		FileName:       rec.Name,
		FilePath:       optionalString(rec.FilePath),
		FileSize:       payload.Int64(rec.FileSize),
		FileType:       optionalString(rec.FileType),
		Status:         deriveStatus(rec.Status, rec.IsValidatedByHuman),
		InvoiceNumber:  payload.StringPtr(invoiceSec["invoiceId"]),
		InvoiceDate:    payload.Date(invoiceSec["invoiceDate"]),
		DeliveryDate:   payload.Date(invoiceSec["deliveryDate"]),
		DocumentType:   payload.StringPtr(summarySec["documentType"]),
		SubTotal:       payload.Number(summarySec["subTotal"]),
		TotalTax:       payload.Number(summarySec["totalTax"]),
		Total:          payload.Number(summarySec["invoiceTotal"]),
		Currency:       currency,
		IsValidated:    rec.IsValidatedByHuman,
		OrganizationID: rec.OrganizationID,
		DepartmentID:   rec.DepartmentID,
		UploadedByID:   optionalString(rec.UploadedByID),
		AssignedToID:   optionalString(rec.AssignedToID),
		Metadata: datatypes.JSONMap{
			"sourceStatus": rec.Status,
			"ingestRunId":  rc.runID,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	// Foreign keys are resolved by recomputing the dedup key built during the
	// party stage; an unresolved key leaves the invoice unlinked.
	if in, ok := vendorInputFrom(llm); ok {
		if id, resolved := rc.vendors[partydomain.VendorKey(in.Name, in.TaxID)]; resolved {
			invoice.VendorID = &id
		}
	}
	if in, ok := customerInputFrom(llm); ok {
		if id, resolved := rc.customers[in.Name]; resolved {
			invoice.CustomerID = &id
		}
	}

	invoice.LineItems = s.buildLineItems(llm)
	invoice.Payment = s.buildPayment(paymentSec)
	return invoice
}

func (s *Service) buildLineItems(llm map[string]any) []invoicedomain.LineItem {
	itemsSec := payload.Section(llm, "lineItems")
	if itemsSec == nil {
		return nil
	}

	raw := payload.Slice(itemsSec["items"])
	items := make([]invoicedomain.LineItem, 0, len(raw))
	for _, entry := range raw {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		description := payload.StringPtr(item["description"])
		category := payload.StringPtr(item["category"])
		if category == nil {
			category = description
		}

		items = append(items, invoicedomain.LineItem{
			ID:          s.genID.Generate(),
			SrNo:        payload.Int(item["srNo"]),
			Description: description,
			Category:    category,
			Quantity:    payload.Number(item["quantity"]),
			UnitPrice:   payload.Number(item["unitPrice"]),
			TotalPrice:  payload.Number(item["totalPrice"]),
			Sachkonto:   payload.StringPtr(item["Sachkonto"]),
			CreatedAt:   s.clock.Now(),
		})
	}
	return items
}

// buildPayment returns nil unless the payload carries at least one payment
// signal: a due date, payment terms or a bank account number.
func (s *Service) buildPayment(paymentSec map[string]any) *invoicedomain.Payment {
	if paymentSec == nil {
		return nil
	}

	dueDate := payload.Date(paymentSec["dueDate"])
	terms := payload.StringPtr(paymentSec["paymentTerms"])
	bankAccount := payload.StringPtr(paymentSec["bankAccountNumber"])
	if dueDate == nil && terms == nil && bankAccount == nil {
		return nil
	}

	return &invoicedomain.Payment{
		ID:                 s.genID.Generate(),
		DueDate:            dueDate,
		PaymentTerms:       terms,
		BankAccountNumber:  bankAccount,
		BIC:                payload.StringPtr(paymentSec["BIC"]),
		AccountName:        payload.StringPtr(paymentSec["accountName"]),
		NetDays:            payload.Number(paymentSec["netDays"]),
		DiscountPercentage: payload.Number(paymentSec["discountPercentage"]),
		DiscountDays:       payload.Number(paymentSec["discountDays"]),
		DiscountDueDate:    payload.Date(paymentSec["discountDueDate"]),
		DiscountedTotal:    payload.Number(paymentSec["discountedTotal"]),
		IsPaid:             false,
		CreatedAt:          s.clock.Now(),
	}
}

// deriveStatus maps the source record status and the human-validation flag to
// the invoice lifecycle status.
func deriveStatus(source string, validated bool) invoicedomain.InvoiceStatus {
	switch {
	case source == "processed" && validated:
		return invoicedomain.InvoiceStatusValidated
	case source == "pending":
		return invoicedomain.InvoiceStatusPending
	default:
		return invoicedomain.InvoiceStatusProcessed
	}
}

func llmDataOf(rec domain.RawRecord) map[string]any {
	if rec.ExtractedData == nil {
		return nil
	}
	m, _ := rec.ExtractedData.LLMData.(map[string]any)
	return m
}

func vendorInputFrom(llm map[string]any) (partydomain.VendorInput, bool) {
	sec := payload.Section(llm, "vendor")
	if sec == nil {
		return partydomain.VendorInput{}, false
	}
	name := payload.String(sec["vendorName"])
	if name == "" {
		return partydomain.VendorInput{}, false
	}
	return partydomain.VendorInput{
		Name:        name,
		TaxID:       payload.String(sec["vendorTaxId"]),
		Address:     payload.StringPtr(sec["vendorAddress"]),
		PartyNumber: payload.StringPtr(sec["vendorPartyNumber"]),
	}, true
}

func customerInputFrom(llm map[string]any) (partydomain.CustomerInput, bool) {
	sec := payload.Section(llm, "customer")
	if sec == nil {
		return partydomain.CustomerInput{}, false
	}
	name := payload.String(sec["customerName"])
	if name == "" {
		return partydomain.CustomerInput{}, false
	}
	return partydomain.CustomerInput{
		Name:    name,
		Address: payload.StringPtr(sec["customerAddress"]),
	}, true
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
