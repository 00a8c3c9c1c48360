// Package domain defines the raw extraction-record envelope and the batch
// ingestion contract.
package domain

import (
	"context"
	"errors"
)

// RawRecord is one entry of an extraction batch, in the shape produced by the
// upstream document pipeline (MongoDB-export JSON). Loosely typed fields keep
// the value-envelope and $date/$numberLong wrappers intact until the payload
// helpers coerce them.
type RawRecord struct {
	ID                 string         `json:"_id"`
	Name               string         `json:"name"`
	FilePath           string         `json:"filePath"`
	FileSize           any            `json:"fileSize"`
	FileType           string         `json:"fileType"`
	Status             string         `json:"status"`
	OrganizationID     string         `json:"organizationId"`
	DepartmentID       string         `json:"departmentId"`
	CreatedAt          any            `json:"createdAt"`
	UpdatedAt          any            `json:"updatedAt"`
	IsValidatedByHuman bool           `json:"isValidatedByHuman"`
	UploadedByID       string         `json:"uploadedById"`
	AssignedToID       string         `json:"assignedToId"`
	ExtractedData      *ExtractedData `json:"extractedData"`
}

// ExtractedData wraps the nested LLM extraction payload.
type ExtractedData struct {
	LLMData any `json:"llmData"`
}

// RecordError describes a record whose assembly failed; the rest of the batch
// is unaffected.
type RecordError struct {
	DocumentID string `json:"documentId"`
	Message    string `json:"message"`
}

// Report summarizes one ingestion run.
type Report struct {
	RunID             string        `json:"runId"`
	Records           int           `json:"records"`
	Organizations     int           `json:"organizations"`
	Departments       int           `json:"departments"`
	Users             int           `json:"users"`
	Vendors           int           `json:"vendors"`
	Customers         int           `json:"customers"`
	Invoices          int           `json:"invoices"`
	LineItems         int           `json:"lineItems"`
	Payments          int           `json:"payments"`
	SkippedNoPayload  int           `json:"skippedNoPayload"`
	SkippedDuplicates int           `json:"skippedDuplicates"`
	Errors            []RecordError `json:"errors,omitempty"`
}

// Loader reads a complete batch of raw records. A batch that cannot be read or
// parsed fails with ErrBadBatch; record content is not validated here.
type Loader interface {
	Load(ctx context.Context, path string) ([]RawRecord, error)
}

// Service runs the ingestion pipeline over one batch.
type Service interface {
	Run(ctx context.Context, records []RawRecord) (Report, error)
}

var ErrBadBatch = errors.New("bad_batch")
