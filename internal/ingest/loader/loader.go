// Package loader reads extraction batches from disk.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spendlens/spendlens/internal/ingest/domain"
	"go.uber.org/zap"
)

type Loader struct {
	log *zap.Logger
}

func New(log *zap.Logger) domain.Loader {
	return &Loader{log: log.Named("ingest.loader")}
}

// Load reads a batch file and parses it as an array of raw records. Any read
// or parse failure is fatal for the batch; nothing is ingested.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadBatch, err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, err
	}

	l.log.Info("batch loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Decode parses a batch from a reader.
func Decode(r io.Reader) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadBatch, err)
	}
	return records, nil
}
