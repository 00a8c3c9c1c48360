package ingest

import (
	"github.com/spendlens/spendlens/internal/ingest/loader"
	"github.com/spendlens/spendlens/internal/ingest/service"
	"github.com/spendlens/spendlens/internal/invoice"
	"github.com/spendlens/spendlens/internal/party"
	"github.com/spendlens/spendlens/internal/reference"
	"go.uber.org/fx"
)

var Module = fx.Module("ingest.service",
	reference.Module,
	party.Module,
	invoice.Module,
	fx.Provide(loader.New),
	fx.Provide(service.New),
)
