package party

import (
	"github.com/spendlens/spendlens/internal/party/repository"
	"github.com/spendlens/spendlens/internal/party/service"
	"go.uber.org/fx"
)

var Module = fx.Module("party.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
