package reference

import (
	"github.com/spendlens/spendlens/internal/reference/repository"
	"github.com/spendlens/spendlens/internal/reference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reference.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
