package report

import (
	"github.com/propfolio/propfolio/internal/report/cache"
	"github.com/propfolio/propfolio/internal/report/repository"
	"github.com/propfolio/propfolio/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(cache.New),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
