package provider

import (
	"github.com/propfolio/propfolio/internal/provider/repository"
	"github.com/propfolio/propfolio/internal/provider/service"
	"go.uber.org/fx"
)

var Module = fx.Module("provider.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
