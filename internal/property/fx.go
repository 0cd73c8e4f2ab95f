package property

import (
	"github.com/propfolio/propfolio/internal/property/repository"
	"github.com/propfolio/propfolio/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
