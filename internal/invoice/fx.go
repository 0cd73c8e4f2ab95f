package invoice

import (
	"github.com/propfolio/propfolio/internal/invoice/repository"
	"github.com/propfolio/propfolio/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
