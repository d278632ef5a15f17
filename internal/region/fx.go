package region

import (
	"github.com/anoralabs/storefront/internal/region/repository"
	"github.com/anoralabs/storefront/internal/region/service"
	"go.uber.org/fx"
)

var Module = fx.Module("region.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
