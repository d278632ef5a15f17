package order

import (
	"github.com/anoralabs/storefront/internal/order/repository"
	"github.com/anoralabs/storefront/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
