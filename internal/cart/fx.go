package cart

import (
	"github.com/anoralabs/storefront/internal/cart/repository"
	"github.com/anoralabs/storefront/internal/cart/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cart.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
