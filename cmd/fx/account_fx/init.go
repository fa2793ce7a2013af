package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripcanvas/internal/config"
	"tripcanvas/internal/repositories"
	"tripcanvas/internal/services"
	mem "tripcanvas/pkg/memcache"
	"tripcanvas/pkg/utils"
)

var Module = fx.Provide(
	provideJWTManager, provideAccountService, provideAccountRepo)

func provideJWTManager(cfg *config.Config) (*utils.JWTManager, error) {
	return utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
}

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	jwt *utils.JWTManager,
	revoked mem.RevokedTokenStore,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, jwt, revoked, logger)
}
