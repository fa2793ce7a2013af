package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripcanvas/cmd/fx/account_fx"
	"tripcanvas/cmd/fx/config_fx"
	"tripcanvas/cmd/fx/controllers_fx"
	"tripcanvas/cmd/fx/db_fx"
	"tripcanvas/cmd/fx/geo_fx"
	"tripcanvas/cmd/fx/logger_fx"
	"tripcanvas/cmd/fx/memcache_fx"
	"tripcanvas/cmd/fx/plan_fx"
	"tripcanvas/cmd/fx/prompt_fx"
	"tripcanvas/internal/api/controllers"
	"tripcanvas/internal/config"
	mem "tripcanvas/pkg/memcache"
	"tripcanvas/pkg/middleware"
	"tripcanvas/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		logger_fx.EventLogger,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		prompt_fx.Module,
		geo_fx.Module,
		plan_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config            *config.Config
	JWT               *utils.JWTManager
	RevokedTokens     mem.RevokedTokenStore
	PlanController    *controllers.PlanController
	AccountController *controllers.AccountController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	gin.SetMode(p.Config.Server.GinMode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(p.Config.Server.CORSAllowedOrigins))

	auth := middleware.JWTAuthMiddleware(p.JWT, p.RevokedTokens, p.Config.Auth.CookieName)
	RegisterRoutes(r, auth, p.PlanController, p.AccountController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	auth gin.HandlerFunc,
	planController *controllers.PlanController,
	accountController *controllers.AccountController) {

	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, nil, "ok")
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", accountController.SignUp)
	authGroup.POST("/login", accountController.Login)
	authGroup.POST("/logout", auth, accountController.Logout)

	usersGroup := r.Group("/users", auth)
	usersGroup.GET("/profile", accountController.Profile)

	plansGroup := r.Group("/plans", auth)
	plansGroup.POST("/generate", planController.GeneratePlanHandler)
}
