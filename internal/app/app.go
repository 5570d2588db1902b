package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appconfig "voltgrid/internal/config"
	"voltgrid/internal/db"
	httpserver "voltgrid/internal/http"
	"voltgrid/internal/http/handlers"
	"voltgrid/internal/http/middleware"
	"voltgrid/internal/repository"
	"voltgrid/internal/service"
	"voltgrid/internal/tokencache"
)

// App wires dependencies for the charging infrastructure API.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.InitSchema(ctx, sqlDB, logger); err != nil {
		sqlDB.Close()
		return nil, err
	}

	// Default to the in-process cache; redis keeps issued tokens valid
	// across a restart when configured.
	var cache tokencache.Cache = tokencache.NewMemory()
	var redisClient *redis.Client
	if cfg.TokenCache.RedisAddr != "" {
		redisClient, err = db.NewRedisClient(cfg.TokenCache.RedisAddr, cfg.TokenCache.RedisPassword)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		cache = tokencache.NewRedis(redisClient)
	}

	typeRepo := repository.NewStationTypeRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	connectorRepo := repository.NewConnectorRepository(sqlDB)

	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration(), cfg.TokenCacheTTL(), cache, logger)
	typeSvc := service.NewTypeService(typeRepo, logger)
	stationSvc := service.NewStationService(stationRepo, typeRepo, logger)
	connectorSvc := service.NewConnectorService(connectorRepo, stationRepo, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Types:       handlers.NewTypeHandlers(typeSvc, logger),
		Stations:    handlers.NewStationHandlers(stationSvc, logger),
		Connectors:  handlers.NewConnectorHandlers(connectorSvc, logger),
		Tokens:      handlers.NewTokenHandlers(tokenSvc, logger),
		Health:      handlers.NewHealthHandler(),
		BearerAuth:  middleware.BearerAuth(tokenSvc, cache, logger),
		RefreshAuth: middleware.RefreshAuth(tokenSvc, cache, logger),
		APIKeyAuth:  middleware.APIKeyAuth(cfg.API.Key, logger),
	})

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
