package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/energeticlee/heist-clone/auth"
	"github.com/energeticlee/heist-clone/config"
	"github.com/energeticlee/heist-clone/feed"
	"github.com/energeticlee/heist-clone/middleware"
)

// App represents the staking service application
type App struct {
	engine       *gin.Engine
	config       *config.Config
	logger       zerolog.Logger
	stakeService *StakeService
	hub          *feed.Hub
	httpServer   *http.Server
	onShutdown   []func()
	poolHandler  *PoolHandler
	stakeHandler *StakeHandler
}

// Options holds server configuration options
type Options struct {
	Config       *config.Config
	Logger       zerolog.Logger
	StakeService *StakeService
	Hub          *feed.Hub
}

// New creates a new staking service application
func New(opts Options) *App {
	if opts.Config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	app := &App{
		engine:       engine,
		config:       opts.Config,
		logger:       opts.Logger,
		stakeService: opts.StakeService,
		hub:          opts.Hub,
	}

	app.poolHandler = NewPoolHandler(app)
	app.stakeHandler = NewStakeHandler(app)

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// OnShutdown registers a hook run during graceful shutdown.
func (a *App) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *App) setupMiddleware() {
	a.engine.Use(middleware.TraceID())
	a.engine.Use(middleware.Logging(a.logger))
	a.engine.Use(middleware.Recovery(a.logger))
	if a.config.Server.EnableCORS {
		a.engine.Use(middleware.CORS())
	}
	a.engine.Use(middleware.Timeout(a.config.Server.WriteTimeout))
}

func (a *App) setupRoutes() {
	a.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := a.engine.Group("/api")
	api.Use(auth.JWTMiddleware(a.config.JWT.Secret, a.logger))

	api.POST("/pool/fund", a.poolHandler.Fund)
	api.POST("/pool/transfer-authority", a.poolHandler.TransferAuthority)
	api.GET("/pool", a.poolHandler.Get)

	api.POST("/stakes", a.stakeHandler.Open)
	api.POST("/stakes/close", a.stakeHandler.Close)
	api.GET("/players/:id", a.stakeHandler.GetPlayer)
	api.GET("/players/:id/stakes", a.stakeHandler.GetPlayerStakes)
	api.GET("/feed", a.stakeHandler.OutcomeFeed)
}

// Engine returns the underlying gin engine (for tests)
func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Run starts the HTTP server and blocks until shutdown
func (a *App) Run() error {
	addr := fmt.Sprintf(":%d", a.config.Server.Port)

	a.httpServer = &http.Server{
		Addr:         addr,
		Handler:      a.engine,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("Server starting")
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Forced shutdown")
		return err
	}

	for _, fn := range a.onShutdown {
		fn()
	}

	a.logger.Info().Msg("Server stopped")
	return nil
}
