package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	employeeshandler "github.com/clearstaff/hr-backoffice/domains/employees/be/handler"
	employeesrepo "github.com/clearstaff/hr-backoffice/domains/employees/be/repo"
	employeesservice "github.com/clearstaff/hr-backoffice/domains/employees/be/service"
	mehandler "github.com/clearstaff/hr-backoffice/domains/me/be/handler"
	shiftshandler "github.com/clearstaff/hr-backoffice/domains/shifts/be/handler"
	shiftsrepo "github.com/clearstaff/hr-backoffice/domains/shifts/be/repo"
	shiftsservice "github.com/clearstaff/hr-backoffice/domains/shifts/be/service"
	platformlogging "github.com/clearstaff/hr-backoffice/platform/go/logging"
	platformmiddleware "github.com/clearstaff/hr-backoffice/platform/go/middleware"
	"github.com/clearstaff/hr-backoffice/platform/go/persistence"
	"github.com/clearstaff/hr-backoffice/platform/go/tenant"
	tenantmiddleware "github.com/clearstaff/hr-backoffice/platform/go/tenant/middleware"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	AuthProvider    string        `env:"AUTH_PROVIDER" envDefault:"firebase"` // firebase | dev
	DevTokenSecret  string        `env:"DEV_TOKEN_SECRET"`                    // required when AUTH_PROVIDER=dev
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	membershipStore, err := persistence.NewMembershipStore(pool, cfg.StoreTimeout)
	if err != nil {
		logger.Fatal("init membership store", zap.Error(err))
	}
	employeeStore, err := persistence.NewEmployeeStore(pool, cfg.StoreTimeout)
	if err != nil {
		logger.Fatal("init employee store", zap.Error(err))
	}
	shiftStore, err := persistence.NewShiftStore(pool, cfg.StoreTimeout)
	if err != nil {
		logger.Fatal("init shift store", zap.Error(err))
	}

	resolver := tenant.NewResolver(membershipStore)

	employeeService := employeesservice.New(employeesrepo.NewPostgresRepository(employeeStore))
	employeeHTTPHandler := employeeshandler.New(employeeService, logger)
	meHTTPHandler := mehandler.New(employeeService, logger)

	shiftService := shiftsservice.New(
		shiftsrepo.NewPostgresRepository(shiftStore),
		shiftsrepo.NewEmployeeDirectory(employeeStore),
	)
	shiftHTTPHandler := shiftshandler.New(shiftService, logger)

	authMiddleware := buildAuthMiddleware(ctx, cfg, logger)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	apiRouter := chi.NewRouter()
	apiRouter.Use(authMiddleware)
	apiRouter.Use(platformmiddleware.RequestTrace)
	apiRouter.Use(tenantmiddleware.WithTenantContext(resolver, tenantmiddleware.Config{}))

	elevated := tenantmiddleware.RequireRole(
		tenant.RoleAdmin,
		tenant.RoleHR,
		tenant.RoleManager,
		tenant.RoleSuperadmin,
	)

	apiRouter.Mount("/me", meHTTPHandler.Routes())
	apiRouter.Mount("/shifts", shiftHTTPHandler.Routes(elevated))
	apiRouter.Group(func(r chi.Router) {
		r.Use(elevated)
		r.Mount("/employees", employeeHTTPHandler.Routes())
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
