package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/directory"
	"hrdash/internal/domain/reports"
	"hrdash/internal/platform/config"
	"hrdash/internal/platform/events"
	"hrdash/internal/platform/jobs"
	"hrdash/internal/platform/kv"
	"hrdash/internal/platform/metrics"
	"hrdash/internal/platform/source"
	"hrdash/internal/transport/http/api"
	authhandler "hrdash/internal/transport/http/handlers/auth"
	directoryhandler "hrdash/internal/transport/http/handlers/directory"
	reportshandler "hrdash/internal/transport/http/handlers/reports"
	"hrdash/internal/transport/http/middleware"
)

const (
	tokenTTL       = 12 * time.Hour
	idempotencyTTL = 24 * time.Hour
	initialLoadMax = 30 * time.Second
)

type App struct {
	Config    config.Config
	Log       zerolog.Logger
	Store     *directory.Store
	Directory *directory.Service
	Jobs      *jobs.Service
	Metrics   *metrics.Collector
	Router    http.Handler

	refresh jobs.RunFunc
	source  directory.Source
	closers []io.Closer
}

type Option func(*options)

type options struct {
	log      zerolog.Logger
	source   directory.Source
	kv       kv.Store
	producer sarama.SyncProducer
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithSource replaces the configured employee source.
func WithSource(src directory.Source) Option {
	return func(o *options) { o.source = src }
}

// WithKV replaces the configured bookmark backend. The app does not close it.
func WithKV(store kv.Store) Option {
	return func(o *options) { o.kv = store }
}

// WithProducer publishes change events through sp regardless of KafkaBrokers.
func WithProducer(sp sarama.SyncProducer) Option {
	return func(o *options) { o.producer = sp }
}

// New wires the store, its persistence and publishers, and the HTTP router.
// Employees are not fetched until Start.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{
		Config:  cfg,
		Log:     o.log,
		Metrics: metrics.New(),
	}

	bookmarkKV := o.kv
	if bookmarkKV == nil {
		opened, err := kv.Open(o.log.WithContext(ctx), cfg)
		if err != nil {
			return nil, err
		}
		bookmarkKV = opened
		app.closers = append(app.closers, opened)
	}

	app.Store = directory.NewStore(directory.WithDispatchHook(app.Metrics.RecordDispatch))
	restored := directory.NewBookmarkPersistence(bookmarkKV, o.log.With().Str("component", "bookmarks").Logger()).Bind(ctx, app.Store)
	o.log.Info().Str("backend", cfg.BookmarkBackend).Int("restored", restored).Msg("bookmarks hydrated")

	producer := o.producer
	if producer == nil && len(cfg.KafkaBrokers) > 0 {
		dialed, err := events.Dial(cfg.KafkaBrokers)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		producer = dialed
	}
	if producer != nil {
		pub := events.NewPublisher(producer, cfg.KafkaTopic, o.log)
		app.Store.Subscribe(pub.Observe)
		app.closers = append(app.closers, pub)
	}

	src := o.source
	if src == nil {
		src = employeeSource(cfg)
	}
	app.source = src
	app.Directory = directory.NewService(app.Store, src, o.log.With().Str("component", "directory").Logger())

	app.Jobs = jobs.New(o.log)
	app.refresh = func(ctx context.Context) (any, error) {
		if err := app.Directory.Load(ctx); err != nil {
			return nil, err
		}
		return map[string]int{"employees": len(app.Store.State().Employees)}, nil
	}
	app.Jobs.Every(jobs.JobEmployeeRefresh, cfg.RefreshInterval, app.refresh)

	authSvc, err := auth.NewService(cfg.AdminEmail, cfg.AdminPassword, cfg.JWTSecret, tokenTTL)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Router = app.routes(authSvc)
	return app, nil
}

func employeeSource(cfg config.Config) directory.Source {
	gen := source.NewGenerator(cfg.EmployeeSeed, time.Now())
	var src directory.Source
	if cfg.EmployeeSourceURL == "" {
		src = source.NewSynthetic(cfg.EmployeeFetchLimit, gen)
	} else {
		src = source.NewHTTP(cfg.EmployeeSourceURL, cfg.EmployeeFetchLimit, cfg.EmployeeFetchTimeout, gen)
	}
	if cfg.EmployeeCacheTTL <= 0 {
		return src
	}
	return source.NewCached(src, cfg.EmployeeCacheTTL)
}

func (a *App) routes(authSvc *auth.Service) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Log, a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authSvc))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		state := a.Store.State()
		if state.Loading || (len(state.Employees) == 0 && state.Error != "") {
			http.Error(w, "employees not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc).RegisterRoutes(r)

		idem := middleware.NewIdempotencyStore(idempotencyTTL)
		refresh := func(ctx context.Context) (any, error) {
			if cached, ok := a.source.(*source.Cached); ok {
				cached.Flush()
			}
			return a.Jobs.RunNow(ctx, jobs.JobEmployeeRefresh, a.refresh)
		}
		directoryhandler.NewHandler(a.Directory, reports.NewService(a.Store), idem, refresh).RegisterRoutes(r)
		reportshandler.NewHandler(reports.NewService(a.Store)).RegisterRoutes(r)

		r.With(middleware.RequireRole()).Get("/jobs/runs", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Jobs.Runs(), middleware.GetRequestID(r.Context()))
		})
	})

	return router
}

// Start runs the initial employee load and the scheduled refresh. A failed
// load is recorded in the store and does not stop the app.
func (a *App) Start(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, initialLoadMax)
	defer cancel()
	if _, err := a.Jobs.RunNow(loadCtx, jobs.JobEmployeeRefresh, a.refresh); err != nil {
		a.Log.Warn().Err(err).Msg("initial employee load failed")
	}
	a.Jobs.Start(ctx)
}

// Close releases the publisher and bookmark backend, in reverse open order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run serves the app on cfg.Addr until ctx is cancelled, then drains
// in-flight requests.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	app, err := New(ctx, cfg, WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown cleanup failed")
		}
	}()
	app.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("hrdash server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
