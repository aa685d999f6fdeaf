package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/kanakjewels/storefront/internal/cart"
	"github.com/kanakjewels/storefront/internal/catalog"
	"github.com/kanakjewels/storefront/internal/checkout"
	"github.com/kanakjewels/storefront/internal/common"
	"github.com/kanakjewels/storefront/internal/config"
	"github.com/kanakjewels/storefront/internal/discount"
	"github.com/kanakjewels/storefront/internal/health"
	"github.com/kanakjewels/storefront/internal/lock"
	"github.com/kanakjewels/storefront/internal/obs"
	"github.com/kanakjewels/storefront/internal/platform"
	"github.com/kanakjewels/storefront/internal/ratelimit"
	"github.com/kanakjewels/storefront/internal/security"
	"github.com/kanakjewels/storefront/internal/session"
	"github.com/kanakjewels/storefront/internal/shipping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	tracingEnabled := cfg.TracingEnabled
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "storefront-api",
			Endpoint:      cfg.TracingEndpoint,
			Exporter:      "otlp",
			SamplingRatio: cfg.TracingSampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis metrics")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	platformClient := platform.New(cfg.PlatformBaseURL, cfg.PlatformToken, cfg.PlatformTimeout)

	catalogSvc := &catalog.Service{
		Client: platformClient,
		Cache:  catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
	}
	catalogHandler := &catalog.Handler{Svc: catalogSvc}

	cartSvc := &cart.Service{
		Sessions: &cart.RedisSessions{Client: redisClient, TTL: cfg.CartTTL},
		Catalog:  catalogSvc,
	}
	cartHandler := &cart.Handler{Svc: cartSvc}

	shippingHandler := &shipping.Handler{Client: platformClient}

	discountSvc := &discount.Service{Client: platformClient}
	discountHandler := &discount.Handler{Svc: discountSvc}

	checkoutSvc := &checkout.Service{
		Cart:      cartSvc,
		Shipping:  platformClient,
		Discounts: discountSvc,
		Submitter: platformClient,
		Currency:  cfg.CurrencyCode,
		Lock:      &lock.Locker{R: redisClient},
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	limiter := ratelimit.Limiter{Client: redisClient, Prefix: "rl:"}
	mutationLimit := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    limiterKey("mut"),
			Window: time.Minute,
			Max:    cfg.RateLimitRPM,
		},
		OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
	}
	checkoutLimit := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    limiterKey("checkout"),
			Window: time.Minute,
			Max:    cfg.RateLimitBurst,
		},
		OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
	}

	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBucketsMS), nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", session.HeaderName},
		ExposedHeaders:   []string{"X-Total-Count", session.HeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(session.Middleware(cfg.SessionCookieTTL))
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{
		Checker: health.Probes{Redis: redisClient, Platform: platformClient},
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)

		v.Get("/shipping-methods", shippingHandler.List)
		v.Get("/shipping-methods/{id}", shippingHandler.Get)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Group(func(g chi.Router) {
				g.Use(mutationLimit.Middleware)
				g.Post("/items", cartHandler.AddItem)
				g.Patch("/items/{productId}", cartHandler.UpdateItem)
				g.Delete("/items/{productId}", cartHandler.RemoveItem)
				g.Delete("/", cartHandler.Clear)
			})
		})

		v.With(mutationLimit.Middleware).Post("/discounts/validate", discountHandler.Validate)

		v.Route("/checkout", func(c chi.Router) {
			c.Use(checkoutLimit.Middleware)
			c.Post("/quote", checkoutHandler.Quote)
			c.With(idem.Middleware).Post("/", checkoutHandler.PlaceOrder)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case <-sigCtx.Done():
		logger.Info().Msg("shutdown signal received")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func limiterKey(scope string) func(*http.Request) string {
	return func(r *http.Request) string {
		if id, ok := session.ID(r.Context()); ok {
			return scope + ":" + id
		}
		return scope + ":" + common.ClientIP(r)
	}
}
