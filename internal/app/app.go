package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/turfaa/halodoc-medisend-api/client"
	"github.com/turfaa/halodoc-medisend-api/domain"
	"github.com/turfaa/halodoc-medisend-api/internal/config"
	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
	"github.com/turfaa/halodoc-medisend-api/pkg/httpclient"
	"github.com/turfaa/halodoc-medisend-api/pkg/tracing"
)

// App wires together the Medisend client and runs one CLI command.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	client         *client.Client
	stdin          io.Reader
	stdout         io.Writer
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// Command input is read from stdin and results are written to stdout.
func NewApp(cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdout io.Writer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "medisend-cli",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Create the HTTP client, optionally behind a circuit breaker.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.HTTPTimeout,
		MaxRetries:      cfg.HTTPMaxRetries,
		RetryWaitMin:    cfg.HTTPRetryWaitMin,
		RetryWaitMax:    cfg.HTTPRetryWaitMax,
		MaxConnsPerHost: 10,
	})

	var doer client.Doer = baseClient
	if cfg.CBEnabled {
		cbCfg := httpclient.CircuitBreakerConfig{
			Name:         "medisend-api",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBInterval) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		}
		doer = httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger).
			WithFallback(CircuitOpenFallback)
		logger.Info("circuit breaker initialized",
			slog.String("name", cbCfg.Name),
			slog.Uint64("max_requests", uint64(cbCfg.MaxRequests)),
			slog.Int("timeout_seconds", cfg.CBTimeout),
			slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
		)
	}

	medisend, err := client.New(
		domain.Cookies{UserID: cfg.UserID, SessionID: cfg.SessionID},
		client.WithBaseURL(cfg.BaseURL),
		client.WithHTTPClient(doer),
		client.WithLogger(logger),
		client.WithMaxPages(cfg.MaxPages),
	)
	if err != nil {
		shutdownTracer(tracerShutdown)
		return nil, fmt.Errorf("create medisend client: %w", err)
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		client:         medisend,
		stdin:          stdin,
		stdout:         stdout,
		tracerShutdown: tracerShutdown,
	}, nil
}

// CircuitOpenFallback answers for the Medisend API while the breaker is open.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.NewAPIError(http.StatusServiceUnavailable, "CIRCUIT_OPEN",
		"medisend api is temporarily unavailable, please retry later")
}

// Run executes the command named by args[0] and blocks until it finishes or
// ctx is canceled.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	a.logger.DebugContext(ctx, "running command", slog.String("command", args[0]))
	return cmd(a, ctx, args[1:])
}

// Shutdown flushes pending spans.
func (a *App) Shutdown() error {
	if a.tracerShutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := a.tracerShutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func shutdownTracer(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
