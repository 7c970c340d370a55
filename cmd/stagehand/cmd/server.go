package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/mjharte/stagehand/api"
	"github.com/mjharte/stagehand/auth"
	"github.com/mjharte/stagehand/session"
	"github.com/mjharte/stagehand/storage"
	bboltstorage "github.com/mjharte/stagehand/storage/bbolt"
	"github.com/mjharte/stagehand/storage/memory"
	"github.com/mjharte/stagehand/storage/postgres"
)

// devSecretKey is the local-development fallback. A warning is logged
// whenever it is in use.
const devSecretKey = "stagehand-dev-secret"

var (
	addr         string
	storeKind    string
	dataDir      string
	postgresDSN  string
	secretKey    string
	tokenTTL     time.Duration
	corsOrigin   string
	storeTimeout time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the session and authentication server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		store, cleanup, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if secretKey == devSecretKey {
			logger.Warn("using built-in development signing secret; set STAGEHAND_SECRET_KEY in production")
		}

		issuer := auth.NewTokenIssuer([]byte(secretKey), tokenTTL)
		credentials := auth.NewManager(store)
		tracker := session.NewTracker(store)
		a := api.New(credentials, issuer, tracker, api.WithLogger(logger))

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{corsOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}))
		// Per-request deadline for store calls; the stores themselves
		// impose none.
		r.Use(middleware.Timeout(storeTimeout))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount("/api", a.Router())

		server := &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		logger.Info("server started", slog.String("addr", addr), slog.String("store", storeKind))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("shutting down", slog.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func openStore(ctx context.Context) (storage.Store, func(), error) {
	switch storeKind {
	case "memory":
		return memory.NewStore(), func() {}, nil
	case "bbolt":
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		st, err := bboltstorage.NewStoreFromFile(dataDir+"/stagehand.db", nil)
		if err != nil {
			return nil, nil, fmt.Errorf("opening bbolt store: %w", err)
		}
		return st, func() { st.Close() }, nil
	case "postgres":
		if postgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres store requires --postgres-dsn or STAGEHAND_POSTGRES_DSN")
		}
		st, err := postgres.NewStoreFromDSN(ctx, postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q (want memory, bbolt, or postgres)", storeKind)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVar(&addr, "addr", envOr("STAGEHAND_ADDR", ":8000"), "Address to listen on")
	serverCmd.Flags().StringVar(&storeKind, "store", envOr("STAGEHAND_STORE", "bbolt"), "Store backend: memory, bbolt, or postgres")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", envOr("STAGEHAND_DATA_DIR", "./data"), "Directory for persistent data (bbolt)")
	serverCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", envOr("STAGEHAND_POSTGRES_DSN", ""), "PostgreSQL DSN (postgres store)")
	serverCmd.Flags().StringVar(&secretKey, "secret-key", envOr("STAGEHAND_SECRET_KEY", devSecretKey), "Token signing secret")
	serverCmd.Flags().DurationVar(&tokenTTL, "token-ttl", envDurationOr("STAGEHAND_TOKEN_TTL", auth.DefaultTokenTTL), "Bearer token lifetime")
	serverCmd.Flags().StringVar(&corsOrigin, "cors-origin", envOr("STAGEHAND_CORS_ORIGIN", "http://localhost:3000"), "Allowed cross-origin caller")
	serverCmd.Flags().DurationVar(&storeTimeout, "store-timeout", envDurationOr("STAGEHAND_STORE_TIMEOUT", 5*time.Second), "Per-request store deadline")
}
