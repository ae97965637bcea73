// cmd/elite-customer/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"elite-customer/internal/api"
	"elite-customer/internal/appstate"
	"elite-customer/internal/common/config"
	"elite-customer/internal/common/database"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/hosted/hostedchat"
	"elite-customer/internal/hosted/hostedjobs"
	"elite-customer/internal/services/chat"
	"elite-customer/internal/services/jobs"
	"elite-customer/internal/services/notifications"
	"elite-customer/internal/services/payments"
	"elite-customer/internal/services/user"
	"elite-customer/internal/session"
	"elite-customer/internal/supabase"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting elite-customer...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// --- Init Session Store ---
	var store session.Store
	if cfg.Session.Store == "redis" {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Session.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		store = session.NewRedisStore(redis, time.Duration(cfg.Session.TTL)*time.Second)
	} else {
		store = session.NewMemoryStore()
	}

	// --- Init Hosted Backend ---
	var backend *supabase.Client
	if cfg.Supabase.Configured() {
		backend, err = supabase.New(supabase.Config{
			ProjectURL: cfg.Supabase.URL,
			AnonKey:    cfg.Supabase.AnonKey,
			Timeout:    time.Duration(cfg.API.Timeout) * time.Millisecond,
		})
		if err != nil {
			zapLog.Fatal("hosted backend client failed", zap.Error(err))
		}
		zapLog.Info("Hosted backend client initialized", zap.String("url", cfg.Supabase.URL))
	}

	// --- Restore Session ---
	sessions := session.NewService(ctx, backend, store, log)
	if cfg.Demo.Enabled && !sessions.IsLoggedIn() {
		if _, err := sessions.LoginDemo(ctx); err != nil {
			zapLog.Fatal("demo login failed", zap.Error(err))
		}
		zapLog.Info("Demo session started")
	}

	// --- Init REST Gateway Services ---
	var (
		jobsService          *jobs.Service
		chatService          *chat.Service
		paymentsService      *payments.Service
		notificationsService *notifications.Service
		userService          *user.Service
	)
	if cfg.API.Configured() {
		client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)*time.Millisecond, sessions, log)
		jobsService = jobs.NewService(client)
		chatService = chat.NewService(client)
		paymentsService = payments.NewService(client)
		notificationsService = notifications.NewService(client)
		userService = user.NewService(client)
		zapLog.Info("REST gateway client initialized", zap.String("baseUrl", cfg.API.BaseURL))
	}

	var (
		hostedJobs *hostedjobs.Service
		hostedChat *hostedchat.Service
	)
	if backend != nil {
		hostedJobs = hostedjobs.NewService(backend, log)
		hostedChat = hostedchat.NewService(backend, log)
	}

	// --- Resolve Provenance and Active Job ---
	provenance := appstate.ResolveProvenance(cfg.API.Configured(), cfg.Supabase.Configured())

	jobID := cfg.Demo.JobID
	if userService != nil && sessions.IsLoggedIn() {
		if active, err := userService.GetActiveJobID(ctx); err != nil {
			zapLog.Warn("active job lookup failed, using configured job", zap.Error(err))
		} else if active != "" {
			jobID = active
		}
	}

	// --- Build App State ---
	app := appstate.New(ctx, appstate.Config{
		Provenance:    provenance,
		JobID:         jobID,
		Jobs:          jobsService,
		Chat:          chatService,
		Payments:      paymentsService,
		Notifications: notificationsService,
		HostedJobs:    hostedJobs,
		HostedChat:    hostedChat,
		Session:       sessions,
		Logger:        log,
	})

	app.RefreshAll(ctx)
	for _, lane := range appstate.Lanes {
		if msg := app.LaneError(lane); msg != "" {
			zapLog.Warn("initial fetch failed", zap.String("lane", string(lane)), zap.String("error", msg))
		}
	}

	if err := app.StartChatSubscription(ctx); err != nil {
		zapLog.Warn("chat subscription failed, continuing without realtime", zap.Error(err))
	}

	// --- Health/Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "ready",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	app.StopChatSubscription()

	zapLog.Info("elite-customer stopped gracefully")
}
