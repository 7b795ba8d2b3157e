package main

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
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/engine"
	"github.com/reoring/vskema/metrics"
	"github.com/reoring/vskema/middleware"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a validation endpoint over HTTP",
		Long: `Starts an HTTP server that validates JSON bodies posted to /validate
against the schema and exposes Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	f := cmd.Flags()
	f.StringP("schema", "s", "", "schema file (.json, .yaml or .yml)")
	f.String("addr", ":8080", "listen address")
	f.Bool("async", false, "run async rules")
	f.Int64("max-body", middleware.DefaultMaxBodyBytes, "request body limit in bytes")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

type serveOptions struct {
	async   bool
	maxBody int64
}

func runServe(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	schemaPath, _ := f.GetString("schema")
	addr, _ := f.GetString("addr")
	async, _ := f.GetBool("async")
	maxBody, _ := f.GetInt64("max-body")

	s, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	obs := metrics.New("vskema")
	reg.MustRegister(obs)

	rt, err := newRuntime(cmd, engine.WithObserver(obs))
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(rt, s, reg, serveOptions{async: async, maxBody: maxBody}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		rt.log.Info("server started", slog.String("addr", addr), slog.String("schema", schemaPath))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		rt.log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		return nil
	}
}

func newServer(rt *runtime, s vskema.SchemaDefinition, g prometheus.Gatherer, o serveOptions) http.Handler {
	opts := []middleware.Option{
		middleware.WithEngine(rt.eng),
		middleware.WithLogger(rt.log),
		middleware.WithMaxBodyBytes(o.maxBody),
	}
	if o.async {
		opts = append(opts, middleware.WithAsync())
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(g))
	r.With(middleware.Validate(s, opts...)).Post("/validate", func(w http.ResponseWriter, r *http.Request) {
		res, _ := middleware.ResultFrom(r.Context())
		middleware.WriteJSON(w, http.StatusOK, vskema.ToEnvelope(res, res.Value))
	})
	return r
}
