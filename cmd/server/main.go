package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"embed-server/internal/app"
	"embed-server/internal/httputil"
)

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Loaded bool   `json:"loaded"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := app.Build(ctx)
	r := routes(deps)

	addr := fmt.Sprintf("%s:%d", deps.Config.Host, deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("embedding server listening", "addr", addr, "model", deps.Config.EmbedModel, "loaded", deps.Embedder != nil)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// routes wires the HTTP surface. /embed is registered with and without a
// trailing slash because the plugin's path construction is inconsistent
// across versions, and chi treats the two as distinct patterns.
func routes(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log)

	for _, path := range []string{"/embed", "/embed/"} {
		r.Post(path, embedHandler(deps))
		// Bare OPTIONS without preflight headers comes from older
		// webviews; the CORS middleware only answers real preflights.
		r.Options(path, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	r.Get("/health", healthHandler(deps))

	return r
}

func embedHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.FailJSON(deps.Log, w, "invalid request body", err, http.StatusBadRequest)
			return
		}

		if deps.Embedder == nil {
			httputil.FailJSON(deps.Log, w, "Model not loaded. Check server logs.", nil, http.StatusInternalServerError)
			return
		}

		vec, err := deps.Embedder.Embed(r.Context(), req.Text)
		if err != nil {
			httputil.FailJSON(deps.Log, w, fmt.Sprintf("Embedding failed: %v", err), err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, embedResponse{Embedding: vec})
	}
}

func healthHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Model:  deps.Config.EmbedModel,
			Loaded: deps.Embedder != nil,
		})
	}
}
