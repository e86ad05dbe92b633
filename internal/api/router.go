// Package api exposes the planner session over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/data/capture"
	"github.com/penwyp/go-day-planner/internal/util"
)

// Options configures optional collaborators of the API.
type Options struct {
	// Capturer serves utterance requests that carry no text.
	Capturer capture.Capturer
	// Location places tasks on the calendar for the iCalendar export.
	Location *time.Location
}

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(ctrl *planner.Controller, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recovery)

	healthH := &HealthHandler{ctrl: ctrl}
	planH := &PlanHandler{ctrl: ctrl, capturer: opts.Capturer, loc: opts.Location}
	reviewH := &ReviewHandler{ctrl: ctrl, capturer: opts.Capturer}

	r.Get("/health", healthH.Health)
	r.Get("/session", planH.Session)

	r.Route("/plan", func(r chi.Router) {
		r.Put("/text", planH.SetText)
		r.Post("/utterance", planH.Utterance)
		r.Post("/generate", planH.Generate)
		r.Post("/edit", planH.Edit)
		r.Post("/cancel", planH.Cancel)
	})

	r.Get("/timeline", planH.Timeline)
	r.Get("/timeline.ics", planH.TimelineICS)
	r.Post("/tasks/{id}/toggle", planH.Toggle)

	r.Route("/review", func(r chi.Router) {
		r.Get("/", reviewH.Get)
		r.Put("/narrative", reviewH.SetNarrative)
		r.Post("/utterance", reviewH.Utterance)
		r.Post("/analyze", reviewH.Analyze)
		r.Post("/retry", reviewH.Retry)
	})

	return r
}

// Serve runs the API on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfof("api: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
