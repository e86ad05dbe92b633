package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/data/capture"
	"github.com/penwyp/go-day-planner/internal/presentation/formatter"
)

// TextRequest carries typed or transcribed text.
type TextRequest struct {
	Text string `json:"text"`
}

// TimelineResponse is the body of GET /timeline.
type TimelineResponse struct {
	Day             string         `json:"day"`
	Tasks           model.Timeline `json:"tasks"`
	CompletedCount  int            `json:"completedCount"`
	TotalCount      int            `json:"totalCount"`
	CompletionRatio float64        `json:"completionRatio"`
}

// ToggleResponse is the body of POST /tasks/{id}/toggle.
type ToggleResponse struct {
	Task            model.Task `json:"task"`
	CompletionRatio float64    `json:"completionRatio"`
}

// UtteranceResponse echoes the captured utterance with the updated view.
type UtteranceResponse struct {
	Utterance string       `json:"utterance"`
	Session   planner.View `json:"session"`
}

type HealthHandler struct {
	ctrl *planner.Controller
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "day": h.ctrl.Day()})
}

// PlanHandler serves the planning flow and the timeline.
type PlanHandler struct {
	ctrl     *planner.Controller
	capturer capture.Capturer
	loc      *time.Location
}

// Session handles GET /session
func (h *PlanHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// SetText handles PUT /plan/text
func (h *PlanHandler) SetText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.ctrl.SetPlanText(req.Text); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// Utterance handles POST /plan/utterance. A body with text is appended
// directly; an empty body captures one utterance from the configured source.
func (h *PlanHandler) Utterance(w http.ResponseWriter, r *http.Request) {
	utterance, err := captureText(r, h.capturer, h.ctrl.AppendPlanText, h.ctrl.CapturePlan)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UtteranceResponse{Utterance: utterance, Session: h.ctrl.View()})
}

// Generate handles POST /plan/generate
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Generate(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// Edit handles POST /plan/edit
func (h *PlanHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Edit(); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// Cancel handles POST /plan/cancel
func (h *PlanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": h.ctrl.CancelGeneration()})
}

// Timeline handles GET /timeline
func (h *PlanHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	v := h.ctrl.View()
	tasks := v.Tasks
	if tasks == nil {
		tasks = model.Timeline{}
	}
	writeJSON(w, http.StatusOK, TimelineResponse{
		Day:             v.Day,
		Tasks:           tasks,
		CompletedCount:  v.CompletedCount,
		TotalCount:      v.TotalCount,
		CompletionRatio: v.CompletionRatio,
	})
}

// TimelineICS handles GET /timeline.ics
func (h *PlanHandler) TimelineICS(w http.ResponseWriter, r *http.Request) {
	v := h.ctrl.View()
	var buf strings.Builder
	err := formatter.NewICSFormatter(h.loc).Format(&buf, formatter.DayReport{Day: v.Day, Tasks: v.Tasks})
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="plan-`+v.Day+`.ics"`)
	_, _ = w.Write([]byte(buf.String()))
}

// Toggle handles POST /tasks/{id}/toggle
func (h *PlanHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.ctrl.Toggle(r.Context(), id) {
		writeErr(w, fmt.Errorf("%w: %s", model.ErrUnknownTaskID, id))
		return
	}
	v := h.ctrl.View()
	task, _ := v.Tasks.Find(id)
	writeJSON(w, http.StatusOK, ToggleResponse{Task: task, CompletionRatio: v.CompletionRatio})
}

// ReviewHandler serves the review flow.
type ReviewHandler struct {
	ctrl     *planner.Controller
	capturer capture.Capturer
}

// Get handles GET /review. It returns 404 until a report exists.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	v := h.ctrl.View()
	if v.Report == nil {
		writeError(w, http.StatusNotFound, "no review yet")
		return
	}
	writeJSON(w, http.StatusOK, v.Report)
}

// SetNarrative handles PUT /review/narrative
func (h *ReviewHandler) SetNarrative(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.ctrl.SetNarrative(req.Text); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// Utterance handles POST /review/utterance
func (h *ReviewHandler) Utterance(w http.ResponseWriter, r *http.Request) {
	utterance, err := captureText(r, h.capturer, h.ctrl.AppendNarrative, h.ctrl.CaptureNarrative)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UtteranceResponse{Utterance: utterance, Session: h.ctrl.View()})
}

// Analyze handles POST /review/analyze
func (h *ReviewHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Analyze(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View().Report)
}

// Retry handles POST /review/retry
func (h *ReviewHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Retry(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// captureText appends the request text, or captures from c when the body has none.
func captureText(
	r *http.Request,
	c capture.Capturer,
	appendFn func(string) error,
	captureFn func(context.Context, capture.Capturer) (string, error),
) (string, error) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return "", err
	}
	if text := strings.TrimSpace(req.Text); text != "" {
		if err := appendFn(text); err != nil {
			return "", err
		}
		return text, nil
	}
	if c == nil {
		return "", capture.ErrNoUtterance
	}
	return captureFn(r.Context(), c)
}
