package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/core/parser"
	"github.com/penwyp/go-day-planner/internal/core/review"
	"github.com/penwyp/go-day-planner/internal/core/timeline"
	"github.com/penwyp/go-day-planner/internal/data/capture"
	"github.com/penwyp/go-day-planner/internal/data/store"
	"github.com/penwyp/go-day-planner/internal/util"
)

const planText = "9am team sync for one hour, then two hours writing the report"

func newTestRouter(t *testing.T, c capture.Capturer) http.Handler {
	t.Helper()
	ctrl, err := planner.NewController(
		&planner.Config{Day: "2024-01-15", GenerateTimeout: time.Second, AnalyzeTimeout: time.Second},
		parser.NewRuleParser(parser.Options{NewID: parser.SequentialIDs("t")}),
		timeline.NewStore(),
		review.NewAnalyzer(review.DefaultWeights()),
		nil,
	)
	require.NoError(t, err)
	return NewRouter(ctrl, Options{Capturer: c, Location: time.UTC})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-01-15", body["day"])
}

func TestPlanAndReviewFlow(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/plan/generate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, planner.ErrEmptyPlanText.Error(), decode[ErrorResponse](t, rec).Error)

	rec = do(t, h, http.MethodPut, "/plan/text", `{"text":"`+planText+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planText, decode[planner.View](t, rec).PlanText)

	rec = do(t, h, http.MethodPost, "/plan/generate", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[planner.View](t, rec)
	assert.Equal(t, planner.PlanPresenting, v.PlanState)
	require.Len(t, v.Tasks, 2)

	rec = do(t, h, http.MethodPost, "/plan/generate", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/tasks/t-1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decode[ToggleResponse](t, rec)
	assert.Equal(t, model.StatusCompleted, toggled.Task.Status)
	assert.InDelta(t, 0.5, toggled.CompletionRatio, 1e-9)

	rec = do(t, h, http.MethodPost, "/tasks/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/timeline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tl := decode[TimelineResponse](t, rec)
	assert.Equal(t, 1, tl.CompletedCount)
	assert.Equal(t, 2, tl.TotalCount)
	assert.Equal(t, "09:00", tl.Tasks[0].StartTime.String())

	rec = do(t, h, http.MethodGet, "/review", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/review/analyze", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/review/narrative", `{"text":"Team sync went well."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/review/utterance", `{"text":"The report took longer than planned."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ur := decode[UtteranceResponse](t, rec)
	assert.Equal(t, "Team sync went well. The report took longer than planned.", ur.Session.Narrative)

	rec = do(t, h, http.MethodPost, "/review/analyze", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[model.ReviewReport](t, rec)
	assert.Equal(t, 2, report.TotalCount)
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.LessOrEqual(t, report.Score, 100)

	rec = do(t, h, http.MethodGet, "/review", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/review/narrative", `{"text":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/review/retry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planner.ReviewCapturing, decode[planner.View](t, rec).ReviewState)

	rec = do(t, h, http.MethodPost, "/plan/edit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planner.PlanCapturing, decode[planner.View](t, rec).PlanState)

	rec = do(t, h, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[planner.View](t, rec).Tasks, 2)
}

func TestGenerateNoSchedulableContent(t *testing.T) {
	h := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/plan/text", `{"text":"what a lovely day"}`).Code)

	rec := do(t, h, http.MethodPost, "/plan/generate", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "no schedulable content")
}

func TestBadBodies(t *testing.T) {
	h := newTestRouter(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/plan/text", `{"text":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/plan/text", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/plan/utterance", "").Code,
		"no text and no capturer")
}

func TestPlanUtteranceFromCapturer(t *testing.T) {
	c := capture.NewReaderCapturer(strings.NewReader("lunch at noon for an hour\n"))
	h := newTestRouter(t, c)

	rec := do(t, h, http.MethodPost, "/plan/utterance", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ur := decode[UtteranceResponse](t, rec)
	assert.Equal(t, "lunch at noon for an hour", ur.Utterance)
	assert.Equal(t, "lunch at noon for an hour", ur.Session.PlanText)

	rec = do(t, h, http.MethodPost, "/plan/utterance", `{"text":"gym at 6pm"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lunch at noon for an hour gym at 6pm", decode[UtteranceResponse](t, rec).Session.PlanText)
}

func TestCancelWithoutGeneration(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodPost, "/plan/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[map[string]bool](t, rec)["cancelled"])
}

func TestTimelineICS(t *testing.T) {
	h := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/plan/text", `{"text":"`+planText+`"}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/plan/generate", "").Code)

	rec := do(t, h, http.MethodGet, "/timeline.ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "DTSTART:20240115T090000Z")
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{planner.ErrEmptyNarrative, http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{planner.ErrOperationInFlight, http.StatusConflict},
		{planner.ErrInvalidTransition, http.StatusConflict},
		{model.ErrInsufficientInput, http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[ErrorResponse](t, rec).Error)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLogger_RecordsRequestID(t *testing.T) {
	var buf bytes.Buffer
	util.SetLogger(util.NewWriterLogger(&buf, "info", util.FormatText))
	t.Cleanup(func() { util.SetLogger(nil) })

	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	line := buf.String()
	assert.Contains(t, line, "[INFO] api: GET /health")
	assert.Contains(t, line, "request_id="+rec.Header().Get("X-Request-ID"))
	assert.Contains(t, line, "status=200")
}
