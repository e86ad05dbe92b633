package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/config"
	"github.com/penwyp/go-day-planner/internal/core/parser"
	"github.com/penwyp/go-day-planner/internal/core/review"
	"github.com/penwyp/go-day-planner/internal/core/timeline"
	"github.com/penwyp/go-day-planner/internal/data/capture"
	"github.com/penwyp/go-day-planner/internal/data/store"
	"github.com/penwyp/go-day-planner/internal/presentation/formatter"
	"github.com/penwyp/go-day-planner/internal/util"
)

// Utterance sources for --listen
const (
	sourceInbox = "inbox"
	sourceStdin = "stdin"
)

// app wires the planner session for one command invocation.
type app struct {
	cfg      *config.Config
	repo     store.Repository
	timeline *timeline.Store
	ctrl     *planner.Controller
}

// newApp loads configuration and restores the session of the selected day.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	repo, err := store.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	tl := timeline.NewStore()
	ctrl, err := planner.NewController(
		&planner.Config{
			Day:             day,
			GenerateTimeout: cfg.GenerateTimeout,
			AnalyzeTimeout:  cfg.AnalyzeTimeout,
		},
		parser.NewRuleParser(parser.Options{DefaultDuration: cfg.DefaultDuration}),
		tl,
		review.NewAnalyzer(cfg.Weights),
		repo,
	)
	if err != nil {
		repo.Close()
		return nil, err
	}
	if err := ctrl.Restore(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return &app{cfg: cfg, repo: repo, timeline: tl, ctrl: ctrl}, nil
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		util.LogWarnf("failed to close storage: %v", err)
	}
}

// report projects the session for the formatters.
func (a *app) report() formatter.DayReport {
	v := a.ctrl.View()
	return formatter.DayReport{
		Day:       v.Day,
		PlanText:  v.PlanText,
		Narrative: v.Narrative,
		Tasks:     v.Tasks,
		Review:    v.Report,
	}
}

// render writes the session in the named output format.
func (a *app) render(w io.Writer, format string) error {
	f, err := formatter.New(format, util.GetTimeProvider().Location())
	if err != nil {
		return err
	}
	return f.Format(w, a.report())
}

// capturer returns the utterance source for --listen.
func (a *app) capturer(source string, in io.Reader) (capture.Capturer, func(), error) {
	switch strings.ToLower(source) {
	case "", sourceInbox:
		ic, err := capture.NewInboxCapturer(a.cfg.InboxDir)
		if err != nil {
			return nil, nil, err
		}
		return ic, func() { ic.Close() }, nil
	case sourceStdin:
		return capture.NewReaderCapturer(in), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown utterance source %q (want %s or %s)", source, sourceInbox, sourceStdin)
	}
}

// listen captures n utterances with captureFn, echoing each one to w.
func listen(ctx context.Context, w io.Writer, c capture.Capturer, n int,
	captureFn func(context.Context, capture.Capturer) (string, error)) error {
	for i := 0; i < n; i++ {
		utterance, err := captureFn(ctx, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, n, utterance)
	}
	return nil
}

// inputText joins positional args, or reads file ("-" for stdin) when set.
func inputText(args []string, file string, stdin io.Reader) (string, error) {
	if file == "" {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(expandPath(file))
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	text := strings.Join(strings.Fields(string(data)), " ")
	if extra := strings.TrimSpace(strings.Join(args, " ")); extra != "" {
		text = strings.TrimSpace(text + " " + extra)
	}
	return text, nil
}

func outputFormats() []string {
	return formatter.Formats
}
