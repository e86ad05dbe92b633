package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-day-planner/internal/api"
	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/data/capture"
	"github.com/penwyp/go-day-planner/internal/util"
)

var (
	serveListen string
	serveInbox  bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner session over HTTP",
		Long: `Run an HTTP API over the day's session for other front ends.

The session rolls over to a new day on the configured cron schedule
(rollover, default midnight). With --inbox, utterance requests without text
wait for a transcript in the inbox directory.

Examples:
  go-day-planner serve
  go-day-planner serve --listen :9090 --storage sqlite
  curl -X PUT localhost:8080/plan/text -d '{"text":"gym at 7am for an hour"}'
  curl -X POST localhost:8080/plan/generate`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"HTTP listen address (default from config, 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveInbox, "inbox", false,
		"Capture utterances from the inbox directory")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	opts := api.Options{Location: util.GetTimeProvider().Location()}
	if serveInbox {
		ic, err := capture.NewInboxCapturer(a.cfg.InboxDir)
		if err != nil {
			return err
		}
		defer ic.Close()
		opts.Capturer = ic
	}

	// A fixed --date pins the session, so there is nothing to roll over
	if day == "" {
		rs, err := planner.NewRolloverScheduler(a.ctrl, util.GetTimeProvider(), a.cfg.Rollover)
		if err != nil {
			return err
		}
		rs.Start()
		defer rs.Stop()
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on http://%s\n", a.ctrl.Day(), addr)
	return api.Serve(ctx, addr, api.NewRouter(a.ctrl, opts))
}
