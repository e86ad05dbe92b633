// Package capture provides speech capture adapters. Recognition itself is
// done elsewhere; these adapters only collect the resulting transcripts.
package capture

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// Capturer yields one utterance per call.
type Capturer interface {
	CaptureUtterance(ctx context.Context) (string, error)
}

// ErrNoUtterance is returned when the source ended without text.
var ErrNoUtterance = errors.New("no utterance captured")

// ReaderCapturer reads one non-empty line per utterance, e.g. from stdin.
type ReaderCapturer struct {
	lines chan lineResult
}

type lineResult struct {
	text string
	err  error
}

// NewReaderCapturer starts reading r in the background.
func NewReaderCapturer(r io.Reader) *ReaderCapturer {
	rc := &ReaderCapturer{lines: make(chan lineResult)}
	go rc.scan(r)
	return rc
}

func (rc *ReaderCapturer) scan(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rc.lines <- lineResult{text: line}
	}
	err := scanner.Err()
	if err == nil {
		err = ErrNoUtterance
	}
	for {
		rc.lines <- lineResult{err: err}
	}
}

// CaptureUtterance implements Capturer.
func (rc *ReaderCapturer) CaptureUtterance(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-rc.lines:
		return res.text, res.err
	}
}
