package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-day-planner/internal/util"
)

// TranscriptExt is the extension of transcript files picked up from the inbox.
const TranscriptExt = ".txt"

// consumedExt is appended to transcripts once read.
const consumedExt = ".done"

// InboxCapturer waits for transcript files dropped into a directory by an
// external speech-to-text tool. Producers should write to a temporary name
// and rename into place; plain writes work too as long as the content arrives
// in one write.
type InboxCapturer struct {
	dir     string
	watcher *fsnotify.Watcher
	events  chan string
	mu      sync.Mutex
}

// NewInboxCapturer watches dir, creating it if needed.
func NewInboxCapturer(dir string) (*InboxCapturer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create inbox: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch inbox %s: %w", dir, err)
	}

	ic := &InboxCapturer{
		dir:     dir,
		watcher: watcher,
		events:  make(chan string, 100),
	}
	go ic.processEvents()
	return ic, nil
}

func (ic *InboxCapturer) processEvents() {
	defer close(ic.events)
	for {
		select {
		case event, ok := <-ic.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != TranscriptExt {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			select {
			case ic.events <- event.Name:
			default:
				util.LogWarnf("capture: inbox event queue full, dropping %s", event.Name)
			}

		case err, ok := <-ic.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Inbox monitoring error: " + err.Error())
		}
	}
}

// CaptureUtterance returns the oldest pending transcript, waiting for one to
// arrive if the inbox is empty.
func (ic *InboxCapturer) CaptureUtterance(ctx context.Context) (string, error) {
	if text, ok, err := ic.takePending(); err != nil || ok {
		return text, err
	}
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case path, ok := <-ic.events:
			if !ok {
				return "", ErrNoUtterance
			}
			text, ok, err := ic.consume(path)
			if err != nil {
				return "", err
			}
			if ok {
				return text, nil
			}
		}
	}
}

// takePending consumes the first transcript already sitting in the inbox.
func (ic *InboxCapturer) takePending() (string, bool, error) {
	matches, err := filepath.Glob(filepath.Join(ic.dir, "*"+TranscriptExt))
	if err != nil {
		return "", false, err
	}
	sort.Strings(matches)
	for _, path := range matches {
		text, ok, err := ic.consume(path)
		if err != nil {
			return "", false, err
		}
		if ok {
			return text, true, nil
		}
	}
	return "", false, nil
}

// consume reads a transcript and marks it done. Missing or empty files are
// skipped: a later event will bring their content.
func (ic *InboxCapturer) consume(path string) (string, bool, error) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read transcript: %w", err)
	}
	text := strings.Join(strings.Fields(string(data)), " ")
	if text == "" {
		return "", false, nil
	}
	if err := os.Rename(path, path+consumedExt); err != nil {
		return "", false, fmt.Errorf("failed to mark transcript consumed: %w", err)
	}
	util.LogDebugf("capture: consumed %s (%d chars)", filepath.Base(path), len(text))
	return text, true, nil
}

func (ic *InboxCapturer) Close() error {
	return ic.watcher.Close()
}
