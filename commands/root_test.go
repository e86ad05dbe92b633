package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-day-planner/internal/application/planner"
	"github.com/penwyp/go-day-planner/internal/core/model"
	"github.com/penwyp/go-day-planner/internal/presentation/formatter"
	"github.com/penwyp/go-day-planner/internal/testing/fixtures"
)

const testPlan = "9am team sync for one hour, then two hours writing the report"

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}

func TestRootCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
	}{
		{"debug", "false"},
		{"config", ""},
		{"data-dir", ""},
		{"storage", ""},
		{"timezone", ""},
		{"date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"plan", "show", "toggle", "today", "review", "serve"} {
		assert.True(t, names[want], want)
	}

	output := planCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "summary", reviewCmd.Flags().Lookup("output").DefValue)
	assert.Equal(t, sourceInbox, planCmd.Flags().Lookup("source").DefValue)
}

func TestResolveTaskRef(t *testing.T) {
	tl := model.Timeline{
		{ID: "a", Title: "first", StartTime: model.MustClock(9, 0), EndTime: model.MustClock(10, 0)},
		{ID: "b", Title: "second", StartTime: model.MustClock(10, 0), EndTime: model.MustClock(11, 0)},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"#1", "a", false},
		{"#2", "b", false},
		{" b ", "b", false},
		{"anything", "anything", false},
		{"#0", "", true},
		{"#3", "", true},
		{"#x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveTaskRef(tl, tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrUnknownTaskID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputText(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plan.txt")
	require.NoError(t, os.WriteFile(file, []byte("9am standup\n\n  lunch at noon\n"), 0644))

	text, err := inputText([]string{" gym", "at 6pm "}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "gym at 6pm", text)

	text, err = inputText(nil, file, nil)
	require.NoError(t, err)
	assert.Equal(t, "9am standup lunch at noon", text)

	text, err = inputText([]string{"gym at 6pm"}, file, nil)
	require.NoError(t, err)
	assert.Equal(t, "9am standup lunch at noon gym at 6pm", text)

	text, err = inputText(nil, "-", strings.NewReader("read at 8pm\n"))
	require.NoError(t, err)
	assert.Equal(t, "read at 8pm", text)

	_, err = inputText(nil, filepath.Join(dir, "missing.txt"), nil)
	assert.Error(t, err)
}

func TestLayoutStyle(t *testing.T) {
	style, err := layoutStyle("")
	require.NoError(t, err)
	assert.Equal(t, 0, style)

	style, err = layoutStyle("Minimal")
	require.NoError(t, err)
	assert.Equal(t, 1, style)

	_, err = layoutStyle("fancy")
	assert.Error(t, err)
}

// resetFlags restores every package-level flag variable to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags() {
	debug = false
	configPath, dataDir, storage, timezone, day = "", "", "", "", ""
	showOutput = "table"
	planFile, planListen, planSource, planOutput = "", 0, sourceInbox, "table"
	toggleOutput = "table"
	reviewFile, reviewListen, reviewSource, reviewRetry, reviewOutput = "", 0, sourceInbox, false, "summary"
}

// runCLI executes the command tree in-process against a private data dir.
func runCLI(t *testing.T, dataPath, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	base := []string{"--data-dir", dataPath, "--timezone", "UTC", "--date", "2024-01-15"}
	rootCmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_PlanToggleShowReview(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "data")

	_, err := runCLI(t, data, "", "plan")
	assert.ErrorIs(t, err, planner.ErrEmptyPlanText)

	out, err := runCLI(t, data, "", "plan", "--output", "json", testPlan)
	require.NoError(t, err)
	var report formatter.DayReport
	require.NoError(t, sonic.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, "2024-01-15", report.Day)
	require.Len(t, report.Tasks, 2)
	assert.Equal(t, "09:00", report.Tasks[0].StartTime.String())
	assert.Equal(t, "10:00", report.Tasks[0].EndTime.String())
	assert.Equal(t, "12:00", report.Tasks[1].EndTime.String())

	out, err = runCLI(t, data, "", "toggle", "--output", "csv", "#1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], ",completed"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",pending"), lines[2])

	_, err = runCLI(t, data, "", "toggle", "nope")
	assert.ErrorIs(t, err, model.ErrUnknownTaskID)

	out, err = runCLI(t, data, "", "show", "--output", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Day Summary: 2024-01-15")
	assert.Contains(t, out, "Tasks: 1/2 completed (50%)")

	_, err = runCLI(t, data, "", "review")
	assert.ErrorIs(t, err, planner.ErrEmptyNarrative)

	out, err = runCLI(t, data, "", "review", "Team sync went well but I never started the report.")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: ")

	// A scored day is printed again, not re-analyzed
	again, err := runCLI(t, data, "", "review")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = runCLI(t, data, "", "review", "something new")
	assert.ErrorIs(t, err, planner.ErrInvalidTransition)

	out, err = runCLI(t, data, "", "review", "--retry")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: ")
}

func TestCommands_PlanFromStdinUtterances(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "data")

	out, err := runCLI(t, data, "lunch at noon for an hour.\ngym at 6pm\n",
		"plan", "--listen", "2", "--source", "stdin", "--output", "json")
	require.NoError(t, err)
	var report formatter.DayReport
	require.NoError(t, sonic.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, "lunch at noon for an hour. gym at 6pm", report.PlanText)
	require.Len(t, report.Tasks, 2)
	assert.Equal(t, "12:00", report.Tasks[0].StartTime.String())
	assert.Equal(t, "18:00", report.Tasks[1].StartTime.String())

	// Regenerating replaces the stored plan
	out, err = runCLI(t, data, "", "plan", "--output", "json", "read at 9pm")
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal([]byte(out), &report), out)
	assert.Len(t, report.Tasks, 1)
}

func TestCommands_NoSchedulableContent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "data")

	_, err := runCLI(t, data, "", "plan", "what a lovely day")
	assert.ErrorIs(t, err, model.ErrNoSchedulableContent)
}

func TestCommands_InvalidOptions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "data")

	_, err := runCLI(t, data, "", "show", "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = runCLI(t, data, "", "show", "--storage", "postgres")
	assert.ErrorContains(t, err, "unsupported storage")

	_, err = runCLI(t, data, "", "plan", "--listen", "1", "--source", "radio", "gym at 6pm")
	assert.ErrorContains(t, err, "unknown utterance source")
}

func TestCommands_ShowStoredDay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := filepath.Join(t.TempDir(), "data")
	require.NoError(t, fixtures.NewTestDataGenerator(data).GenerateDay("2024-01-15", "a typical day", fixtures.SampleTasks()))

	out, err := runCLI(t, data, "", "show", "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-15,gym,07:00,08:00,"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ",completed"), lines[1])

	out, err = runCLI(t, data, "", "toggle", "--output", "summary", "dinner", "#2")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks: 3/4 completed (75%)")
}

func TestCommands_PlanFromInbox(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	inbox := filepath.Join(t.TempDir(), "inbox")
	t.Setenv("DAYPLAN_INBOX_DIR", inbox)
	data := filepath.Join(t.TempDir(), "data")

	gen := fixtures.NewTestDataGenerator(data)
	require.NoError(t, gen.GenerateTranscript(inbox, "001", "Standup at 9am for 15 minutes."))

	out, err := runCLI(t, data, "", "plan", "--listen", "1", "--output", "json")
	require.NoError(t, err)
	var report formatter.DayReport
	require.NoError(t, sonic.Unmarshal([]byte(out), &report), out)
	require.Len(t, report.Tasks, 1)
	assert.Equal(t, "09:15", report.Tasks[0].EndTime.String())

	_, err = os.Stat(filepath.Join(inbox, "001.txt.done"))
	assert.NoError(t, err, "transcript is marked consumed")
}
