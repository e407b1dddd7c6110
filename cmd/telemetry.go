package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/planworks/internal/config"
	"github.com/papapumpkin/planworks/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "View JSONL telemetry events",
	Long: `Reads and formats the JSONL telemetry file configured by --telemetry,
telemetry_path or PLANWORKS_TELEMETRY_PATH.

With --run, shows only one invocation's events; --kind filters by event kind.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("run", "", "show only events of this run id (prefix match)")
	telemetryCmd.Flags().String("kind", "", "show only events of this kind")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

// eventFilter selects which events are printed.
type eventFilter struct {
	run  string
	kind string
}

func (f eventFilter) match(evt telemetry.Event) bool {
	if f.run != "" && !strings.HasPrefix(evt.RunID, f.run) {
		return false
	}
	return f.kind == "" || evt.Kind == f.kind
}

func runTelemetry(cmd *cobra.Command, _ []string) error {
	// Reading telemetry must not append to it, so no session is opened.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TelemetryPath == "" {
		return fmt.Errorf("telemetry: no file configured (set --telemetry or telemetry_path)")
	}
	path := cfg.TelemetryPath

	var filter eventFilter
	filter.run, _ = cmd.Flags().GetString("run")
	filter.kind, _ = cmd.Flags().GetString("kind")
	follow, _ := cmd.Flags().GetBool("follow")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	// Print all existing events.
	lr := &lineReader{r: bufio.NewReader(f)}
	if err := lr.drain(cmd.OutOrStdout(), filter); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		if line := strings.TrimSpace(lr.partial); line != "" {
			printEvent(cmd.OutOrStdout(), line, filter)
		}
		return nil
	}
	return tailFollow(cmd, lr, path, filter)
}

// lineReader yields complete JSONL lines, holding back a trailing partial
// line until the writer finishes it.
type lineReader struct {
	r       *bufio.Reader
	partial string
}

// drain prints every complete line available.
func (lr *lineReader) drain(w io.Writer, filter eventFilter) error {
	for {
		chunk, err := lr.r.ReadString('\n')
		lr.partial += chunk
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line := strings.TrimSpace(lr.partial); line != "" {
			printEvent(w, line, filter)
		}
		lr.partial = ""
	}
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(cmd *cobra.Command, lr *lineReader, path string, filter eventFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := lr.drain(cmd.OutOrStdout(), filter); err != nil {
				return fmt.Errorf("telemetry: read %s: %w", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("telemetry: watch %s: %w", path, err)
		}
	}
}

// printEvent decodes a JSONL line and prints a human-readable representation.
func printEvent(w io.Writer, line string, filter eventFilter) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if !filter.match(evt) {
		return
	}

	ts := evt.Timestamp.Format(time.DateTime)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.RunID != "" {
		run := evt.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		parts = append(parts, fmt.Sprintf("run=%s", run))
	}
	if evt.Project != "" {
		parts = append(parts, fmt.Sprintf("project=%q", evt.Project))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
