package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchSettle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest PDF files as they appear in a directory",
	Long: `Watches a directory and ingests every PDF created in it once the file
has stopped changing for the settle period. Files stay in the directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", time.Second, "quiet period before a new file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	in, err := newInbox(args[0], watchSettle)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "Watching %s for PDF files\n", args[0])

	return in.run(ctx, func(path string) {
		res, err := ingestFile(ctx, path)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", filepath.Base(path), err)
			return
		}
		fmt.Fprintf(out, "Ingested %s as %s (%d chunks)\n", res.Document.Filename, res.Document.Id, res.ChunkCount)
	})
}

type inbox struct {
	watcher *fsnotify.Watcher
	settle  time.Duration
}

func newInbox(dir string, settle time.Duration) (*inbox, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &inbox{watcher: w, settle: settle}, nil
}

func (in *inbox) Close() error {
	return in.watcher.Close()
}

// run calls handle once per PDF, after the file has seen no events for the
// settle period. Files moved into the directory arrive as Create events.
// It returns nil when ctx is done.
func (in *inbox) run(ctx context.Context, handle func(path string)) error {
	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-in.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".pdf") {
				continue
			}
			if t, seen := pending[ev.Name]; seen {
				// a timer that already fired is about to deliver the file
				if t.Stop() {
					t.Reset(in.settle)
				}
				continue
			}
			name := ev.Name
			pending[name] = time.AfterFunc(in.settle, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			handle(path)

		case err, ok := <-in.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}
