package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/graphsync/metrics"
	"github.com/c360studio/graphsync/notify"
	"github.com/c360studio/graphsync/sparql"
	"github.com/c360studio/graphsync/sync"
)

// watchDebounce is how long to wait for further file events before
// re-syncing.
const watchDebounce = 500 * time.Millisecond

func newSyncCmd(opts *options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the triplestore with the local corpus",
		Long: `Sync validates the local corpus, loads the remote state, computes the
set of added, deleted, and modified datasets, and applies the changes:
stale datasets and their metadata graphs are dropped, then added and
modified datasets are written with freshly built metadata graphs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.config.Validate(); err != nil {
				return err
			}
			runner, err := newSyncRunner(opts)
			if err != nil {
				return err
			}
			defer runner.close()

			if err := runner.runOnce(cmd.Context()); err != nil {
				return err
			}
			if watch {
				return runner.watch(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-sync whenever the corpus changes")
	return cmd
}

// syncRunner wires one configured synchronization pipeline, reused across
// watch-mode runs.
type syncRunner struct {
	opts      *options
	store     *sparql.Client
	publisher *notify.Publisher
	recorder  *metrics.Recorder
	logger    *slog.Logger
}

func newSyncRunner(opts *options) (*syncRunner, error) {
	store, err := newStoreClient(opts)
	if err != nil {
		return nil, err
	}
	runner := &syncRunner{opts: opts, store: store, logger: opts.logger}

	if opts.config.Events.Enabled {
		publisher, err := notify.Connect(opts.config.Events.URL, opts.config.Events.Subject, opts.logger)
		if err != nil {
			return nil, err
		}
		runner.publisher = publisher
	}
	if opts.config.Metrics.Enabled {
		runner.recorder = metrics.NewRecorder()
		go func() {
			if err := runner.recorder.Serve(opts.config.Metrics.Listen); err != nil {
				opts.logger.Error("metrics listener stopped", slog.String("error", err.Error()))
			}
		}()
	}
	return runner, nil
}

func (r *syncRunner) close() {
	r.publisher.Close()
}

// runOnce executes one full validate-then-sync session.
func (r *syncRunner) runOnce(ctx context.Context) error {
	start := time.Now()

	if err := runValidation(r.opts); err != nil {
		return err
	}

	corpus, err := sync.ScanCorpus(r.opts.config.Corpus.DataDir)
	if err != nil {
		return err
	}
	r.logger.Info("local corpus scanned", slog.Int("datasets", corpus.Len()))

	orchestrator := sync.NewOrchestrator(r.store, sync.Options{
		DropOnStart:  r.opts.config.Sync.DropOnStart,
		OntologyDir:  r.opts.config.Corpus.OntologyDir,
		UnionDefault: r.opts.config.Sync.UnionDefault,
		Logger:       r.logger,
	})
	report, err := orchestrator.Run(ctx, corpus)
	if err != nil {
		r.recorder.ObserveFailure()
		return err
	}
	r.recorder.ObserveSession(report, time.Since(start))

	fmt.Print(report.String())
	if err := r.publisher.PublishReport(report); err != nil {
		r.logger.Warn("report publication failed", slog.String("error", err.Error()))
	}
	return nil
}

// watch re-runs the sync whenever the corpus changes, debounced.
func (r *syncRunner) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	root := r.opts.config.Corpus.DataDir
	if err := addRecursive(watcher, root); err != nil {
		return err
	}
	r.logger.Info("watching corpus", slog.String("dir", root))

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if filepath.Ext(event.Name) != ".ttl" {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", slog.String("error", err.Error()))
		case <-pending:
			if err := r.runOnce(ctx); err != nil {
				r.logger.Error("sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func newStoreClient(opts *options) (*sparql.Client, error) {
	return sparql.NewClient(sparql.Options{
		Endpoint:           opts.config.Store.Endpoint,
		UpdateEndpoint:     opts.config.Store.UpdateEndpoint,
		GraphStoreEndpoint: opts.config.Store.GraphStoreEndpoint,
		Credentials: sparql.Credentials{
			Username: opts.config.Store.Username,
			Password: opts.config.Store.Password,
		},
		Timeout: opts.config.Store.Timeout,
		Logger:  opts.logger,
	})
}
