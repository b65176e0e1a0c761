package importer

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/trackapp/laptelemetry-service-go/log"
	"github.com/trackapp/laptelemetry-service-go/pkg/service"
)

// writes from timing tools arrive in chunks, give them time to settle
const settleDelay = 500 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch dir",
		Short: "watches a directory and imports new CSV files as they appear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0])
		},
	}
	return cmd
}

func runWatch(dir string) error {
	pool, svc, teardown, err := initImport()
	if err != nil {
		return err
	}
	defer teardown()
	defer pool.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("watching for new files", log.String("dir", dir))
	// a create is usually followed by write events for the same file,
	// dedupe so each drop is imported once
	lastImport := map[string]time.Time{}
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".csv") {
				continue
			}
			if last, ok := lastImport[event.Name]; ok &&
				time.Since(last) < 5*time.Second {
				continue
			}
			time.Sleep(settleDelay)
			lastImport[event.Name] = time.Now()
			handleNewFile(ctx, svc, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", log.ErrorField(err))
		}
	}
}

func handleNewFile(ctx context.Context, svc *service.ImportService, file string) {
	if err := importFile(ctx, svc, file); err != nil {
		log.Error("import failed", log.String("file", file), log.ErrorField(err))
	}
}
