package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/radpipe/radpipe/internal/archive"
	"github.com/radpipe/radpipe/internal/logfields"
	"github.com/radpipe/radpipe/internal/watch"
)

// WatchCmd implements the 'watch' command: revalidate an archive whenever it
// changes on disk, until interrupted.
type WatchCmd struct {
	Path string `arg:"" help:"Archive path to watch"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	rt, err := newRuntime(root)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec := &archive.Codec{
		Log:     slog.Default(),
		Journal: rt.Journal,
		Metrics: rt.Metrics,
		Quiet:   true,
	}
	onChange := func(path string) {
		a, err := codec.Load(ctx, path)
		if err != nil {
			slog.Warn("archive failed validation", logfields.Path(path), logfields.Error(err))
			return
		}
		slog.Info("archive reloaded",
			logfields.Assembly(a.Name),
			logfields.Count(len(a.Samples)))
	}

	watcher, err := watch.New(w.Path, slog.Default(), onChange)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
