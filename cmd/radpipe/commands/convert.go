package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/radpipe/radpipe/internal/archive"
	"github.com/radpipe/radpipe/internal/snapshot"
)

// ExportCmd implements the 'export' command: binary snapshot in, portable
// archive out.
type ExportCmd struct {
	Name string `arg:"" help:"Assembly name or snapshot path"`
}

func (e *ExportCmd) Run(_ *Global, root *CLI) error {
	rt, err := newRuntime(root)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := context.Background()
	loader := &snapshot.Loader{
		Log:     slog.Default(),
		Journal: rt.Journal,
		Metrics: rt.Metrics,
		Quiet:   rt.Quiet,
	}
	a, err := loader.Load(ctx, e.Name)
	if err != nil {
		return err
	}

	codec := &archive.Codec{
		Log:     slog.Default(),
		Journal: rt.Journal,
		Metrics: rt.Metrics,
		Quiet:   rt.Quiet,
	}
	if err := codec.Save(ctx, a); err != nil {
		return err
	}
	fmt.Printf("  wrote archive: %s\n", archive.Path(a))
	return nil
}

// ImportCmd implements the 'import' command: text archive in, binary
// snapshot out.
type ImportCmd struct {
	Path string `arg:"" help:"Archive name or path"`
}

func (i *ImportCmd) Run(_ *Global, root *CLI) error {
	rt, err := newRuntime(root)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := context.Background()
	codec := &archive.Codec{
		Log:     slog.Default(),
		Journal: rt.Journal,
		Metrics: rt.Metrics,
		Quiet:   rt.Quiet,
	}
	a, err := codec.Load(ctx, i.Path)
	if err != nil {
		return err
	}

	if err := snapshot.Save(a); err != nil {
		return err
	}
	fmt.Printf("  wrote snapshot: %s\n", snapshot.Path(a))
	return nil
}
