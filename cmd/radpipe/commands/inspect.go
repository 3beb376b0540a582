package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/radpipe/radpipe/internal/archive"
	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/snapshot"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Name string `arg:"" help:"Assembly name or path (snapshot or archive)"`
}

func (i *InspectCmd) Run(_ *Global, root *CLI) error {
	rt, err := newRuntime(root)
	if err != nil {
		return err
	}
	defer rt.close()

	a, err := loadAny(context.Background(), rt, i.Name)
	if err != nil {
		return err
	}
	printSummary(a)
	return nil
}

// loadAny tries the fast binary path first and falls back to the text
// archive. Only when neither resolves is the original request reported as
// not found.
func loadAny(ctx context.Context, rt *runtime, name string) (*assembly.Assembly, error) {
	loader := &snapshot.Loader{
		Log:     slog.Default(),
		Journal: rt.Journal,
		Metrics: rt.Metrics,
		Quiet:   rt.Quiet,
	}
	a, err := loader.Load(ctx, name)
	if err == nil {
		return a, nil
	}
	if !assembly.IsNotFound(err) {
		return nil, err
	}

	codec := &archive.Codec{
		Log:     slog.Default(),
		Journal: rt.Journal,
		Metrics: rt.Metrics,
		Quiet:   rt.Quiet,
	}
	a, aerr := codec.Load(ctx, name)
	if aerr == nil {
		return a, nil
	}
	if assembly.IsNotFound(aerr) {
		return nil, &assembly.NotFoundError{Name: name}
	}
	return nil, aerr
}

func printSummary(a *assembly.Assembly) {
	fmt.Printf("assembly: %s\n", a.Name)
	fmt.Printf("version:  %s\n", a.Version)
	fmt.Printf("samples:  %d\n", len(a.Samples))
	for _, n := range a.SampleNames() {
		s := a.Samples[n]
		fmt.Printf("  %s (state %d)\n", n, s.State)
	}

	fmt.Println("parameters:")
	a.Params.Range(func(k string, v any) bool {
		fmt.Printf("  %-24s %v\n", k, v)
		return true
	})

	if len(a.Statsfiles) > 0 {
		cats := make([]string, 0, len(a.Statsfiles))
		for c := range a.Statsfiles {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Printf("stats %s:\n%s", c, a.Statsfiles[c].String())
		}
	}
}
