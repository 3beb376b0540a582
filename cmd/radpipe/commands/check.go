package commands

import (
	"fmt"
	"os"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/sets"
	"github.com/radpipe/radpipe/internal/snapshot"
)

// CheckCmd implements the 'check' command: a dry run of the schema differ
// that reports drift without migrating or writing anything.
type CheckCmd struct {
	Name string `arg:"" help:"Assembly name or snapshot path"`
}

func (c *CheckCmd) Run(_ *Global, _ *CLI) error {
	var loaded *assembly.Assembly
	for _, candidate := range []string{c.Name, c.Name + snapshot.Ext} {
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		a, decErr := snapshot.Decode(f)
		_ = f.Close()
		if decErr != nil {
			continue
		}
		loaded = a
		break
	}
	if loaded == nil {
		return &assembly.NotFoundError{Name: c.Name}
	}

	ref := assembly.New(loaded.Name)
	if !snapshot.NeedsMigration(loaded, ref) {
		fmt.Printf("  %s is up to date (schema %s)\n", loaded.Name, ref.Version)
		return nil
	}

	oldKeys := sets.New(loaded.Params.Keys()...)
	newKeys := sets.New(ref.Params.Keys()...)
	fmt.Printf("  %s needs migration: %s -> %s\n", loaded.Name, loaded.Version, ref.Version)
	for _, k := range sets.Sorted(newKeys.Diff(oldKeys)) {
		v, _ := ref.Params.Get(k)
		fmt.Printf("    would add parameter: %s = %v\n", k, v)
	}
	for _, k := range sets.Sorted(oldKeys.Diff(newKeys)) {
		v, _ := loaded.Params.Get(k)
		fmt.Printf("    would remove parameter: %s = %v\n", k, v)
	}
	return nil
}
