package snapshot

import (
	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/sets"
)

// NeedsMigration reports whether loaded is behind the current schema
// represented by ref. It checks two independent key sets: the parameter
// dictionary and the advanced-options mapping.
//
// Only additions relative to loaded count: a key present in loaded but absent
// from ref (a removed field) does not trigger migration on its own. Removals
// are surfaced by the migrator's own removed-set computation when an addition
// brings it into play.
func NeedsMigration(loaded, ref *assembly.Assembly) bool {
	refParams := sets.New(ref.Params.Keys()...)
	loadedParams := sets.New(loaded.Params.Keys()...)
	if len(refParams.Diff(loadedParams)) > 0 {
		return true
	}

	refAdvanced := sets.New(ref.Advanced.Keys()...)
	loadedAdvanced := sets.New(loaded.Advanced.Keys()...)
	return len(refAdvanced.Diff(loadedAdvanced)) > 0
}
