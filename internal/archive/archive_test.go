package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/ordmap"
)

func newTestAssembly(t *testing.T, names ...string) *assembly.Assembly {
	t.Helper()
	a := assembly.New("arch")
	require.NoError(t, a.SetParam("project_dir", t.TempDir()))
	for _, n := range names {
		s := assembly.NewSample()
		s.Name = n
		s.Barcode = "ACGT"
		s.State = 2
		s.Stats.Set("reads_raw", 1000)
		sf, _ := s.Statsfiles.Get("s1")
		sf.(*ordmap.Map).Set("reads_raw", 1000)
		a.Samples[n] = s
	}
	return a
}

func TestDocumentShape(t *testing.T) {
	a := newTestAssembly(t, "s1", "s2")
	data, err := Marshal(a)
	require.NoError(t, err)

	doc := ordmap.New()
	require.NoError(t, yaml.Unmarshal(data, doc))
	assert.Equal(t, []string{"assembly", "samples"}, doc.Keys(),
		"exactly two top-level sections, in order")

	sec, _ := doc.Get("assembly")
	section := sec.(*ordmap.Map)
	assert.Equal(t, assembly.RootFieldNames(), section.Keys())

	// samples reduced to the key list in the assembly section
	keys, _ := section.Get("samples")
	assert.Equal(t, []any{"s1", "s2"}, keys)

	// full records in the samples section
	sam, _ := doc.Get("samples")
	assert.Equal(t, []string{"s1", "s2"}, sam.(*ordmap.Map).Keys())
}

func TestRoundTrip(t *testing.T) {
	a := newTestAssembly(t, "s1", "s2")
	require.NoError(t, a.SetParam("clust_threshold", 0.9))
	require.NoError(t, a.SetParam("datatype", "gbs"))

	codec := &Codec{Quiet: true}
	ctx := context.Background()
	require.NoError(t, codec.Save(ctx, a))

	back, err := codec.Load(ctx, filepath.Join(a.ProjectDir(), a.Name))
	require.NoError(t, err)

	assert.Equal(t, "arch", back.Name)
	assert.ElementsMatch(t, []string{"s1", "s2"}, back.SampleNames())
	v, _ := back.Params.Get("clust_threshold")
	assert.Equal(t, 0.9, v)
	v, _ = back.Params.Get("datatype")
	assert.Equal(t, "gbs", v)

	// every sample key holds a populated record, never a placeholder
	for _, n := range back.SampleNames() {
		s := back.Samples[n]
		require.NotNil(t, s)
		assert.Equal(t, n, s.Name)
		assert.Equal(t, "ACGT", s.Barcode)
		assert.Equal(t, 2, s.State)
		reads, _ := s.Stats.Get("reads_raw")
		assert.Equal(t, 1000, reads)
	}

	// aggregate tables re-derived from the sample set
	require.Contains(t, back.Statsfiles, "s1")
	assert.Len(t, back.Statsfiles["s1"].Rows, 2)
}

func TestLoadEmptySampleList(t *testing.T) {
	a := newTestAssembly(t)
	codec := &Codec{Quiet: true}
	ctx := context.Background()
	require.NoError(t, codec.Save(ctx, a))

	back, err := codec.Load(ctx, Path(a))
	require.NoError(t, err, "schema introspection must not index into an empty collection")
	assert.Empty(t, back.Samples)
	assert.Empty(t, back.Statsfiles)
}

func TestLoadNotFoundNamesOriginalRequest(t *testing.T) {
	codec := &Codec{Quiet: true}
	_, err := codec.Load(context.Background(), "missing_project")
	require.Error(t, err)
	require.True(t, assembly.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing_project")
	assert.NotContains(t, err.Error(), Ext)
}

func TestLoadResolvesExtension(t *testing.T) {
	a := newTestAssembly(t, "only")
	codec := &Codec{Quiet: true}
	ctx := context.Background()
	require.NoError(t, codec.Save(ctx, a))

	back, err := codec.Load(ctx, filepath.Join(a.ProjectDir(), a.Name))
	require.NoError(t, err)
	assert.Equal(t, "arch", back.Name)
}

func TestLoadMalformedDocumentIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assembly:\n  dirs: {}\n"), 0o644))

	codec := &Codec{Quiet: true}
	_, err := codec.Load(context.Background(), path)
	require.Error(t, err)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, path, schemaErr.Path)
}

func TestLoadAbsorbsRootDrift(t *testing.T) {
	a := newTestAssembly(t, "s1")
	data, err := Marshal(a)
	require.NoError(t, err)

	// simulate an older file with a root key the current schema dropped
	doc := ordmap.New()
	require.NoError(t, yaml.Unmarshal(data, doc))
	sec, _ := doc.Get("assembly")
	sec.(*ordmap.Map).Set("svd_hdf5_checkpoints", "legacy.h5")

	mutated, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(a.ProjectDir(), "drift.yaml")
	require.NoError(t, os.WriteFile(path, mutated, 0o644))

	store, err := journal.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	codec := &Codec{Quiet: true, Journal: store}
	ctx := context.Background()
	back, err := codec.Load(ctx, path)
	require.NoError(t, err, "lost keys are drift, not failure")
	assert.Equal(t, "arch", back.Name)

	events, err := store.ByAssembly(ctx, back.ProjectDir(), "arch")
	require.NoError(t, err)
	var drift *journal.Event
	for i := range events {
		if events[i].Type == journal.EventDrift {
			drift = &events[i]
		}
	}
	require.NotNil(t, drift, "drift must be journaled")
	keys := drift.Payload["keys"].([]any)
	assert.Contains(t, keys, "svd_hdf5_checkpoints")
}

func TestLoadAbsorbsUnknownParam(t *testing.T) {
	a := newTestAssembly(t, "s1")
	data, err := Marshal(a)
	require.NoError(t, err)

	doc := ordmap.New()
	require.NoError(t, yaml.Unmarshal(data, doc))
	sec, _ := doc.Get("assembly")
	params, _ := sec.(*ordmap.Map).Get("paramsdict")
	params.(*ordmap.Map).Set("preview_truncate", 4)

	mutated, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(a.ProjectDir(), "oldparams.yaml")
	require.NoError(t, os.WriteFile(path, mutated, 0o644))

	codec := &Codec{Quiet: true}
	back, err := codec.Load(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, back.Params.Has("preview_truncate"))
	assert.Equal(t, assembly.ParamKeys(), back.Params.Keys(),
		"paramsdict key set equals the current schema after load")
}

func TestArchiveIsDiffFriendly(t *testing.T) {
	a := newTestAssembly(t, "s1")
	one, err := Marshal(a)
	require.NoError(t, err)
	two, err := Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, string(one), string(two), "marshalling must be deterministic")
	assert.True(t, strings.HasPrefix(string(one), "assembly:"))
}
