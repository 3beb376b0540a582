package snapshot

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/ordmap"
)

func newTestAssembly(t *testing.T) *assembly.Assembly {
	t.Helper()
	a := assembly.New("testproj")
	require.NoError(t, a.SetParam("project_dir", t.TempDir()))
	require.NoError(t, a.SetParam("clust_threshold", 0.9))

	s := assembly.NewSample()
	s.Name = "samp1"
	s.Barcode = "TTAGGC"
	s.State = 3
	s.Stats.Set("reads_raw", 15000)
	a.Samples["samp1"] = s
	return a
}

func TestBinaryRoundTrip(t *testing.T) {
	a := newTestAssembly(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, a))
	back, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, a.Name, back.Name)
	assert.Equal(t, a.Version, back.Version)
	assert.Equal(t, a.Params.Keys(), back.Params.Keys())
	v, _ := back.Params.Get("clust_threshold")
	assert.Equal(t, 0.9, v)

	require.Contains(t, back.Samples, "samp1")
	s := back.Samples["samp1"]
	assert.Equal(t, "TTAGGC", s.Barcode)
	assert.Equal(t, 3, s.State)
	reads, _ := s.Stats.Get("reads_raw")
	assert.Equal(t, 15000, reads)
}

func TestSaveThenLoadIsNoOp(t *testing.T) {
	a := newTestAssembly(t)
	require.NoError(t, Save(a))

	loader := &Loader{Quiet: true}
	back, err := loader.Load(context.Background(), Path(a))
	require.NoError(t, err)

	assert.Equal(t, a.Params.Keys(), back.Params.Keys())
	assert.Equal(t, a.Advanced.Keys(), back.Advanced.Keys())
	v, _ := back.Params.Get("clust_threshold")
	assert.Equal(t, 0.9, v)
}

func TestLoaderResolvesExtension(t *testing.T) {
	a := newTestAssembly(t)
	require.NoError(t, Save(a))

	// request without the extension; loader should append it
	base := filepath.Join(a.ProjectDir(), a.Name)
	loader := &Loader{Quiet: true}
	back, err := loader.Load(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, "testproj", back.Name)
}

func TestLoaderNotFoundNamesOriginalRequest(t *testing.T) {
	loader := &Loader{Quiet: true}
	_, err := loader.Load(context.Background(), "missing_project")
	require.Error(t, err)
	require.True(t, assembly.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing_project")
	assert.NotContains(t, err.Error(), Ext,
		"error must name the request, not an internal candidate")
}

func TestDifferNoDriftOnCurrentSchema(t *testing.T) {
	loaded := assembly.New("a")
	ref := assembly.New("a")
	assert.False(t, NeedsMigration(loaded, ref))
}

func TestDifferFlagsMissingParam(t *testing.T) {
	loaded := assembly.New("a")
	ref := assembly.New("a")
	loaded.Params.Delete("clust_threshold")
	assert.True(t, NeedsMigration(loaded, ref))
}

func TestDifferIgnoresExtraParam(t *testing.T) {
	// a removed field (present in loaded, absent in reference) does not by
	// itself flag migration; only additions relative to loaded do
	loaded := assembly.New("a")
	ref := assembly.New("a")
	loaded.Params.Set("obsolete_param", 1)
	assert.False(t, NeedsMigration(loaded, ref))
}

func TestDifferFlagsMissingAdvancedKey(t *testing.T) {
	loaded := assembly.New("a")
	ref := assembly.New("a")
	loaded.Advanced.Delete("random_seed")
	assert.True(t, NeedsMigration(loaded, ref))
}

func TestMigrateAddsMissingParamWithDefault(t *testing.T) {
	a := newTestAssembly(t)
	a.Params.Delete("max_snps_locus")

	m := &Migrator{}
	out, err := m.Migrate(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, assembly.ParamKeys(), out.Params.Keys(),
		"migrated mapping must have exactly the current key set")
	v, ok := out.Params.Get("max_snps_locus")
	require.True(t, ok)
	assert.Equal(t, 20, v, "added key adopts the reference default")

	// surviving values carried over
	v, _ = out.Params.Get("clust_threshold")
	assert.Equal(t, 0.9, v)
}

func TestMigrateDropsRemovedParam(t *testing.T) {
	a := newTestAssembly(t)
	a.Params.Delete("max_snps_locus") // force the added-branch rebuild
	a.Params.Set("legacy_knob", "old-value")

	store, err := journal.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	m := &Migrator{Journal: store}
	out, err := m.Migrate(context.Background(), a)
	require.NoError(t, err)

	assert.False(t, out.Params.Has("legacy_knob"))

	events, err := store.ByAssembly(context.Background(), a.ProjectDir(), "testproj")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, journal.EventMigrated, events[0].Type)
	removed := events[0].Payload["removed"].(map[string]any)
	assert.Equal(t, "old-value", removed["legacy_knob"],
		"dropped value must be recorded before discard")
}

func TestMigrateReplacesAdvancedWholesale(t *testing.T) {
	a := newTestAssembly(t)
	a.Advanced.Set("random_seed", 999)
	a.Advanced.Delete("p5_adapter") // make the differ fire on advanced

	m := &Migrator{}
	out, err := m.Migrate(context.Background(), a)
	require.NoError(t, err)

	v, _ := out.Advanced.Get("random_seed")
	assert.Equal(t, 42, v, "advanced values are never preserved across versions")
	assert.True(t, out.Advanced.Has("p5_adapter"))
}

func TestLoaderMigratesOldSnapshot(t *testing.T) {
	a := newTestAssembly(t)
	a.Params.Delete("max_indels_locus")
	require.NoError(t, Save(a))

	loader := &Loader{Quiet: true}
	back, err := loader.Load(context.Background(), Path(a))
	require.NoError(t, err)
	assert.Equal(t, assembly.ParamKeys(), back.Params.Keys())
	assert.True(t, back.Params.Has("max_indels_locus"))
}

func TestOrdmapSurvivesGobInsideGraph(t *testing.T) {
	a := assembly.New("g")
	a.Outfiles = ordmap.FromPairs(
		ordmap.Pair{Key: "loci", Value: "out/loci.txt"},
		ordmap.Pair{Key: "vcf", Value: "out/final.vcf"},
	)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, a))
	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"loci", "vcf"}, back.Outfiles.Keys())
}
