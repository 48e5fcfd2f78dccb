package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r testRecord) EntityID() string { return r.ID }

func (r testRecord) WithID(id string) testRecord {
	r.ID = id
	return r
}

func numberedDefaults() func(testRecord) testRecord {
	n := 0
	return func(r testRecord) testRecord {
		if r.ID == "" {
			n++
			r.ID = string(rune('a' + n - 1))
		}
		return r
	}
}

func newTestCollection(t *testing.T, dir string, seed []testRecord) *Collection[testRecord] {
	t.Helper()
	return NewCollection(dir, "records.v1", seed, numberedDefaults(), zap.NewNop(), nil)
}

func TestCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	first := newTestCollection(t, dir, nil)
	added, err := first.Add(testRecord{Name: "one"})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	_, err = first.Add(testRecord{Name: "two"})
	require.NoError(t, err)

	// A fresh collection over the same directory reads back what the first
	// one wrote.
	second := newTestCollection(t, dir, nil)
	records := second.List()
	require.Len(t, records, 2)
	assert.Equal(t, "one", records[0].Name)
	assert.Equal(t, "two", records[1].Name)
}

func TestCollectionSeedsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	seed := []testRecord{{ID: "seed-1", Name: "seeded"}}

	c := newTestCollection(t, dir, seed)
	records := c.List()
	require.Len(t, records, 1)
	assert.Equal(t, "seed-1", records[0].ID)
}

func TestCollectionSeedsWhenFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.v1.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json-array"), 0o644))

	seed := []testRecord{{ID: "seed-1", Name: "seeded"}}
	c := newTestCollection(t, dir, seed)

	records := c.List()
	require.Len(t, records, 1)
	assert.Equal(t, "seed-1", records[0].ID)

	// The next write replaces the corrupt file with valid content.
	_, err := c.Add(testRecord{Name: "fresh"})
	require.NoError(t, err)
	again := newTestCollection(t, dir, nil)
	assert.Equal(t, 2, again.Len())
}

func TestCollectionFind(t *testing.T) {
	c := newTestCollection(t, t.TempDir(), nil)
	added, err := c.Add(testRecord{Name: "one"})
	require.NoError(t, err)

	got, ok := c.Find(added.ID)
	require.True(t, ok)
	assert.Equal(t, "one", got.Name)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCollectionUpdate(t *testing.T) {
	dir := t.TempDir()
	c := newTestCollection(t, dir, nil)
	added, err := c.Add(testRecord{Name: "before"})
	require.NoError(t, err)

	updated, ok := c.Update(added.ID, func(r *testRecord) { r.Name = "after" })
	require.True(t, ok)
	assert.Equal(t, "after", updated.Name)

	_, ok = c.Update("missing", func(r *testRecord) { r.Name = "never" })
	assert.False(t, ok)

	reloaded := newTestCollection(t, dir, nil)
	records := reloaded.List()
	require.Len(t, records, 1)
	assert.Equal(t, "after", records[0].Name)
}

func TestCollectionRemove(t *testing.T) {
	dir := t.TempDir()
	c := newTestCollection(t, dir, nil)
	added, err := c.Add(testRecord{Name: "doomed"})
	require.NoError(t, err)

	assert.True(t, c.Remove(added.ID))
	assert.False(t, c.Remove(added.ID))
	assert.Equal(t, 0, c.Len())

	reloaded := newTestCollection(t, dir, nil)
	assert.Equal(t, 0, reloaded.Len())
}

func TestCollectionSyncFromDiskAdoptsForeignWrite(t *testing.T) {
	dir := t.TempDir()
	c := newTestCollection(t, dir, nil)
	_, err := c.Add(testRecord{Name: "mine"})
	require.NoError(t, err)

	// Simulate another process rewriting the shared file.
	foreign := []byte(`[{"id":"x","name":"theirs"}]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.v1.json"), foreign, 0o644))

	c.SyncFromDisk()
	records := c.List()
	require.Len(t, records, 1)
	assert.Equal(t, "theirs", records[0].Name, "a shared write replaces local state wholesale")
}

func TestCollectionSyncFromDiskSkipsOwnWrite(t *testing.T) {
	dir := t.TempDir()
	c := newTestCollection(t, dir, nil)
	added, err := c.Add(testRecord{Name: "mine"})
	require.NoError(t, err)

	// Mutate memory without persisting, then sync against our own last
	// write. The sync must recognise the file as self-written and keep the
	// in-memory state.
	c.Replace([]testRecord{{ID: added.ID, Name: "memory-only"}})
	c.SyncFromDisk()

	records := c.List()
	require.Len(t, records, 1)
	assert.Equal(t, "memory-only", records[0].Name)
}

func TestCollectionSyncFromDiskIgnoresMalformedUpdate(t *testing.T) {
	dir := t.TempDir()
	c := newTestCollection(t, dir, nil)
	_, err := c.Add(testRecord{Name: "mine"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.v1.json"), []byte("{broken"), 0o644))
	c.SyncFromDisk()

	records := c.List()
	require.Len(t, records, 1)
	assert.Equal(t, "mine", records[0].Name)
}

func TestCollectionListReturnsCopy(t *testing.T) {
	c := newTestCollection(t, t.TempDir(), nil)
	_, err := c.Add(testRecord{Name: "one"})
	require.NoError(t, err)

	records := c.List()
	records[0].Name = "mutated"
	assert.Equal(t, "one", c.List()[0].Name)
}
