package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coachdesk/coachdesk-api/internal/models"
)

func TestWatcherAdoptsForeignWrite(t *testing.T) {
	dir := t.TempDir()

	c := NewCollection[testRecord](dir, "records.v1", nil, nil, zap.NewNop(), nil)
	require.Equal(t, 0, c.Len())

	w, err := NewWatcher(dir, zap.NewNop())
	require.NoError(t, err)
	defer w.Close() //nolint:errcheck
	w.Register(c)

	foreign := []byte(`[{"id":"x","name":"theirs"}]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.v1.json"), foreign, 0o644))

	require.Eventually(t, func() bool {
		return c.Len() == 1
	}, 2*time.Second, 10*time.Millisecond, "watcher should adopt the foreign write")

	records := c.List()
	assert.Equal(t, "theirs", records[0].Name)
}

func TestWatcherIgnoresUnregisteredFiles(t *testing.T) {
	dir := t.TempDir()

	c := NewCollection[testRecord](dir, "records.v1", nil, nil, zap.NewNop(), nil)
	w, err := NewWatcher(dir, zap.NewNop())
	require.NoError(t, err)
	defer w.Close() //nolint:errcheck
	w.Register(c)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte(`[]`), 0o644))

	// Give the event loop a moment; the collection must stay untouched.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, c.Len())
}

func TestOpenBuildsEveryCollection(t *testing.T) {
	dir := t.TempDir()

	stores, err := Open(dir, Options{Watch: false})
	require.NoError(t, err)
	defer stores.Close() //nolint:errcheck

	// Seeded collections come up non-empty, the rest start empty.
	assert.NotZero(t, stores.Courses.Len())
	assert.NotZero(t, stores.Teachers.Len())
	assert.NotZero(t, stores.Students.Len())
	assert.Zero(t, stores.Enrollments.Len())

	added, err := stores.Enrollments.Add(models.Enrollment{Name: "Priya Sharma"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.NotEmpty(t, added.Code)
	assert.Equal(t, models.EnrollmentStatusPending, added.Status)
	assert.False(t, added.Date.IsZero())
}

func TestOpenWithWatcherCloses(t *testing.T) {
	dir := t.TempDir()

	stores, err := Open(dir, Options{Watch: true})
	require.NoError(t, err)
	require.NoError(t, stores.Close())
}
