package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllkojlhuk/sushikub/filestore"
)

func TestCronSchedulerLifecycle(t *testing.T) {
	s := NewCronScheduler()
	assert.False(t, s.IsRunning())

	s.Start()
	assert.True(t, s.IsRunning())

	// Start is idempotent.
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestCronSchedulerAddJob(t *testing.T) {
	s := NewCronScheduler()
	job := FuncJob{JobName: "noop", Func: func() error { return nil }}

	require.NoError(t, s.AddJob("noop", "30 4 * * *", job))

	// Re-registering under the same name replaces the entry.
	require.NoError(t, s.AddJob("noop", "0 3 * * *", job))
	assert.Len(t, s.jobs, 1)

	s.RemoveJob("noop")
	assert.Empty(t, s.jobs)
}

func TestCronSchedulerRejectsBadSchedule(t *testing.T) {
	s := NewCronScheduler()
	err := s.AddJob("bad", "not a cron expression", FuncJob{JobName: "bad"})
	assert.Error(t, err)
}

func TestCronSchedulerRunsJob(t *testing.T) {
	s := NewCronScheduler()

	ran := make(chan struct{}, 1)
	job := FuncJob{JobName: "tick", Func: func() error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}
	require.NoError(t, s.AddJob("tick", "@every 100ms", job))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestCacheSweepJob(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))

	stale := filepath.Join(cacheDir, "old_100x100_q85.webp")
	fresh := filepath.Join(cacheDir, "new_100x100_q85.webp")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))

	past := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	job := &CacheSweepJob{
		Cache:         filestore.NewImageCache(filestore.NewLocalFileSystemAdapter(root)),
		RetentionDays: 30,
	}
	require.NoError(t, job.Execute())

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}
