package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAutosaver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeAutosaver) Autosave() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err == nil, f.err
}

type fakePruner struct {
	before time.Time
	err    error
}

func (f *fakePruner) PruneActivity(before time.Time) (int64, error) {
	f.before = before
	return 3, f.err
}

func TestStartRegistersJobs(t *testing.T) {
	s, err := New(&fakeAutosaver{}, &fakePruner{}, nil, Config{
		Location:         time.UTC,
		AutosaveInterval: time.Minute,
		Retention:        24 * time.Hour,
		Clock:            clockwork.NewFakeClock(),
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.ElementsMatch(t, []string{"autosave", "prune-activity"}, s.Jobs())
}

func TestAutosaveDisabled(t *testing.T) {
	s, err := New(&fakeAutosaver{}, &fakePruner{}, nil, Config{
		Location:  time.UTC,
		Retention: time.Hour,
		Clock:     clockwork.NewFakeClock(),
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, []string{"prune-activity"}, s.Jobs())
}

func TestNilLocationDefaultsToUTC(t *testing.T) {
	s, err := New(nil, nil, nil, Config{})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, s.cfg.Location)
}

func TestPruneRunsAtThreeLocalTime(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s, err := New(nil, &fakePruner{}, nil, Config{
		Location:  jst,
		Retention: time.Hour,
		Clock:     clock,
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	jobs := s.scheduler.Jobs()
	require.Len(t, jobs, 1)

	// 00:00 UTC is 09:00 JST, so the next 03:00 JST is 18:00 UTC the same day
	want := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	require.Eventually(t, func() bool {
		next, err := jobs[0].NextRun()
		return err == nil && next.Equal(want)
	}, time.Second, 10*time.Millisecond)
}

func TestStopRunsFinalAutosave(t *testing.T) {
	saver := &fakeAutosaver{}
	s, err := New(saver, nil, nil, Config{
		Location:         time.UTC,
		AutosaveInterval: time.Hour,
		Clock:            clockwork.NewFakeClock(),
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())

	saver.mu.Lock()
	defer saver.mu.Unlock()
	assert.GreaterOrEqual(t, saver.calls, 1)
}

func TestAutosaveError(t *testing.T) {
	saver := &fakeAutosaver{err: errors.New("disk full")}
	s, err := New(saver, nil, nil, Config{Location: time.UTC})
	require.NoError(t, err)

	s.autosave()
	assert.Equal(t, 1, saver.calls)
}

func TestPruneActivityCutoff(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC))
	pruner := &fakePruner{}
	s, err := New(nil, pruner, nil, Config{
		Location:  time.UTC,
		Retention: 48 * time.Hour,
		Clock:     clock,
	})
	require.NoError(t, err)

	s.pruneActivity()
	assert.Equal(t, time.Date(2024, 2, 28, 3, 0, 0, 0, time.UTC), pruner.before)
}
