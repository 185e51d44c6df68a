package monitor

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"activity-tracker-be/internal/classifier"
	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/pkg/logger"
	"activity-tracker-be/pkg/events"
	"activity-tracker-be/pkg/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	mu        sync.Mutex
	created   []*entity.ActivitySession
	updated   []*entity.ActivitySession
	createErr error
	updateErr error
}

func (s *stubStore) Create(ctx context.Context, session *entity.ActivitySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, session)
	return nil
}

func (s *stubStore) Update(ctx context.Context, session *entity.ActivitySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, session)
	return nil
}

type stubClassifier struct{}

func (stubClassifier) Categorize(appName, windowTitle string) classifier.Categorization {
	return classifier.Categorization{
		Category:          entity.CategoryDevelopment,
		ProductivityScore: 0.9,
		MatchType:         classifier.MatchApp,
		Confidence:        0.9,
	}
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testConfig uses hour-scale intervals so the real tickers never fire while a
// test steps the machine by hand through SampleTick and IdleTick.
func testConfig() Config {
	return Config{
		SampleInterval:    time.Hour,
		IdleCheckInterval: time.Hour,
		IdleThreshold:     2 * time.Hour,
		TrackWindowTitles: true,
		ExcludedApps:      []string{"1password"},
		TitleMaxLength:    200,
	}
}

type trackerFixture struct {
	tracker *Tracker
	source  *window.SimulatedSource
	store   *stubStore
	bus     *recordingBus
	clock   *fakeClock
}

func newFixture(t *testing.T, cfg Config) *trackerFixture {
	t.Helper()
	source := window.NewSimulatedSource()
	store := &stubStore{}
	bus := &recordingBus{}
	clock := &fakeClock{now: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}

	tracker, err := NewTracker(cfg, source, store, stubClassifier{}, bus, logger.NewNopLogger())
	require.NoError(t, err)
	tracker.WithClock(clock.Now)

	t.Cleanup(func() { _ = tracker.Stop(context.Background()) })
	return &trackerFixture{tracker: tracker, source: source, store: store, bus: bus, clock: clock}
}

func win(app, title string, pid int) *entity.WindowInfo {
	return &entity.WindowInfo{AppName: app, Title: title, ProcessId: pid}
}

func TestStartFailsWhenAlreadyRunning(t *testing.T) {
	f := newFixture(t, testConfig())

	require.NoError(t, f.tracker.Start())
	assert.ErrorIs(t, f.tracker.Start(), ErrAlreadyRunning)
	assert.Equal(t, 1, f.bus.count(events.TypeTrackerStarted))
}

func TestStopIsIdempotent(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()

	require.NoError(t, f.tracker.Stop(ctx)) // never started

	require.NoError(t, f.tracker.Start())
	require.NoError(t, f.tracker.Stop(ctx))
	require.NoError(t, f.tracker.Stop(ctx))

	assert.Equal(t, 1, f.bus.count(events.TypeTrackerStopped))
	assert.False(t, f.tracker.Status().Running)
}

func TestStopClosesOpenSession(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)
	require.True(t, f.tracker.Status().SessionOpen)

	require.NoError(t, f.tracker.Stop(ctx))

	assert.Len(t, f.store.updated, 1)
	assert.Equal(t, 1, f.bus.count(events.TypeSessionEnded))
	assert.False(t, f.tracker.Status().SessionOpen)
}

func TestWindowChangeEndsAndOpensSessions(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	f.clock.Advance(10 * time.Second)
	f.source.Set(win("firefox", "docs", 200))
	f.tracker.SampleTick(ctx)

	require.Len(t, f.store.created, 2)
	assert.Len(t, f.store.updated, 1)
	assert.Equal(t, "code", f.store.updated[0].AppName)
	assert.Equal(t, "firefox", f.store.created[1].AppName)
	assert.Equal(t, entity.CategoryDevelopment, f.store.created[0].Category)
	assert.Equal(t, 2, f.bus.count(events.TypeSessionStarted))
	assert.Equal(t, 1, f.bus.count(events.TypeSessionEnded))
}

func TestUnchangedWindowKeepsSingleSession(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	for i := 0; i < 5; i++ {
		f.clock.Advance(2 * time.Second)
		f.tracker.SampleTick(ctx)
		assert.Equal(t, f.clock.Now(), f.tracker.Status().LastActivity, "tick %d", i)
	}

	assert.Len(t, f.store.created, 1)
	assert.Empty(t, f.store.updated)
	assert.Equal(t, 1, f.bus.count(events.TypeSessionStarted))
	assert.Equal(t, 0, f.bus.count(events.TypeSessionEnded))
}

func TestCaptureFailureSubstitutesPlaceholder(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Fail(errors.New("display gone"))
	f.tracker.SampleTick(ctx)

	require.Len(t, f.store.created, 1)
	assert.Equal(t, PlaceholderApp, f.store.created[0].AppName)
	assert.True(t, f.tracker.Status().Running)
}

func TestExcludedAppOpensNoSession(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	f.source.Set(win("1Password 8", "vault", 300))
	f.tracker.SampleTick(ctx)

	assert.Len(t, f.store.created, 1)
	assert.Len(t, f.store.updated, 1)
	assert.False(t, f.tracker.Status().SessionOpen)

	// Leaving the excluded app resumes tracking.
	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)
	assert.Len(t, f.store.created, 2)
}

func TestIdleTransitionEndsSessionOnce(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	f.clock.Advance(3 * time.Hour)
	f.tracker.IdleTick(ctx)

	assert.True(t, f.tracker.Status().Idle)
	assert.Equal(t, 1, f.bus.count(events.TypeIdle))
	assert.Equal(t, 1, f.bus.count(events.TypeSessionEnded))

	// A second idle check while already idle is a no-op.
	f.tracker.IdleTick(ctx)
	assert.Equal(t, 1, f.bus.count(events.TypeIdle))
	assert.Equal(t, 1, f.bus.count(events.TypeSessionEnded))
}

func TestIdleRecoveryWaitsForNextSample(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	f.clock.Advance(3 * time.Hour)
	f.tracker.IdleTick(ctx)
	require.True(t, f.tracker.Status().Idle)

	// A window change while idle counts as activity but must not open a
	// session yet.
	f.source.Set(win("firefox", "docs", 200))
	f.tracker.SampleTick(ctx)
	assert.Len(t, f.store.created, 1)
	assert.True(t, f.tracker.Status().Idle)

	f.tracker.IdleTick(ctx)
	assert.False(t, f.tracker.Status().Idle)
	assert.Equal(t, 1, f.bus.count(events.TypeActive))
	assert.False(t, f.tracker.Status().SessionOpen)

	// The next sample after returning to active opens a session again.
	f.tracker.SampleTick(ctx)
	assert.Len(t, f.store.created, 2)
	assert.True(t, f.tracker.Status().SessionOpen)
}

func TestIdleIgnoresExcludedWindowChange(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	f.clock.Advance(3 * time.Hour)
	f.tracker.IdleTick(ctx)
	require.True(t, f.tracker.Status().Idle)

	// Switching to an excluded app must not count as activity.
	f.source.Set(win("1Password 8", "vault", 300))
	f.tracker.SampleTick(ctx)
	f.tracker.IdleTick(ctx)
	assert.True(t, f.tracker.Status().Idle)
	assert.Equal(t, 0, f.bus.count(events.TypeActive))

	// A non-excluded change does.
	f.source.Set(win("firefox", "docs", 200))
	f.tracker.SampleTick(ctx)
	f.tracker.IdleTick(ctx)
	assert.False(t, f.tracker.Status().Idle)
	assert.Equal(t, 1, f.bus.count(events.TypeActive))
}

func TestForceEndCurrentSession(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	assert.True(t, f.tracker.ForceEndCurrentSession(ctx))
	assert.False(t, f.tracker.ForceEndCurrentSession(ctx))
	assert.Equal(t, 1, f.bus.count(events.TypeSessionEnded))
}

func TestSessionDurationDerivedFromClock(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	f.clock.Advance(90 * time.Second)
	require.True(t, f.tracker.ForceEndCurrentSession(ctx))

	require.Len(t, f.store.updated, 1)
	session := f.store.updated[0]
	require.NotNil(t, session.EndTime)
	assert.Equal(t, int64(90), session.DurationSeconds)
	assert.False(t, session.IsActive)
	assert.False(t, session.Ongoing())
}

func TestPersistenceFailureKeepsStateTransition(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.store.createErr = errors.New("db down")
	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)

	assert.True(t, f.tracker.Status().SessionOpen)
	assert.Equal(t, 1, f.bus.count(events.TypeTrackerError))
	assert.Equal(t, 1, f.bus.count(events.TypeSessionStarted))
}

func TestTitlesBlankedWhenTrackingDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.TrackWindowTitles = false
	f := newFixture(t, cfg)
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("firefox", "very private document", 200))
	f.tracker.SampleTick(ctx)

	require.Len(t, f.store.created, 1)
	assert.Empty(t, f.store.created[0].WindowTitle)
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()

	bad := testConfig()
	bad.SampleInterval = 0
	assert.ErrorIs(t, f.tracker.UpdateConfig(ctx, bad), ErrInvalidConfig)
	assert.Equal(t, testConfig().SampleInterval, f.tracker.Config().SampleInterval)
}

func TestUpdateConfigWhileRunning(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	next := testConfig()
	next.IdleThreshold = 4 * time.Hour
	require.NoError(t, f.tracker.UpdateConfig(ctx, next))

	assert.Equal(t, 4*time.Hour, f.tracker.Config().IdleThreshold)
	assert.Equal(t, 1, f.bus.count(events.TypeConfigUpdated))
	assert.True(t, f.tracker.Status().Running)
}

func TestStatusSnapshot(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	require.NoError(t, f.tracker.Start())

	f.source.Set(win("code", "main.go", 100))
	f.tracker.SampleTick(ctx)
	f.clock.Advance(30 * time.Second)

	snap := f.tracker.Status()
	assert.True(t, snap.Running)
	assert.False(t, snap.Idle)
	assert.True(t, snap.SessionOpen)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "code", snap.Session.AppName)
	assert.Equal(t, int64(30), snap.SessionElapsedSecs)
	assert.Equal(t, int64(30), snap.SinceActivitySecs)
	assert.Equal(t, runtime.GOOS, snap.OS)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample interval", func(c *Config) { c.SampleInterval = 0 }},
		{"zero idle check interval", func(c *Config) { c.IdleCheckInterval = 0 }},
		{"zero idle threshold", func(c *Config) { c.IdleThreshold = 0 }},
		{"threshold below sample interval", func(c *Config) {
			c.SampleInterval = time.Minute
			c.IdleThreshold = time.Second
		}},
		{"zero title length", func(c *Config) { c.TitleMaxLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
