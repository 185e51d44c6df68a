package monitor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"activity-tracker-be/internal/classifier"
	"activity-tracker-be/internal/entity"
	"activity-tracker-be/internal/pkg/logger"
	"activity-tracker-be/pkg/events"
	"activity-tracker-be/pkg/window"
)

// PlaceholderApp substitutes the window when a capture fails, so the sample
// loop never halts on a transient source error.
const PlaceholderApp = "System"

var ErrAlreadyRunning = fmt.Errorf("tracker already running")

// SessionStore is the persistence collaborator. Create assigns the session
// id; Update closes it. Failures are surfaced via the error event and never
// retried here.
type SessionStore interface {
	Create(ctx context.Context, session *entity.ActivitySession) error
	Update(ctx context.Context, session *entity.ActivitySession) error
}

// Classifier is invoked synchronously at every session start.
type Classifier interface {
	Categorize(appName, windowTitle string) classifier.Categorization
}

// Publisher receives tracker lifecycle events.
type Publisher interface {
	Publish(event events.Event) error
}

// Snapshot is the externally visible tracker state at a point in time.
type Snapshot struct {
	Running            bool                    `json:"running"`
	Idle               bool                    `json:"idle"`
	SessionOpen        bool                    `json:"session_open"`
	Session            *entity.ActivitySession `json:"session,omitempty"`
	SessionElapsedSecs int64                   `json:"session_elapsed_seconds"`
	LastActivity       time.Time               `json:"last_activity"`
	SinceActivitySecs  int64                   `json:"since_activity_seconds"`
	Hostname           string                  `json:"hostname"`
	OS                 string                  `json:"os"`
	Config             Config                  `json:"config"`
}

// Tracker is the session state machine. A single loop goroutine multiplexes
// the sample and idle tickers, so tick bodies never interleave; the mutex
// additionally serializes API calls (Stop, ForceEnd, Status, UpdateConfig)
// against ticks.
type Tracker struct {
	mu sync.Mutex

	cfg        Config
	source     window.Source
	store      SessionStore
	classifier Classifier
	bus        Publisher
	logger     logger.ILogger
	sanitizer  *Sanitizer
	now        func() time.Time

	running      bool
	idle         bool
	lastWindow   *entity.WindowInfo
	lastActivity time.Time
	current      *entity.ActivitySession
	ending       bool // single in-flight end-session guard

	cancel context.CancelFunc
	done   chan struct{}

	hostname string
	osName   string
}

func NewTracker(
	cfg Config,
	source window.Source,
	store SessionStore,
	engine Classifier,
	bus Publisher,
	log logger.ILogger,
) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	return &Tracker{
		cfg:        cfg,
		source:     source,
		store:      store,
		classifier: engine,
		bus:        bus,
		logger:     log,
		sanitizer:  NewSanitizer(cfg.TitleMaxLength),
		now:        time.Now,
		hostname:   hostname,
		osName:     runtime.GOOS,
	}, nil
}

// WithClock overrides the time source for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Start transitions Stopped -> Running and launches the tick loop.
func (t *Tracker) Start() error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	t.running = true
	t.idle = false
	t.lastActivity = t.now()
	t.lastWindow = nil

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	sample := t.cfg.SampleInterval
	idleCheck := t.cfg.IdleCheckInterval
	idleThreshold := t.cfg.IdleThreshold
	t.mu.Unlock()

	go t.run(ctx, sample, idleCheck)

	t.publish(events.New(events.TypeTrackerStarted, nil))
	t.logger.Info("Tracker", "Session tracking started", map[string]interface{}{
		"sample_interval": sample.String(),
		"idle_threshold":  idleThreshold.String(),
	})
	return nil
}

// Stop cancels the tick loop, closes any open session and transitions to
// Stopped. Idempotent.
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	cancel := t.cancel
	done := t.done
	t.mu.Unlock()

	cancel()
	<-done

	t.mu.Lock()
	t.endCurrentLocked(ctx)
	t.idle = false
	t.lastWindow = nil
	t.mu.Unlock()

	t.publish(events.New(events.TypeTrackerStopped, nil))
	t.logger.Info("Tracker", "Session tracking stopped", nil)
	return nil
}

func (t *Tracker) run(ctx context.Context, sampleEvery, idleEvery time.Duration) {
	defer close(t.done)

	sample := time.NewTicker(sampleEvery)
	defer sample.Stop()
	idle := time.NewTicker(idleEvery)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sample.C:
			t.SampleTick(ctx)
		case <-idle.C:
			t.IdleTick(ctx)
		}
	}
}

// SampleTick captures the foreground window and drives session start/end on
// change. Exported so tests can step the machine without real timers.
func (t *Tracker) SampleTick(ctx context.Context) {
	win, err := t.source.Capture(ctx)
	if err != nil || win == nil {
		if err != nil {
			t.logger.Debug("Tracker", "Window capture failed, substituting placeholder", map[string]interface{}{
				"error": err.Error(),
			})
		}
		win = &entity.WindowInfo{AppName: PlaceholderApp}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}

	if !t.cfg.TrackWindowTitles {
		win.Title = ""
	}

	changed := !win.Equal(t.lastWindow)
	if changed {
		t.endCurrentLocked(ctx)

		if !t.idle && !t.excluded(win.AppName) {
			t.openSessionLocked(ctx, win)
		}
		t.lastWindow = win
	}

	// A change to a non-excluded window counts as activity even while idle;
	// the idle flag itself only clears on the next idle check.
	if !t.idle || (changed && !t.excluded(win.AppName)) {
		t.lastActivity = t.now()
	}
}

// IdleTick compares elapsed inactivity against the threshold and drives the
// idle/active transitions. Exported for tests.
func (t *Tracker) IdleTick(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}

	elapsed := t.now().Sub(t.lastActivity)
	if elapsed >= t.cfg.IdleThreshold && !t.idle {
		t.idle = true
		t.publish(events.New(events.TypeIdle, map[string]interface{}{
			"idle_duration_ms": elapsed.Milliseconds(),
		}))
		t.logger.Info("Tracker", "Idle threshold reached", map[string]interface{}{
			"idle_for": elapsed.String(),
		})
		t.endCurrentLocked(ctx)
	} else if elapsed < t.cfg.IdleThreshold && t.idle {
		// Back to active; forgetting the last window makes the next sample
		// tick open a session for whatever is in the foreground.
		t.idle = false
		t.lastWindow = nil
		t.publish(events.New(events.TypeActive, map[string]interface{}{
			"idle_duration_ms": elapsed.Milliseconds(),
		}))
	}
}

// openSessionLocked classifies the window and opens a session. Persistence
// failure keeps the in-memory transition and surfaces through the error
// event.
func (t *Tracker) openSessionLocked(ctx context.Context, win *entity.WindowInfo) {
	result := t.classifier.Categorize(win.AppName, win.Title)

	session := &entity.ActivitySession{
		StartTime:         t.now(),
		AppName:           win.AppName,
		AppPath:           win.AppPath,
		WindowTitle:       t.sanitizer.Sanitize(win.Title),
		Category:          result.Category,
		ProductivityScore: result.ProductivityScore,
		IsActive:          true,
		Hostname:          t.hostname,
		OS:                t.osName,
	}

	if err := t.store.Create(ctx, session); err != nil {
		t.reportError("session create failed", err)
	}
	t.current = session

	t.publish(events.New(events.TypeSessionStarted, map[string]interface{}{
		"session":        sessionPayload(session),
		"categorization": result,
	}))
}

// endCurrentLocked closes the open session, persists the update and emits
// session-ended. The ending flag keeps a second caller from double-closing
// the same session. Returns whether a session was actually open.
func (t *Tracker) endCurrentLocked(ctx context.Context) bool {
	if t.current == nil || t.ending {
		return false
	}
	t.ending = true
	defer func() { t.ending = false }()

	session := t.current
	session.Close(t.now())

	if err := t.store.Update(ctx, session); err != nil {
		t.reportError("session update failed", err)
	}
	t.current = nil

	t.publish(events.New(events.TypeSessionEnded, map[string]interface{}{
		"session": sessionPayload(session),
	}))
	return true
}

// ForceEndCurrentSession is the administrative override for end-session.
func (t *Tracker) ForceEndCurrentSession(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endCurrentLocked(ctx)
}

// UpdateConfig validates and applies a new configuration. When running, the
// tick loop restarts so new intervals take effect.
func (t *Tracker) UpdateConfig(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	restart := t.running
	if restart {
		cancel := t.cancel
		done := t.done
		t.mu.Unlock()
		cancel()
		<-done
		t.mu.Lock()
	}
	t.cfg = cfg
	t.sanitizer = NewSanitizer(cfg.TitleMaxLength)
	if restart {
		loopCtx, cancel := context.WithCancel(context.Background())
		t.cancel = cancel
		t.done = make(chan struct{})
		go t.run(loopCtx, cfg.SampleInterval, cfg.IdleCheckInterval)
	}
	t.mu.Unlock()

	t.publish(events.New(events.TypeConfigUpdated, map[string]interface{}{
		"config": cfg,
	}))
	return nil
}

// Config returns the active configuration.
func (t *Tracker) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Status reports the current machine state.
func (t *Tracker) Status() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	snap := Snapshot{
		Running:      t.running,
		Idle:         t.idle,
		SessionOpen:  t.current != nil,
		LastActivity: t.lastActivity,
		Hostname:     t.hostname,
		OS:           t.osName,
		Config:       t.cfg,
	}
	if !t.lastActivity.IsZero() {
		snap.SinceActivitySecs = int64(now.Sub(t.lastActivity).Seconds())
	}
	if t.current != nil {
		session := *t.current
		snap.Session = &session
		snap.SessionElapsedSecs = int64(t.current.Elapsed(now).Seconds())
	}
	return snap
}

func (t *Tracker) excluded(appName string) bool {
	lower := strings.ToLower(appName)
	for _, excl := range t.cfg.ExcludedApps {
		if excl != "" && strings.Contains(lower, strings.ToLower(excl)) {
			return true
		}
	}
	return false
}

func (t *Tracker) reportError(message string, err error) {
	t.logger.Error("Tracker", message, map[string]interface{}{"error": err.Error()})
	t.publish(events.New(events.TypeTrackerError, map[string]interface{}{
		"message": message,
		"error":   err.Error(),
	}))
}

func (t *Tracker) publish(event events.Event) {
	if t.bus == nil {
		return
	}
	if err := t.bus.Publish(event); err != nil {
		t.logger.Warn("Tracker", "Event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func sessionPayload(s *entity.ActivitySession) map[string]interface{} {
	payload := map[string]interface{}{
		"id":                 s.Id.String(),
		"app_name":           s.AppName,
		"window_title":       s.WindowTitle,
		"category":           s.Category,
		"productivity_score": s.ProductivityScore,
		"start_time":         s.StartTime,
		"duration_seconds":   s.DurationSeconds,
	}
	if s.EndTime != nil {
		payload["end_time"] = *s.EndTime
	}
	return payload
}
