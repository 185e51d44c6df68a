package window

import (
	"context"
	"errors"
	"sync"

	"activity-tracker-be/internal/entity"
)

// ErrNoWindow is returned by the simulated source when nothing is scripted.
var ErrNoWindow = errors.New("no window available")

// SimulatedSource is a scriptable source for development and tests. The
// current observation is swapped in by the caller; Capture returns a copy.
type SimulatedSource struct {
	mu      sync.Mutex
	current *entity.WindowInfo
	err     error
}

func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{}
}

// Set replaces the observation returned by subsequent captures.
func (s *SimulatedSource) Set(info *entity.WindowInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = info
	s.err = nil
}

// Fail makes subsequent captures return err until Set is called again.
func (s *SimulatedSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *SimulatedSource) Capture(ctx context.Context) (*entity.WindowInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.current == nil {
		return nil, ErrNoWindow
	}
	observation := *s.current
	return &observation, nil
}
