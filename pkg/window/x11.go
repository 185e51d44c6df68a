package window

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"activity-tracker-be/internal/entity"
)

const captureTimeout = 1500 * time.Millisecond

// X11Source reads the active window through xdotool. It is best-effort:
// a missing binary, an empty DISPLAY or a slow X server all surface as
// capture errors and the tracker substitutes its placeholder window.
type X11Source struct{}

func NewX11Source() *X11Source {
	return &X11Source{}
}

func (s *X11Source) Capture(ctx context.Context) (*entity.WindowInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowname", "getwindowpid").Output()
	if err != nil {
		return nil, fmt.Errorf("xdotool capture failed: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected xdotool output: %q", string(out))
	}

	title := lines[0]
	pid, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid window pid %q: %w", lines[1], err)
	}

	appName, appPath := processIdentity(pid)
	if appName == "" {
		appName = title
	}

	return &entity.WindowInfo{
		AppName:   appName,
		AppPath:   appPath,
		Title:     title,
		ProcessId: pid,
	}, nil
}

// processIdentity resolves the process name and executable path from /proc.
func processIdentity(pid int) (string, string) {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	name := ""
	if err == nil {
		name = strings.TrimSpace(string(comm))
	}
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		path = ""
	}
	if name == "" && path != "" {
		name = filepath.Base(path)
	}
	return name, path
}
