package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Screenshotter is anything that can write a full-page PNG to a path.
type Screenshotter interface {
	Screenshot(path string) error
}

// ScreenShotDebugger handles debug screenshots
type ScreenShotDebugger struct {
	outputDir string
	now       func() time.Time
}

func NewScreenShotDebugger(dir string) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warnf("⚠️ Failed to create screenshot directory: %v", err)
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		now:       time.Now,
	}
}

// CaptureAndLog saves <name>_<timestamp>.png and returns its path.
func (s *ScreenShotDebugger) CaptureAndLog(target Screenshotter, name, message string) (string, error) {
	timestamp := s.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sanitize(name), timestamp)
	path := filepath.Join(s.outputDir, filename)
	log.Infof("📸 %s", message)

	//Take screenshot
	if err := target.Screenshot(path); err != nil {
		log.Warnf("⚠️ Failed to capture screenshot: %v", err)
		return "", err
	}

	log.Infof("   Screenshot saved: %s", path)
	return path, nil
}

// sanitize keeps file names to letters, digits, dash and underscore
func sanitize(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" {
		return "screenshot"
	}
	return clean
}
