package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/config"
)

const maxHistoryLines = 500

// shellHistory is the shell's command history, persisted one line per
// command. Persistence is best-effort: I/O errors are ignored.
type shellHistory struct {
	path  string
	lines []string
	pos   int // len(lines) means "past the newest entry"
}

func defaultHistoryPath() string {
	return filepath.Join(config.ConfigDir(), "shell_history")
}

// loadShellHistory reads up to maxHistoryLines recent entries from path.
// An empty path keeps history in memory only.
func loadShellHistory(path string) *shellHistory {
	h := &shellHistory{path: path}
	if path != "" {
		if f, err := os.Open(path); err == nil {
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					h.lines = append(h.lines, line)
				}
			}
			f.Close()
		}
	}
	if len(h.lines) > maxHistoryLines {
		h.lines = h.lines[len(h.lines)-maxHistoryLines:]
	}
	h.pos = len(h.lines)
	return h
}

// add records line, skipping blanks and immediate repeats.
func (h *shellHistory) add(line string) {
	line = strings.TrimSpace(line)
	defer func() { h.pos = len(h.lines) }()
	if line == "" || (len(h.lines) > 0 && h.lines[len(h.lines)-1] == line) {
		return
	}
	h.lines = append(h.lines, line)
	h.persist(line)
}

func (h *shellHistory) persist(line string) {
	if h.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}

// prev steps back and returns the older entry, or false at the oldest.
func (h *shellHistory) prev() (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.lines[h.pos], true
}

// next steps forward; past the newest entry it returns "".
func (h *shellHistory) next() string {
	if h.pos < len(h.lines)-1 {
		h.pos++
		return h.lines[h.pos]
	}
	h.pos = len(h.lines)
	return ""
}
