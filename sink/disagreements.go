package sink

import (
	"os"
	"path/filepath"
	"time"

	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/gate"
)

// Defaults for the date-partitioned disagreement log.
const (
	DefaultLogDir  = "logs"
	DefaultLogFile = "disagreements.log"
	dateLayout     = "2006-01-02"
)

// DisagreementLog writes disputed samples to <Dir>/<YYYY-MM-DD>/<FileName>.
// Runs on the same day extend that day's file; each write is still atomic.
type DisagreementLog struct {
	Dir      string
	FileName string
	Now      func() time.Time
}

// NewDisagreementLog creates a log writer rooted at dir (DefaultLogDir if empty).
func NewDisagreementLog(dir string) *DisagreementLog {
	if dir == "" {
		dir = DefaultLogDir
	}
	return &DisagreementLog{Dir: dir, FileName: DefaultLogFile, Now: time.Now}
}

// Path returns today's log path.
func (l *DisagreementLog) Path() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	name := l.FileName
	if name == "" {
		name = DefaultLogFile
	}
	return filepath.Join(l.Dir, now().Format(dateLayout), name)
}

// Write appends one JSON line per entry to today's log. Nothing is created
// when entries is empty.
func (l *DisagreementLog) Write(entries []gate.DisagreementEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}
	path := l.Path()

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.WrapWriteFailed(err, "read existing disagreement log")
	}
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		existing = append(existing, '\n')
	}

	if err := writeAtomic(path, existing, entries); err != nil {
		return "", errors.WrapWriteFailed(err, "write disagreement log")
	}
	return path, nil
}

var _ Sink[gate.DisagreementEntry] = (*DisagreementLog)(nil)
