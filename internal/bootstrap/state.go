package bootstrap

import (
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/craftbase/projtrack/internal/fileio"
	"github.com/craftbase/projtrack/internal/locator"
)

// LegacyFlagFileName is the marker file older releases wrote once
// seeding finished. It is kept in sync with the JSON state file so
// external scripts that still look for it keep working.
const LegacyFlagFileName = ".projtrack-initialized"

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusError      Status = "error"
)

// InitState is the durable record of the first-run seeding step. It
// lives for the whole installation and is only removed by Reset.
type InitState struct {
	Status          Status     `json:"status"`
	AttemptCount    int        `json:"attempt_count"`
	LastAttemptTime *time.Time `json:"last_attempt_time,omitempty"`
	CompletionTime  *time.Time `json:"completion_time,omitempty"`
	SourcePath      string     `json:"source_path,omitempty"`
	IsDefault       bool       `json:"is_default"`
	ErrorMessage    string     `json:"error_message,omitempty"`
}

// stateStore persists InitState under the data directory. Both the
// JSON state file and the legacy flag are written behind the single
// save call so they cannot drift.
type stateStore struct {
	dataDir string
	reader  *fileio.Reader
	writer  *fileio.Writer
}

func newStateStore(dataDir string) *stateStore {
	reader := fileio.NewReader()
	reader.SetRootdir(dataDir)
	writer := fileio.NewWriter()
	writer.SetRootdir(dataDir)
	return &stateStore{dataDir: dataDir, reader: reader, writer: writer}
}

// load reads the persisted state. A missing or unparsable state file
// is never fatal: it degrades to a fresh not_started state, with a
// one-time migration from the legacy flag file when only that exists.
func (s *stateStore) load() *InitState {
	contents, err := s.reader.ReadFile(locator.ReservedStateFileName)
	if err != nil {
		if s.reader.CheckPathExists(LegacyFlagFileName) == nil {
			// pre-JSON installs only recorded completion
			return &InitState{Status: StatusCompleted, IsDefault: true}
		}
		return &InitState{Status: StatusNotStarted}
	}

	state := &InitState{}
	if err := json.Unmarshal(contents, state); err != nil {
		zap.S().Named("bootstrap").Warnf("state file unreadable, starting fresh: %v", err)
		return &InitState{Status: StatusNotStarted}
	}
	if state.Status == "" {
		state.Status = StatusNotStarted
	}
	return state
}

func (s *stateStore) save(state *InitState) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	contents, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := s.writer.WriteFileAtomic(locator.ReservedStateFileName, contents); err != nil {
		return err
	}

	if state.Status == StatusCompleted {
		return s.writer.WriteFile(LegacyFlagFileName, []byte("1\n"))
	}
	if err := os.Remove(s.writer.PathFor(LegacyFlagFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// reset removes both state representations.
func (s *stateStore) reset() error {
	for _, name := range []string{locator.ReservedStateFileName, LegacyFlagFileName} {
		if err := os.Remove(s.writer.PathFor(name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
