// Package bootstrap runs the one-time first-launch seeding step: it
// searches well-known locations for a pre-packaged initial-data folder
// and copies its contents into the data directory, recording a durable
// state so the search is never repeated once data exists.
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/craftbase/projtrack/internal/fileio"
	"github.com/craftbase/projtrack/internal/locator"
)

const (
	// MaxAttempts bounds retries across application launches. Once
	// exhausted the application continues with empty data and the
	// counter freezes.
	MaxAttempts = 5

	// DefaultMaxSeedFileSize is the per-file copy size cap. Larger
	// files are counted as copy failures, not fatal ones.
	DefaultMaxSeedFileSize = 100 << 20
)

// ErrSeedCopyFailed is returned when a non-empty seed folder was found
// but not a single file could be copied out of it.
var ErrSeedCopyFailed = errors.New("no files could be copied from seed folder")

// Finder is the directory search the service runs once per attempt.
type Finder interface {
	Find(roots []string, fragment string, budget locator.Budget) ([]locator.Match, error)
}

type Service struct {
	dataDir         string
	roots           []string
	target          string
	finder          Finder
	budget          locator.Budget
	state           *stateStore
	writer          *fileio.Writer
	maxSeedFileSize int64
}

func NewService(dataDir string, roots []string, target string, finder Finder) *Service {
	return &Service{
		dataDir:         dataDir,
		roots:           roots,
		target:          target,
		finder:          finder,
		budget:          locator.DefaultBudget(),
		state:           newStateStore(dataDir),
		writer:          fileio.NewWriter(),
		maxSeedFileSize: DefaultMaxSeedFileSize,
	}
}

// SetBudget overrides the search budget, useful for testing
func (s *Service) SetBudget(budget locator.Budget) {
	s.budget = budget
}

// SetMaxSeedFileSize overrides the per-file size cap, useful for testing
func (s *Service) SetMaxSeedFileSize(size int64) {
	s.maxSeedFileSize = size
}

// Result reports what one Bootstrap call did.
type Result struct {
	Status     Status
	SourcePath string
	IsDefault  bool
	Copied     int
	Skipped    int
	Failed     int
	// NoOp is true when the call returned without doing any work:
	// seeding already completed, or every attempt is used up.
	NoOp bool
}

// Bootstrap runs one seeding attempt. Completed state short-circuits
// with no filesystem work; exhausted attempts return success without
// action so the application can start with empty data. The attempt is
// recorded before any work so a crash mid-copy still counts.
func (s *Service) Bootstrap() (Result, error) {
	log := zap.S().Named("bootstrap")
	state := s.state.load()

	if state.Status == StatusCompleted {
		return Result{Status: StatusCompleted, SourcePath: state.SourcePath, IsDefault: state.IsDefault, NoOp: true}, nil
	}
	if state.AttemptCount >= MaxAttempts {
		log.Warnf("seeding gave up after %d attempts, continuing with empty data", state.AttemptCount)
		return Result{Status: state.Status, NoOp: true}, nil
	}

	state.Status = StatusInProgress
	state.AttemptCount++
	now := time.Now()
	state.LastAttemptTime = &now
	if err := s.state.save(state); err != nil {
		return Result{Status: StatusError}, fmt.Errorf("persisting bootstrap state: %w", err)
	}

	matches, err := s.finder.Find(s.roots, s.target, s.budget)
	if err != nil {
		state.Status = StatusError
		state.ErrorMessage = err.Error()
		if saveErr := s.state.save(state); saveErr != nil {
			log.Warnf("persisting error state: %v", saveErr)
		}
		return Result{Status: StatusError}, fmt.Errorf("searching for seed folder: %w", err)
	}

	if len(matches) == 0 {
		// absence of seed data is a normal outcome
		log.Infof("no seed folder named %q found, starting with empty data", s.target)
		if err := s.complete(state, "", true); err != nil {
			return Result{Status: StatusError}, err
		}
		return Result{Status: StatusCompleted, IsDefault: true}, nil
	}

	source := matches[0]
	for _, alt := range matches[1:] {
		log.Infof("ignoring alternative seed folder %s", alt.Path)
	}
	log.Infof("copying seed data from %s", source.Path)

	copied, skipped, failed := s.copyTree(source.Path)
	if failed > 0 && copied == 0 && skipped == 0 {
		state.Status = StatusFailed
		state.ErrorMessage = fmt.Sprintf("all %d file copies failed", failed)
		if saveErr := s.state.save(state); saveErr != nil {
			log.Warnf("persisting failed state: %v", saveErr)
		}
		return Result{Status: StatusFailed, SourcePath: source.Path, Failed: failed}, ErrSeedCopyFailed
	}

	if err := s.complete(state, source.Path, false); err != nil {
		return Result{Status: StatusError}, err
	}
	log.Infof("seeding done: %d copied, %d already present, %d failed", copied, skipped, failed)
	return Result{Status: StatusCompleted, SourcePath: source.Path, Copied: copied, Skipped: skipped, Failed: failed}, nil
}

// Reset clears the persisted state, including the legacy completion
// marker, for administrative re-runs.
func (s *Service) Reset() error {
	return s.state.reset()
}

// ForceReinit composes Reset and Bootstrap.
func (s *Service) ForceReinit() (Result, error) {
	if err := s.Reset(); err != nil {
		return Result{Status: StatusError}, err
	}
	return s.Bootstrap()
}

func (s *Service) complete(state *InitState, sourcePath string, isDefault bool) error {
	now := time.Now()
	state.Status = StatusCompleted
	state.CompletionTime = &now
	state.SourcePath = sourcePath
	state.IsDefault = isDefault
	state.ErrorMessage = ""
	if err := s.state.save(state); err != nil {
		return fmt.Errorf("persisting bootstrap state: %w", err)
	}
	return nil
}

// copyTree copies the seed folder's contents into the data directory,
// preserving relative structure. Individual failures are counted and
// never abort the copy.
func (s *Service) copyTree(source string) (copied, skipped, failed int) {
	log := zap.S().Named("bootstrap")

	walkErr := filepath.WalkDir(source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != source {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != source && locator.ExcludedDirName(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if excludedFileName(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			failed++
			return nil
		}
		if info.Size() > s.maxSeedFileSize {
			log.Warnf("skipping %s: %d bytes exceeds size cap", p, info.Size())
			failed++
			return nil
		}

		rel, err := filepath.Rel(source, p)
		if err != nil {
			failed++
			return nil
		}

		didCopy, err := s.writer.CopyFileIfAbsent(p, filepath.Join(s.dataDir, rel))
		if err != nil {
			log.Warnf("copying %s: %v", p, err)
			failed++
			return nil
		}
		if didCopy {
			copied++
		} else {
			skipped++
		}
		return nil
	})
	if walkErr != nil {
		log.Warnf("walking %s: %v", source, walkErr)
	}
	return copied, skipped, failed
}

// excludedFileName filters temp and hidden files out of the seed copy,
// keeping the two state filenames the application owns.
func excludedFileName(name string) bool {
	if name == locator.ReservedStateFileName || name == LegacyFlagFileName {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmp", ".bak", ".swp":
		return true
	}
	switch strings.ToLower(name) {
	case "thumbs.db", "desktop.ini":
		return true
	}
	return false
}
