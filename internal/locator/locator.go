// Package locator implements a bounded depth-first search for
// directories whose name matches a target fragment. It is used once at
// first run to find the initial-data folder, so it is deliberately
// conservative: depth, item and wall-clock budgets are enforced at
// every directory entered, and unreadable branches are pruned rather
// than surfaced.
package locator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// ReservedStateFileName is the one hidden name the exclusion rules let
// through: the bootstrap state file written into the data directory.
const ReservedStateFileName = ".projtrack-state.json"

// ErrEmptyFragment is returned when the target fragment normalizes to
// an empty string, which would match every directory.
var ErrEmptyFragment = errors.New("target fragment is empty")

// Budget bounds a single Find call. MaxDepth 0 means the roots'
// immediate children are checked but never descended into. MaxItems
// caps the number of matches across all roots combined. Timeout is
// wall-clock over the whole call.
type Budget struct {
	MaxDepth int
	MaxItems int
	Timeout  time.Duration
}

// DefaultBudget is the budget the bootstrap search runs with.
func DefaultBudget() Budget {
	return Budget{MaxDepth: 4, MaxItems: 8, Timeout: 30 * time.Second}
}

// Match is a discovered directory. Depth is the number of levels below
// the search root the match was found at.
type Match struct {
	Path  string
	Depth int
}

type Locator struct {
	now func() time.Time
}

func New() *Locator {
	return &Locator{now: time.Now}
}

// NewWithClock builds a locator with an injected clock, useful for
// testing the timeout behaviour.
func NewWithClock(now func() time.Time) *Locator {
	return &Locator{now: now}
}

// Find walks every root depth-first and returns the directories whose
// normalized name contains the normalized fragment, in pre-order
// discovery order. Roots that do not exist are skipped. A matched
// directory is recorded and not descended into. An empty result is a
// valid outcome, not an error.
func (l *Locator) Find(roots []string, fragment string, budget Budget) ([]Match, error) {
	needle := normalizeName(fragment)
	if needle == "" {
		return nil, ErrEmptyFragment
	}

	log := zap.S().Named("locator")
	deadline := l.now().Add(budget.Timeout)
	matches := []Match{}

	for _, root := range roots {
		if len(matches) >= budget.MaxItems || !l.now().Before(deadline) {
			break
		}
		fi, err := os.Stat(root)
		if err != nil || !fi.IsDir() {
			continue
		}
		matches = l.walk(root, needle, 0, budget, deadline, matches)
	}

	log.Debugf("found %d match(es) for %q under %d root(s)", len(matches), fragment, len(roots))
	return matches, nil
}

// walk enumerates one directory, recording matching children and
// recursing into the rest while depth remains. The accumulated match
// slice is threaded through returns; there is no shared counter.
func (l *Locator) walk(dir, needle string, depth int, budget Budget, deadline time.Time, matches []Match) []Match {
	if len(matches) >= budget.MaxItems || !l.now().Before(deadline) {
		return matches
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// permission or I/O failure: prune the branch
		zap.S().Named("locator").Debugf("skipping %s: %v", dir, err)
		return matches
	}

	for _, entry := range entries {
		if len(matches) >= budget.MaxItems || !l.now().Before(deadline) {
			return matches
		}
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ExcludedDirName(name) {
			continue
		}
		if strings.Contains(normalizeName(name), needle) {
			// a matched directory is a leaf of interest, not a
			// further search root
			matches = append(matches, Match{Path: filepath.Join(dir, name), Depth: depth})
			continue
		}
		if depth < budget.MaxDepth {
			matches = l.walk(filepath.Join(dir, name), needle, depth+1, budget, deadline, matches)
		}
	}
	return matches
}

var excludedNames = map[string]struct{}{
	"node_modules":              {},
	"__pycache__":               {},
	"$recycle.bin":              {},
	"system volume information": {},
	"appdata":                   {},
	"application data":          {},
	"temp":                      {},
	"tmp":                       {},
	"cache":                     {},
}

// ExcludedDirName reports whether a directory name is pruned from the
// search: known system/cache names plus anything hidden, except the
// reserved state filename.
func ExcludedDirName(name string) bool {
	if _, ok := excludedNames[strings.ToLower(name)]; ok {
		return true
	}
	if strings.HasPrefix(name, ".") && name != ReservedStateFileName {
		return true
	}
	return false
}

// normalizeName lowercases a name and strips underscores, hyphens and
// whitespace so "Initial_Data Pack" and "initialdatapack" compare
// equal.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
