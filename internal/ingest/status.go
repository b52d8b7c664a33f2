package ingest

import (
	"strings"

	"github.com/thoas/go-funk"
)

// Canonical task statuses. Every ingested row ends up with one of
// these four values.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

var canonicalStatuses = []string{StatusNotStarted, StatusInProgress, StatusDone, StatusCancelled}

// statusSynonyms maps known legacy spellings, including the Japanese
// values older schedule exports used, onto the canonical set.
var statusSynonyms = map[string]string{
	"未開始":       StatusNotStarted,
	"未着手":       StatusNotStarted,
	"todo":      StatusNotStarted,
	"open":      StatusNotStarted,
	"new":       StatusNotStarted,
	"着手":        StatusInProgress,
	"進行中":       StatusInProgress,
	"作業中":       StatusInProgress,
	"doing":     StatusInProgress,
	"wip":       StatusInProgress,
	"started":   StatusInProgress,
	"完了":        StatusDone,
	"済":         StatusDone,
	"completed": StatusDone,
	"finished":  StatusDone,
	"closed":    StatusDone,
	"中止":        StatusCancelled,
	"キャンセル":     StatusCancelled,
	"canceled":  StatusCancelled,
	"dropped":   StatusCancelled,
}

// NormalizeStatus maps a raw status cell to its canonical value.
// Unrecognized values fall back to not_started.
func NormalizeStatus(raw string) string {
	value := strings.TrimSpace(raw)
	if funk.ContainsString(canonicalStatuses, value) {
		return value
	}
	if mapped, ok := statusSynonyms[strings.ToLower(value)]; ok {
		return mapped
	}
	return StatusNotStarted
}
