package bootstrap_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbase/projtrack/internal/bootstrap"
	"github.com/craftbase/projtrack/internal/locator"
)

type fakeFinder struct {
	matches []locator.Match
	err     error
	calls   int
}

func (f *fakeFinder) Find(roots []string, fragment string, budget locator.Budget) ([]locator.Match, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestBootstrapNoMatchesCompletesWithDefault(t *testing.T) {
	dataDir := t.TempDir()
	finder := &fakeFinder{}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.True(t, result.IsDefault)
	assert.False(t, result.NoOp)

	// completed state short-circuits without searching again
	result, err = svc.Bootstrap()
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Equal(t, 1, finder.calls)
}

func TestBootstrapCopiesSeedData(t *testing.T) {
	dataDir := t.TempDir()
	seedDir := t.TempDir()
	writeFile(t, seedDir, "projects.csv", "a,b\n")
	writeFile(t, seedDir, filepath.Join("templates", "schedule.csv"), "x,y\n")
	writeFile(t, seedDir, ".hidden", "skip me")
	writeFile(t, seedDir, "leftover.tmp", "skip me")

	finder := &fakeFinder{matches: []locator.Match{{Path: seedDir}}}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.Equal(t, seedDir, result.SourcePath)
	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 0, result.Failed)

	assert.FileExists(t, filepath.Join(dataDir, "projects.csv"))
	assert.FileExists(t, filepath.Join(dataDir, "templates", "schedule.csv"))
	assert.NoFileExists(t, filepath.Join(dataDir, ".hidden"))
	assert.NoFileExists(t, filepath.Join(dataDir, "leftover.tmp"))

	// both state representations exist and stay in sync
	assert.FileExists(t, filepath.Join(dataDir, locator.ReservedStateFileName))
	assert.FileExists(t, filepath.Join(dataDir, bootstrap.LegacyFlagFileName))
}

func TestBootstrapIsIdempotentAfterCompletion(t *testing.T) {
	dataDir := t.TempDir()
	seedDir := t.TempDir()
	writeFile(t, seedDir, "a.csv", "a\n")

	finder := &fakeFinder{matches: []locator.Match{{Path: seedDir}}}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	_, err := svc.Bootstrap()
	require.NoError(t, err)

	// a file added after completion must never be picked up
	writeFile(t, seedDir, "late.csv", "late\n")

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Equal(t, 1, finder.calls)
	assert.NoFileExists(t, filepath.Join(dataDir, "late.csv"))
}

func TestBootstrapAlreadyPresentFilesAreNotOverwritten(t *testing.T) {
	dataDir := t.TempDir()
	seedDir := t.TempDir()
	writeFile(t, seedDir, "a.csv", "from seed\n")
	writeFile(t, dataDir, "a.csv", "user data\n")

	finder := &fakeFinder{matches: []locator.Match{{Path: seedDir}}}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.Equal(t, 0, result.Copied)
	assert.Equal(t, 1, result.Skipped)

	content, err := os.ReadFile(filepath.Join(dataDir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "user data\n", string(content))
}

func TestBootstrapOversizeFileCountsAsFailure(t *testing.T) {
	dataDir := t.TempDir()
	seedDir := t.TempDir()
	writeFile(t, seedDir, "small.csv", "ok\n")
	writeFile(t, seedDir, "large.bin", "0123456789")

	finder := &fakeFinder{matches: []locator.Match{{Path: seedDir}}}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)
	svc.SetMaxSeedFileSize(4)

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 1, result.Failed)
	assert.NoFileExists(t, filepath.Join(dataDir, "large.bin"))
}

func TestBootstrapTotalCopyFailureIsSurfaced(t *testing.T) {
	dataDir := t.TempDir()
	seedDir := t.TempDir()
	writeFile(t, seedDir, "large.bin", "0123456789")

	finder := &fakeFinder{matches: []locator.Match{{Path: seedDir}}}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)
	svc.SetMaxSeedFileSize(4)

	result, err := svc.Bootstrap()
	assert.ErrorIs(t, err, bootstrap.ErrSeedCopyFailed)
	assert.Equal(t, bootstrap.StatusFailed, result.Status)
	assert.Equal(t, 1, result.Failed)
}

func TestBootstrapSearchErrorIsSurfacedAndRetryable(t *testing.T) {
	dataDir := t.TempDir()
	finder := &fakeFinder{err: errors.New("listing exploded")}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	_, err := svc.Bootstrap()
	require.Error(t, err)

	_, err = svc.Bootstrap()
	require.Error(t, err)
	assert.Equal(t, 2, finder.calls)
}

func TestBootstrapGivesUpAfterMaxAttempts(t *testing.T) {
	dataDir := t.TempDir()
	finder := &fakeFinder{err: errors.New("listing exploded")}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	for i := 0; i < bootstrap.MaxAttempts; i++ {
		_, err := svc.Bootstrap()
		require.Error(t, err)
	}

	// attempts exhausted: success-without-action, counter frozen
	finder.err = nil
	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Equal(t, bootstrap.MaxAttempts, finder.calls)

	// an administrative reset starts over
	result, err = svc.ForceReinit()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.True(t, result.IsDefault)
}

func TestBootstrapCorruptStateFileStartsFresh(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, dataDir, locator.ReservedStateFileName, "{not json")

	finder := &fakeFinder{}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.Equal(t, 1, finder.calls)
}

func TestBootstrapMigratesLegacyFlag(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, dataDir, bootstrap.LegacyFlagFileName, "1\n")

	finder := &fakeFinder{}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusCompleted, result.Status)
	assert.True(t, result.NoOp)
	assert.Equal(t, 0, finder.calls)
}

func TestResetClearsBothStateFiles(t *testing.T) {
	dataDir := t.TempDir()
	finder := &fakeFinder{}
	svc := bootstrap.NewService(dataDir, nil, "seed", finder)

	_, err := svc.Bootstrap()
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dataDir, locator.ReservedStateFileName))
	require.FileExists(t, filepath.Join(dataDir, bootstrap.LegacyFlagFileName))

	require.NoError(t, svc.Reset())
	assert.NoFileExists(t, filepath.Join(dataDir, locator.ReservedStateFileName))
	assert.NoFileExists(t, filepath.Join(dataDir, bootstrap.LegacyFlagFileName))

	result, err := svc.Bootstrap()
	require.NoError(t, err)
	assert.False(t, result.NoOp)
	assert.Equal(t, 2, finder.calls)
}
