// Package ledger provides the durable comms ledger: an idempotency store
// whose single load-bearing primitive is atomic create-if-absent. Three
// backends share the contract: marker files, Redis SETNX, and a Postgres
// unique-constraint insert. The marker, not its content, is the record: a
// present success marker means "sent, never again", a present error marker
// means "failed, wait for an operator".
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

// FileLedger keeps one marker file per comms flag in a flat directory.
// O_CREATE|O_EXCL makes marker creation a kernel-level first-writer-wins
// race: the loser's open fails with EEXIST and is observed as "already
// flagged". Marker names are globbable for operator tooling.
type FileLedger struct {
	dir    string
	logger *slog.Logger
}

// NewFileLedger creates the marker directory if needed and returns a ledger
// over it.
func NewFileLedger(dir string, logger *slog.Logger) (*FileLedger, error) {
	if dir == "" {
		return nil, errors.New("ledger directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return &FileLedger{dir: dir, logger: logger}, nil
}

var _ core.CommsLedger = (*FileLedger)(nil)

func (l *FileLedger) path(flag model.CommsFlag) string {
	return filepath.Join(l.dir, flag.Name())
}

// CreateIfAbsent atomically creates the marker. Returns true only for the
// first writer; a pre-existing marker is not an error.
func (l *FileLedger) CreateIfAbsent(_ context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	f, err := os.OpenFile(l.path(flag), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create marker %s: %w", flag.Name(), err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("close marker %s: %w", flag.Name(), err)
	}
	return true, nil
}

// Exists reports whether the marker is present.
func (l *FileLedger) Exists(_ context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	_, err := os.Stat(l.path(flag))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat marker %s: %w", flag.Name(), err)
}

// Remove deletes the marker, reporting whether it existed. Success markers
// are permanent proof-of-send; callers only remove error markers.
func (l *FileLedger) Remove(_ context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	err := os.Remove(l.path(flag))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("remove marker %s: %w", flag.Name(), err)
}

// List enumerates every marker recorded for a job item, sorted by name.
// Files that do not parse as markers are skipped; the directory is owned by
// this process but operators do poke around in it.
func (l *FileLedger) List(_ context.Context, jobItemID int64) ([]model.CommsFlag, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read ledger directory: %w", err)
	}

	var out []model.CommsFlag
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		flag, err := model.ParseFlagName(entry.Name())
		if err != nil {
			continue
		}
		if flag.JobItemID == jobItemID {
			out = append(out, flag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}
