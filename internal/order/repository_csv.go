package order

import (
	"context"
	"encoding/csv"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// CSVSink appends orders to a local CSV file, one row per order, in the
// Columns layout of its policy. Idempotency keys are remembered only for the
// life of the process.
type CSVSink struct {
	path   string
	policy Policy

	mu   sync.Mutex
	keys map[string]bool
}

func NewCSVSink(path string, policy Policy) *CSVSink {
	return &CSVSink{path: path, policy: policy, keys: make(map[string]bool)}
}

func (s *CSVSink) Append(ctx context.Context, record *OrderRecord, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" && s.keys[key] {
		return ErrDuplicateOrder
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open order log")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat order log")
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns(s.policy)); err != nil {
			return errors.Wrap(err, "write order log header")
		}
	}
	if err := w.Write(RowValues(record, s.policy)); err != nil {
		return errors.Wrap(err, "write order row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush order log")
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(err, "sync order log")
	}

	if key != "" {
		s.keys[key] = true
	}
	return nil
}
