package menu

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tablebook/internal/metrics"
)

type Service struct {
	source  Source
	schema  Schema
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	current  atomic.Pointer[Catalog]
	loadedAt atomic.Pointer[time.Time]
}

func NewService(source Source, schema Schema, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	s := &Service{source: source, schema: schema, log: log, metrics: m}
	s.current.Store(EmptyCatalog())
	return s
}

// --------------------------------------------------
// Reload catalog from source
// --------------------------------------------------

// Reload fetches the sheet and swaps in a freshly built catalog. On any error
// the previous catalog stays in force.
func (s *Service) Reload(ctx context.Context) (*Catalog, []RowWarning, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		s.metrics.CatalogReloadFailed()
		return nil, nil, errors.Wrap(err, "fetch menu rows")
	}

	catalog, warnings, err := BuildCatalog(rows, s.schema)
	if err != nil {
		s.metrics.CatalogReloadFailed()
		return nil, nil, err
	}

	for _, w := range warnings {
		entry := s.log.WithFields(logrus.Fields{
			"row":      w.Row,
			"category": w.Category,
			"item":     w.Item,
			"reason":   w.Reason,
		})
		switch w.Reason {
		case ReasonUnavailable:
			entry.Debug("menu row skipped")
		case ReasonMissingField:
			entry.Warn("menu row skipped")
		default:
			entry.WithField("detail", w.Detail).Warn("menu row degraded")
		}
	}

	s.current.Store(catalog)
	now := time.Now()
	s.loadedAt.Store(&now)
	s.metrics.CatalogLoaded(catalog.Len(), len(rows))

	s.log.WithFields(logrus.Fields{
		"categories": len(catalog.Categories()),
		"items":      catalog.Len(),
		"warnings":   len(warnings),
	}).Info("menu loaded")

	return catalog, warnings, nil
}

// Current returns the catalog in force. Before the first successful reload
// it is empty.
func (s *Service) Current() *Catalog {
	return s.current.Load()
}

// LoadedAt is the time of the last successful reload, zero if none.
func (s *Service) LoadedAt() time.Time {
	if t := s.loadedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}
