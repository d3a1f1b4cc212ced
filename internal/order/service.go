package order

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tablebook/internal/menu"
	"tablebook/internal/metrics"
)

// CatalogProvider hands out the catalog in force at call time.
type CatalogProvider interface {
	Current() *menu.Catalog
}

type Service struct {
	catalog    CatalogProvider
	aggregator *Aggregator
	sink       Sink
	notifier   Notifier
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
}

// NewService wires the aggregator to a sink. notifier may be nil.
func NewService(
	catalog CatalogProvider,
	aggregator *Aggregator,
	sink Sink,
	notifier Notifier,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		catalog:    catalog,
		aggregator: aggregator,
		sink:       sink,
		notifier:   notifier,
		log:        log,
		metrics:    m,
	}
}

func (s *Service) Policy() Policy {
	return s.aggregator.Policy()
}

// --------------------------------------------------
// Place order
// --------------------------------------------------

// PlaceOrder builds an order from the current catalog and appends it.
// Validation failures return a *ValidationError and no record. If the sink
// fails the record is returned together with a *PersistenceError so the
// caller can Retry without asking the guest again.
func (s *Service) PlaceOrder(
	ctx context.Context,
	selections []SelectionLine,
	customer CustomerInfo,
	idempotencyKey string,
) (*OrderRecord, error) {

	record, err := s.aggregator.BuildOrder(s.catalog.Current(), selections, customer)
	if err != nil {
		var v *ValidationError
		if errors.As(err, &v) {
			s.metrics.OrderRejected(string(v.Kind))
			s.log.WithField("kind", v.Kind).Info("order rejected")
		}
		return nil, err
	}

	if err := s.persist(ctx, record, idempotencyKey); err != nil {
		return record, err
	}
	return record, nil
}

// Retry appends an already validated record again.
func (s *Service) Retry(ctx context.Context, record *OrderRecord, idempotencyKey string) error {
	return s.persist(ctx, record, idempotencyKey)
}

func (s *Service) persist(ctx context.Context, record *OrderRecord, key string) error {
	entry := s.log.WithField("order_id", record.ID())

	if err := s.sink.Append(ctx, record, key); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			entry.WithField("idempotency_key", key).Info("duplicate order ignored")
			return err
		}
		s.metrics.PersistenceFailed()
		entry.WithError(err).Error("order append failed")
		return &PersistenceError{Record: record, Err: err}
	}

	total, _ := record.Total().Float64()
	s.metrics.OrderPlaced(total)
	entry.WithFields(logrus.Fields{
		"customer": record.CustomerName(),
		"summary":  record.Summary(),
		"total":    record.Total().StringFixed(2),
	}).Info("order placed")

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(ctx, record); err != nil {
			entry.WithError(err).Warn("order notification failed")
		}
	}
	return nil
}

// --------------------------------------------------
// Admin: recent orders
// --------------------------------------------------
func (s *Service) ListOrders(ctx context.Context, limit int) ([]StoredOrder, error) {
	lister, ok := s.sink.(Lister)
	if !ok {
		return nil, ErrListingUnsupported
	}
	return lister.List(ctx, limit)
}
