package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tablebook/internal/order"
)

var ErrSessionNotFound = errors.New("session not found")

// Placer is the part of the order service a session needs.
type Placer interface {
	PlaceOrder(ctx context.Context, selections []order.SelectionLine, customer order.CustomerInfo, idempotencyKey string) (*order.OrderRecord, error)
	Retry(ctx context.Context, record *order.OrderRecord, idempotencyKey string) error
}

// pendingOrder is a validated order whose append failed; the next place
// attempt retries it instead of building a new one.
type pendingOrder struct {
	record *order.OrderRecord
	key    string
}

// View is a read-only copy of a session.
type View struct {
	ID      uuid.UUID             `json:"id"`
	Items   []order.SelectionLine `json:"items"`
	Pending *order.OrderRecord    `json:"pending_order,omitempty"`
}

type Service struct {
	store   *Store
	catalog order.CatalogProvider
	orders  Placer
	log     logrus.FieldLogger
}

func NewService(store *Store, catalog order.CatalogProvider, orders Placer, log logrus.FieldLogger) *Service {
	return &Service{store: store, catalog: catalog, orders: orders, log: log}
}

func (s *Service) Create() View {
	sess := s.store.Create()
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view()
}

func (s *Service) Get(id uuid.UUID) (View, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *Service) Close(id uuid.UUID) {
	s.store.Delete(id)
}

// SetItem updates one cart line against the current catalog. Changing the
// cart abandons any order still waiting for a retry.
func (s *Service) SetItem(id uuid.UUID, category, item string, qty int) (View, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.cart.Set(s.catalog.Current(), category, item, qty); err != nil {
		return View{}, err
	}
	sess.pending = nil
	return sess.view(), nil
}

// PlaceOrder turns the session's cart into an order. The cart is cleared only
// after the order is saved. When saving fails the validated record is kept
// and the next call retries it as is.
func (s *Service) PlaceOrder(ctx context.Context, id uuid.UUID, customer order.CustomerInfo, idempotencyKey string) (*order.OrderRecord, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	entry := s.log.WithField("session_id", id)

	if p := sess.pending; p != nil {
		err := s.orders.Retry(ctx, p.record, p.key)
		if err != nil && !errors.Is(err, order.ErrDuplicateOrder) {
			return nil, err
		}
		entry.WithField("order_id", p.record.ID()).Info("pending order saved on retry")
		sess.finish()
		return p.record, nil
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	record, err := s.orders.PlaceOrder(ctx, sess.cart.Snapshot(), customer, idempotencyKey)
	if err != nil {
		var perr *order.PersistenceError
		if errors.As(err, &perr) {
			sess.pending = &pendingOrder{record: perr.Record, key: idempotencyKey}
		}
		return nil, err
	}

	sess.finish()
	return record, nil
}

func (sess *Session) finish() {
	sess.pending = nil
	sess.cart.Reset()
}

func (sess *Session) view() View {
	v := View{ID: sess.ID, Items: sess.cart.Snapshot()}
	if sess.pending != nil {
		v.Pending = sess.pending.record
	}
	return v
}
