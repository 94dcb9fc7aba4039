package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observer receives the committed cart after every mutation.
// It runs while the mutation lock is held and must not mutate the store.
type Observer func(domain.Cart)

// Store holds one owner's cart and mirrors it to a SnapshotStore.
// Mutations are serialized, including the catalog lookups they wait on,
// so two concurrent adds of the same product yield one line item.
type Store struct {
	ownerID   string
	catalog   port.Catalog
	snapshots port.SnapshotStore
	log       logrus.FieldLogger
	tracer    trace.Tracer

	mu sync.Mutex

	stateMu sync.RWMutex
	cart    domain.Cart

	observersMu sync.Mutex
	observers   map[int]Observer
	nextID      int
}

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = tracer
	}
}

// New hydrates the owner's cart from snapshots. A missing snapshot yields
// an empty cart, a malformed one is discarded with a warning.
func New(ctx context.Context, ownerID string, catalog port.Catalog, snapshots port.SnapshotStore, opts ...Option) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	s := &Store{
		ownerID:   ownerID,
		catalog:   catalog,
		snapshots: snapshots,
		log:       logrus.StandardLogger(),
		tracer:    otel.Tracer("cart"),
		cart:      domain.Cart{Items: []domain.CartItem{}},
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("owner_id", ownerID)

	payload, found, err := snapshots.Get(ctx, ownerID, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("snapshots.Get: %w", err)
	}
	if !found {
		return s, nil
	}

	cart, err := decodeSnapshot(payload)
	if err != nil {
		s.log.WithError(err).Warn("discarding malformed cart snapshot")
		return s, nil
	}
	s.cart = cart

	return s, nil
}

func (s *Store) OwnerID() string {
	return s.ownerID
}

// Cart returns a copy of the current contents.
func (s *Store) Cart() domain.Cart {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return s.cart.Clone()
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()

		delete(s.observers, id)
	}
}

// AddProduct appends the product with amount 1, or increments the amount of
// an existing line item subject to the stock ceiling.
func (s *Store) AddProduct(ctx context.Context, productID int64) (err error) {
	ctx, span := s.startSpan(ctx, "cart.AddProduct", attribute.Int64("app.product_id", productID))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.Cart()

	if existing, ok := current.Find(productID); ok {
		return s.updateProductAmount(ctx, current, productID, existing.Amount+1)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog.GetProduct: %w", err)
	}

	return s.commit(ctx, current.With(domain.CartItem{Product: product, Amount: 1}))
}

// RemoveProduct drops the line item. Removing an absent product succeeds.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) (err error) {
	ctx, span := s.startSpan(ctx, "cart.RemoveProduct", attribute.Int64("app.product_id", productID))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, s.Cart().Without(productID))
}

// UpdateProductAmount sets the amount of a line item after checking stock.
// An amount of zero is ignored rather than removing the item.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) (err error) {
	ctx, span := s.startSpan(ctx, "cart.UpdateProductAmount",
		attribute.Int64("app.product_id", productID),
		attribute.Int("app.amount", amount),
	)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateProductAmount(ctx, s.Cart(), productID, amount)
}

// updateProductAmount requires s.mu. Failures are wrapped in domain.AmountError.
func (s *Store) updateProductAmount(ctx context.Context, current domain.Cart, productID int64, amount int) error {
	if err := s.setProductAmount(ctx, current, productID, amount); err != nil {
		return &domain.AmountError{Err: err}
	}

	return nil
}

func (s *Store) setProductAmount(ctx context.Context, current domain.Cart, productID int64, amount int) error {
	if amount == 0 {
		return nil
	}
	if amount < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog.GetStock: %w", err)
	}

	if amount > stock.Amount {
		s.log.WithFields(logrus.Fields{
			"product_id": productID,
			"requested":  amount,
			"available":  stock.Amount,
		}).Info("requested amount exceeds stock")
		return domain.ErrStockExceeded
	}

	// An id absent from the cart still persists and notifies.
	return s.commit(ctx, current.WithAmount(productID, amount))
}

// commit requires s.mu. The in-memory cart changes only after the snapshot is written.
func (s *Store) commit(ctx context.Context, next domain.Cart) error {
	payload, err := encodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("encodeSnapshot: %w", err)
	}

	if err := s.snapshots.Set(ctx, s.ownerID, StorageKey, payload); err != nil {
		return fmt.Errorf("snapshots.Set: %w", err)
	}

	s.stateMu.Lock()
	s.cart = next
	s.stateMu.Unlock()

	s.publish(next)

	return nil
}

func (s *Store) publish(cart domain.Cart) {
	s.observersMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.observersMu.Unlock()

	for _, fn := range observers {
		fn(cart.Clone())
	}
}

func (s *Store) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("app.owner_id", s.ownerID))
	span.SetAttributes(attrs...)

	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
