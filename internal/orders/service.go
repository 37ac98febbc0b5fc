package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/foodcourt/token-service/internal/cache"
	"github.com/foodcourt/token-service/internal/catalog"
	kafkax "github.com/foodcourt/token-service/internal/kafka"
	"github.com/foodcourt/token-service/internal/realtime"
	"github.com/foodcourt/token-service/internal/redisx"
)

// maxTokenAttempts bounds the re-read/recompute loop when concurrent
// creates collide on the same token number.
const maxTokenAttempts = 3

// ProductGetter is the slice of the catalog the lifecycle manager needs.
type ProductGetter interface {
	GetByID(ctx context.Context, id int64) (catalog.Product, error)
}

// Notifier publishes a status event to an order's realtime channel.
type Notifier interface {
	Publish(channelID string, ev realtime.Event)
}

// StreamPublisher pushes an event onto the order event stream.
type StreamPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service orchestrates the order lifecycle: token issuance, persistence,
// cache invalidation and realtime fan-out. Within one call the ordering is
// load-bearing: persist, then invalidate, then broadcast. Invalidating
// before persisting would let a racing reader repopulate the cache with
// stale data.
type Service struct {
	repo          Storage
	products      ProductGetter
	cache         *cache.Store
	notifier      Notifier
	createdStream StreamPublisher
	statusStream  StreamPublisher
	serviceName   string
	log           *slog.Logger
}

func NewService(repo Storage, products ProductGetter, c *cache.Store, notifier Notifier, createdStream, statusStream StreamPublisher, serviceName string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		products:      products,
		cache:         c,
		notifier:      notifier,
		createdStream: createdStream,
		statusStream:  statusStream,
		serviceName:   serviceName,
		log:           log,
	}
}

// Create places an order for the given product on behalf of userID. The
// order captures a snapshot of the product's current price; later price
// changes never alter past orders. Payment is settled synchronously
// upstream, so the order is persisted with payment_status=done.
func (s *Service) Create(ctx context.Context, userID, productID int64) (Order, error) {
	p, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return Order{}, ErrProductNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("lookup product: %w", err)
	}
	if !p.Availability {
		return Order{}, ErrProductUnavailable
	}

	orderID := uuid.NewString()

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		last, ok, err := s.repo.LastTokenNumber(ctx)
		if err != nil {
			return Order{}, fmt.Errorf("read token sequence: %w", err)
		}
		token, err := NextToken(last, ok)
		if err != nil {
			return Order{}, err
		}

		err = s.repo.Insert(ctx, InsertOrder{
			OrderID:       orderID,
			UserID:        userID,
			ProductID:     p.ID,
			Price:         p.Price,
			PaymentStatus: PaymentDone,
			TokenNumber:   token,
			Status:        StatusPending,
		})
		if errors.Is(err, ErrTokenTaken) {
			s.log.Warn("token collision, retrying issuance", "token", token, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return Order{}, fmt.Errorf("persist order: %w", err)
		}

		order, err := s.repo.GetByOrderID(ctx, orderID)
		if err != nil {
			return Order{}, fmt.Errorf("resolve order: %w", err)
		}

		s.cache.Invalidate(ctx, redisx.UserOrdersKey(userID), redisx.KeyAdminOrders)
		s.publishCreated(order)
		s.log.Info("order created", "order_id", order.OrderID, "token", order.TokenNumber, "user_id", userID)
		return order, nil
	}

	return Order{}, ErrTokenConflict
}

// UpdateStatus moves an order along its lifecycle, broadcasts the change
// to the order's channel and invalidates the owner's and the admin order
// listings. Transitions outside the lifecycle edge set are rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) (Order, error) {
	current, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(current.Status, next) {
		return Order{}, &InvalidTransitionError{From: current.Status, To: next}
	}

	order, err := s.repo.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return Order{}, err
	}

	s.cache.Invalidate(ctx, redisx.UserOrdersKey(order.User.ID), redisx.KeyAdminOrders)
	s.notifier.Publish(order.OrderID, realtime.Event{
		OrderID: order.OrderID,
		Status:  string(order.Status),
		Message: fmt.Sprintf("Your order status is now: %s", order.Status),
	})
	s.publishStatusChanged(order)
	s.log.Info("order status updated", "order_id", order.OrderID, "status", order.Status)
	return order, nil
}

// ListMine returns the caller's orders through the cache-aside path.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]Order, cache.Source, error) {
	return cache.GetJSON(ctx, s.cache, redisx.UserOrdersKey(userID), redisx.TTLOrders, func(ctx context.Context) ([]Order, error) {
		return s.repo.ListByUser(ctx, userID)
	})
}

// ListAll returns every order, unscoped.
func (s *Service) ListAll(ctx context.Context) ([]Order, cache.Source, error) {
	return cache.GetJSON(ctx, s.cache, redisx.KeyAdminOrders, redisx.TTLOrders, s.repo.ListAll)
}

func (s *Service) publishCreated(o Order) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.serviceName,
		CorrelationID: o.OrderID,
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderID:     o.OrderID,
			UserID:      o.User.ID,
			ProductID:   o.Product.ID,
			TokenNumber: o.TokenNumber,
			Price:       o.Price,
		}),
	}
	s.createdStream.Publish(PartitionKey(o.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishStatusChanged(o Order) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.serviceName,
		CorrelationID: o.OrderID,
		Payload: kafkax.MustMarshal(OrderStatusChangedPayload{
			OrderID:     o.OrderID,
			Status:      o.Status,
			TokenNumber: o.TokenNumber,
		}),
	}
	s.statusStream.Publish(PartitionKey(o.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
