package services

import (
	"context"
	"errors"
	"fmt"
	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"

	"go.uber.org/zap"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
}

func NewOrderService(s repository.Store, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		store:     s,
		publisher: pub,
	}
}

// Checkout turns the user's cart into a pending order. Reading the cart, pricing
// it, writing the order and draining the cart happen in one transaction under an
// exclusive lock on the user, so a concurrent checkout or cart edit either sees
// the whole cart or an empty one.
func (u *OrderService) Checkout(ctx context.Context, userID uint64, d domain.CheckoutDetails) (*domain.Order, error) {
	var order *domain.Order
	err := u.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID, repository.LockExclusive); err != nil {
			return err
		}

		lines, err := r.Carts.ListForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		// An empty cart is reported ahead of missing shipping details.
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}
		if err := d.Validate(); err != nil {
			return err
		}

		o, err := domain.PriceCart(userID, lines, d)
		if err != nil {
			return err
		}
		if err := r.Orders.Save(ctx, o); err != nil {
			return err
		}

		ids := make([]uint64, len(lines))
		for i, l := range lines {
			ids[i] = l.ID
		}
		n, err := r.Carts.DeleteLines(ctx, userID, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return fmt.Errorf("checkout: drained %d of %d cart lines", n, len(ids))
		}

		order = o
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyCart) && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrValidation) {
			zap.L().Error("checkout failed", zap.Uint64("userId", userID), zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("order placed",
		zap.Uint64("orderId", order.ID),
		zap.Uint64("userId", userID),
		zap.String("total", order.Total.StringFixed(2)))

	evt := domain.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Lines:     len(order.Items),
		CreatedAt: order.CreatedAt,
	}
	go u.publish(context.Background(), EventOrderCreated, evt)

	return order, nil
}

func (u *OrderService) publish(ctx context.Context, pattern string, evt any) {
	if err := u.publisher.Publish(ctx, pattern, evt); err != nil {
		zap.L().Warn("failed to publish event", zap.String("pattern", pattern), zap.Error(err))
	}
}

// ListForUser returns the user's orders newest first, items attached.
func (u *OrderService) ListForUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return u.store.Repos().Orders.ListByUser(ctx, userID)
}

func (u *OrderService) GetOrderById(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := u.store.Repos().Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}
