package services

import (
	"context"
	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AdminService backs the administration panel. Every method checks that the
// actor is an admin before touching storage.
type AdminService struct {
	store     repository.Store
	catalog   *CatalogService
	publisher rabbit.PublisherInterface
}

func NewAdminService(s repository.Store, catalog *CatalogService, pub rabbit.PublisherInterface) *AdminService {
	return &AdminService{store: s, catalog: catalog, publisher: pub}
}

// Dashboard computes the summary fresh on every call; the independent queries
// run concurrently.
func (a *AdminService) Dashboard(ctx context.Context, actor domain.Identity) (*domain.Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	repos := a.store.Repos()
	d := &domain.Dashboard{TotalRevenue: decimal.Zero}
	var byStatus map[domain.OrderStatus]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalRevenue, err = repos.Orders.Revenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalOrders, err = repos.Orders.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalUsers, err = repos.Users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalProducts, err = repos.Products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = repos.Orders.CountByStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.OrderStatus = make(map[domain.OrderStatus]int64, len(domain.OrderStatuses))
	for _, st := range domain.OrderStatuses {
		d.OrderStatus[st] = byStatus[st]
	}
	return d, nil
}

func (a *AdminService) ListUsers(ctx context.Context, actor domain.Identity) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return a.store.Repos().Users.List(ctx)
}

// DeleteUser removes the user together with their cart, wishlist and orders.
func (a *AdminService) DeleteUser(ctx context.Context, actor domain.Identity, userID uint64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	return a.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID, repository.LockExclusive); err != nil {
			return err
		}
		if err := r.Carts.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Wishlists.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Orders.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Users.Delete(ctx, userID); err != nil {
			return err
		}
		zap.L().Info("user deleted", zap.Uint64("userId", userID), zap.Uint64("by", actor.UserID))
		return nil
	})
}

func (a *AdminService) ListProducts(ctx context.Context, actor domain.Identity) ([]domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return a.store.Repos().Products.ListAll(ctx)
}

func (a *AdminService) ListCategories(ctx context.Context, actor domain.Identity) ([]domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return a.catalog.Categories(ctx)
}

func categoryRef(ctx context.Context, r repository.Repositories, name string) (*uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	c, err := r.Categories.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	return &c.ID, nil
}

// CreateProduct stores a new active product, creating its category on demand.
func (a *AdminService) CreateProduct(ctx context.Context, actor domain.Identity, in domain.ProductInput) (*domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out *domain.Product
	err := a.store.Transaction(ctx, func(r repository.Repositories) error {
		categoryID, err := categoryRef(ctx, r, in.Category)
		if err != nil {
			return err
		}

		p := &domain.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       in.Price,
			CategoryID:  categoryID,
			IsActive:    true,
			Image:       in.Image,
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}

		out, err = r.Products.FindByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.catalog.Invalidate(ctx)
	return out, nil
}

// UpdateProduct applies the fields present in patch and leaves the rest alone.
// An empty category name clears the category.
func (a *AdminService) UpdateProduct(ctx context.Context, actor domain.Identity, id uint64, patch domain.ProductPatch) (*domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *domain.Product
	err := a.store.Transaction(ctx, func(r repository.Repositories) error {
		p, err := r.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}

		if err := patch.Apply(p); err != nil {
			return err
		}
		if patch.Category != nil {
			p.CategoryID, err = categoryRef(ctx, r, *patch.Category)
			if err != nil {
				return err
			}
		}
		p.Category = nil

		if err := r.Products.Save(ctx, p); err != nil {
			return err
		}
		out, err = r.Products.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.catalog.Invalidate(ctx, id)
	return out, nil
}

// DeleteProduct removes the product and any cart or wishlist lines for it.
// Order items keep their frozen name, price and quantity but lose the reference.
func (a *AdminService) DeleteProduct(ctx context.Context, actor domain.Identity, id uint64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := a.store.Transaction(ctx, func(r repository.Repositories) error {
		if err := r.Carts.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := r.Wishlists.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := r.Orders.DetachProduct(ctx, id); err != nil {
			return err
		}
		ok, err := r.Products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.catalog.Invalidate(ctx, id)
	return nil
}

func (a *AdminService) ListOrders(ctx context.Context, actor domain.Identity) ([]domain.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return a.store.Repos().Orders.ListAll(ctx)
}

// UpdateOrder changes status and/or payment method. Any of the four statuses may
// follow any other.
func (a *AdminService) UpdateOrder(ctx context.Context, actor domain.Identity, id uint64, patch domain.OrderPatch) (*domain.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *domain.Order
	err := a.store.Transaction(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if err := patch.Apply(o); err != nil {
			return err
		}
		if err := r.Orders.UpdateFields(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	evt := domain.OrderUpdatedEvent{OrderID: out.ID, Status: out.Status, PaymentMethod: out.PaymentMethod}
	go func() {
		if err := a.publisher.Publish(context.Background(), EventOrderUpdated, evt); err != nil {
			zap.L().Warn("failed to publish event", zap.String("pattern", EventOrderUpdated), zap.Error(err))
		}
	}()
	return out, nil
}

func (a *AdminService) DeleteOrder(ctx context.Context, actor domain.Identity, id uint64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	return a.store.Transaction(ctx, func(r repository.Repositories) error {
		ok, err := r.Orders.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrOrderNotFound
		}
		return nil
	})
}
