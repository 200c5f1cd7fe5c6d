package mocks

import (
	"context"
	"fmt"
	"sort"
	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memState struct {
	seq        map[string]uint64
	users      map[uint64]domain.User
	categories map[uint64]domain.Category
	products   map[uint64]domain.Product
	carts      map[uint64]domain.CartItem
	wishlists  map[uint64]domain.WishlistItem
	orders     map[uint64]domain.Order
	orderItems map[uint64]domain.OrderItem
}

func newMemState() memState {
	return memState{
		seq:        map[string]uint64{},
		users:      map[uint64]domain.User{},
		categories: map[uint64]domain.Category{},
		products:   map[uint64]domain.Product{},
		carts:      map[uint64]domain.CartItem{},
		wishlists:  map[uint64]domain.WishlistItem{},
		orders:     map[uint64]domain.Order{},
		orderItems: map[uint64]domain.OrderItem{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s memState) clone() memState {
	return memState{
		seq:        cloneMap(s.seq),
		users:      cloneMap(s.users),
		categories: cloneMap(s.categories),
		products:   cloneMap(s.products),
		carts:      cloneMap(s.carts),
		wishlists:  cloneMap(s.wishlists),
		orders:     cloneMap(s.orders),
		orderItems: cloneMap(s.orderItems),
	}
}

func (s *memState) next(table string) uint64 {
	s.seq[table]++
	return s.seq[table]
}

// MemoryStore is an in-memory repository.Store. Transactions are fully
// serialized and roll back every write when fn fails. FailOn injects a one-shot
// error into a named operation such as "orders.save" or "carts.deleteLines".
type MemoryStore struct {
	mu       sync.Mutex
	state    memState
	failures map[string]error
}

var _ repository.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState(), failures: map[string]error{}}
}

func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *MemoryStore) takeFailure(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

func (s *MemoryStore) Repos() repository.Repositories {
	return memRepos{s: s}.all()
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.state.clone()
	if err := fn(memRepos{s: s, inTx: true}.all()); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// SeedUser stores a user and returns its id.
func (s *MemoryStore) SeedUser(username string, role domain.Role) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.next("users")
	s.state.users[id] = domain.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		CreatedAt: time.Now(),
	}
	return id
}

// SeedProduct stores an active product, creating the category if needed.
func (s *MemoryStore) SeedProduct(name, price, category string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var categoryID *uint64
	if category != "" {
		c := s.state.getOrCreateCategory(category)
		categoryID = &c.ID
	}
	id := s.state.next("products")
	s.state.products[id] = domain.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	return id
}

type memRepos struct {
	s    *MemoryStore
	inTx bool
}

func (r memRepos) run(op string, fn func(st *memState) error) error {
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	if err := r.s.takeFailure(op); err != nil {
		return err
	}
	return fn(&r.s.state)
}

func (r memRepos) all() repository.Repositories {
	return repository.Repositories{
		Users:      memUsers{r},
		Categories: memCategories{r},
		Products:   memProducts{r},
		Carts:      memCarts{r},
		Wishlists:  memWishlists{r},
		Orders:     memOrders{r},
	}
}

func (s *memState) getOrCreateCategory(name string) domain.Category {
	for _, c := range s.categories {
		if c.Name == name {
			return c
		}
	}
	c := domain.Category{ID: s.next("categories"), Name: name}
	s.categories[c.ID] = c
	return c
}

func (s *memState) loadProduct(id uint64) *domain.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	return &p
}

func (s *memState) loadOrder(id uint64) domain.Order {
	o := s.orders[id]
	o.Items = nil
	for _, it := range s.orderItems {
		if it.OrderID != id {
			continue
		}
		if it.ProductID != nil {
			it.Product = s.loadProduct(*it.ProductID)
		}
		o.Items = append(o.Items, it)
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ID < o.Items[j].ID })
	return o
}

// users

type memUsers struct{ memRepos }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	return r.run("users.create", func(st *memState) error {
		for _, existing := range st.users {
			if existing.Email == u.Email || existing.Username == u.Username {
				return fmt.Errorf("duplicate user %q", u.Username)
			}
		}
		u.ID = st.next("users")
		if u.Role == "" {
			u.Role = domain.RoleUser
		}
		u.CreatedAt = time.Now()
		st.users[u.ID] = *u
		return nil
	})
}

func (r memUsers) Save(ctx context.Context, u *domain.User) error {
	return r.run("users.save", func(st *memState) error {
		st.users[u.ID] = *u
		return nil
	})
}

func (r memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	var out *domain.User
	err := r.run("users.find", func(st *memState) error {
		for _, u := range st.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r memUsers) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r memUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r memUsers) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := r.run("users.list", func(st *memState) error {
		for _, u := range st.users {
			out = append(out, u)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
		return nil
	})
	return out, err
}

func (r memUsers) Delete(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.run("users.delete", func(st *memState) error {
		_, ok = st.users[id]
		delete(st.users, id)
		return nil
	})
	return ok, err
}

func (r memUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.run("users.count", func(st *memState) error {
		n = int64(len(st.users))
		return nil
	})
	return n, err
}

func (r memUsers) Lock(ctx context.Context, id uint64, mode repository.LockMode) (bool, error) {
	var ok bool
	err := r.run("users.lock", func(st *memState) error {
		_, ok = st.users[id]
		return nil
	})
	return ok, err
}

// categories

type memCategories struct{ memRepos }

func (r memCategories) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	var out domain.Category
	err := r.run("categories.getOrCreate", func(st *memState) error {
		out = st.getOrCreateCategory(name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memCategories) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.run("categories.list", func(st *memState) error {
		for _, c := range st.categories {
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

// products

type memProducts struct{ memRepos }

func (r memProducts) Create(ctx context.Context, p *domain.Product) error {
	return r.run("products.create", func(st *memState) error {
		p.ID = st.next("products")
		p.CreatedAt = time.Now()
		stored := *p
		stored.Category = nil
		st.products[p.ID] = stored
		return nil
	})
}

func (r memProducts) Save(ctx context.Context, p *domain.Product) error {
	return r.run("products.save", func(st *memState) error {
		stored := *p
		stored.Category = nil
		st.products[p.ID] = stored
		return nil
	})
}

func (r memProducts) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var out *domain.Product
	err := r.run("products.find", func(st *memState) error {
		out = st.loadProduct(id)
		return nil
	})
	return out, err
}

func (r memProducts) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var out *domain.Product
	err := r.run("products.findByName", func(st *memState) error {
		for id, p := range st.products {
			if p.Name == name && (out == nil || id < out.ID) {
				out = st.loadProduct(id)
			}
		}
		return nil
	})
	return out, err
}

func (r memProducts) list(desc bool, keep func(domain.Product) bool) ([]domain.Product, error) {
	var out []domain.Product
	err := r.run("products.list", func(st *memState) error {
		for id, p := range st.products {
			if keep(p) {
				out = append(out, *st.loadProduct(id))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if desc {
				return out[i].ID > out[j].ID
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r memProducts) ListActive(ctx context.Context) ([]domain.Product, error) {
	return r.list(false, func(p domain.Product) bool { return p.IsActive })
}

func (r memProducts) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(true, func(domain.Product) bool { return true })
}

func (r memProducts) Delete(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.run("products.delete", func(st *memState) error {
		_, ok = st.products[id]
		delete(st.products, id)
		return nil
	})
	return ok, err
}

func (r memProducts) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.run("products.count", func(st *memState) error {
		n = int64(len(st.products))
		return nil
	})
	return n, err
}

// carts

type memCarts struct{ memRepos }

func (r memCarts) Increment(ctx context.Context, userID, productID uint64) error {
	return r.run("carts.increment", func(st *memState) error {
		if _, ok := st.products[productID]; !ok {
			return fmt.Errorf("foreign key: product %d", productID)
		}
		for id, it := range st.carts {
			if it.UserID == userID && it.ProductID == productID {
				it.Quantity++
				st.carts[id] = it
				return nil
			}
		}
		id := st.next("carts")
		st.carts[id] = domain.CartItem{ID: id, UserID: userID, ProductID: productID, Quantity: 1}
		return nil
	})
}

func (r memCarts) SetQuantity(ctx context.Context, userID, productID uint64, qty int) (bool, error) {
	var found bool
	err := r.run("carts.setQuantity", func(st *memState) error {
		for id, it := range st.carts {
			if it.UserID == userID && it.ProductID == productID {
				it.Quantity = qty
				st.carts[id] = it
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r memCarts) Delete(ctx context.Context, userID, productID uint64) error {
	return r.run("carts.delete", func(st *memState) error {
		for id, it := range st.carts {
			if it.UserID == userID && it.ProductID == productID {
				delete(st.carts, id)
			}
		}
		return nil
	})
}

func (r memCarts) list(op string, userID uint64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.run(op, func(st *memState) error {
		for _, it := range st.carts {
			if it.UserID == userID {
				it.Product = st.loadProduct(it.ProductID)
				out = append(out, it)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r memCarts) ListByUser(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	return r.list("carts.list", userID)
}

func (r memCarts) ListForUpdate(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	return r.list("carts.listForUpdate", userID)
}

func (r memCarts) DeleteLines(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	var n int64
	err := r.run("carts.deleteLines", func(st *memState) error {
		for _, id := range ids {
			if it, ok := st.carts[id]; ok && it.UserID == userID {
				delete(st.carts, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r memCarts) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.run("carts.deleteByUser", func(st *memState) error {
		for id, it := range st.carts {
			if it.UserID == userID {
				delete(st.carts, id)
			}
		}
		return nil
	})
}

func (r memCarts) DeleteByProduct(ctx context.Context, productID uint64) error {
	return r.run("carts.deleteByProduct", func(st *memState) error {
		for id, it := range st.carts {
			if it.ProductID == productID {
				delete(st.carts, id)
			}
		}
		return nil
	})
}

// wishlists

type memWishlists struct{ memRepos }

func (r memWishlists) Find(ctx context.Context, userID, productID uint64) (*domain.WishlistItem, error) {
	var out *domain.WishlistItem
	err := r.run("wishlists.find", func(st *memState) error {
		for _, it := range st.wishlists {
			if it.UserID == userID && it.ProductID == productID {
				it := it
				out = &it
			}
		}
		return nil
	})
	return out, err
}

func (r memWishlists) Create(ctx context.Context, item *domain.WishlistItem) error {
	return r.run("wishlists.create", func(st *memState) error {
		for _, it := range st.wishlists {
			if it.UserID == item.UserID && it.ProductID == item.ProductID {
				return fmt.Errorf("duplicate wishlist entry (%d, %d)", item.UserID, item.ProductID)
			}
		}
		item.ID = st.next("wishlists")
		stored := *item
		stored.Product = nil
		st.wishlists[item.ID] = stored
		return nil
	})
}

func (r memWishlists) Delete(ctx context.Context, id uint64) error {
	return r.run("wishlists.delete", func(st *memState) error {
		delete(st.wishlists, id)
		return nil
	})
}

func (r memWishlists) ListByUser(ctx context.Context, userID uint64) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	err := r.run("wishlists.list", func(st *memState) error {
		for _, it := range st.wishlists {
			if it.UserID == userID {
				it.Product = st.loadProduct(it.ProductID)
				out = append(out, it)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r memWishlists) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.run("wishlists.deleteByUser", func(st *memState) error {
		for id, it := range st.wishlists {
			if it.UserID == userID {
				delete(st.wishlists, id)
			}
		}
		return nil
	})
}

func (r memWishlists) DeleteByProduct(ctx context.Context, productID uint64) error {
	return r.run("wishlists.deleteByProduct", func(st *memState) error {
		for id, it := range st.wishlists {
			if it.ProductID == productID {
				delete(st.wishlists, id)
			}
		}
		return nil
	})
}

// orders

type memOrders struct{ memRepos }

func (r memOrders) Save(ctx context.Context, order *domain.Order) error {
	return r.run("orders.save", func(st *memState) error {
		order.ID = st.next("orders")
		order.CreatedAt = time.Now()
		if order.Status == "" {
			order.Status = domain.StatusPending
		}
		for i := range order.Items {
			order.Items[i].ID = st.next("orderItems")
			order.Items[i].OrderID = order.ID
			stored := order.Items[i]
			stored.Product = nil
			st.orderItems[stored.ID] = stored
		}
		stored := *order
		stored.Items = nil
		st.orders[order.ID] = stored
		return nil
	})
}

func (r memOrders) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var out *domain.Order
	err := r.run("orders.find", func(st *memState) error {
		if _, ok := st.orders[id]; ok {
			o := st.loadOrder(id)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r memOrders) list(op string, keep func(domain.Order) bool) ([]domain.Order, error) {
	var out []domain.Order
	err := r.run(op, func(st *memState) error {
		for id, o := range st.orders {
			if keep(o) {
				out = append(out, st.loadOrder(id))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}

func (r memOrders) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list("orders.list", func(domain.Order) bool { return true })
}

func (r memOrders) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return r.list("orders.listByUser", func(o domain.Order) bool { return o.UserID == userID })
}

func (r memOrders) UpdateFields(ctx context.Context, order *domain.Order) error {
	return r.run("orders.update", func(st *memState) error {
		stored, ok := st.orders[order.ID]
		if !ok {
			return fmt.Errorf("order %d vanished", order.ID)
		}
		stored.Status = order.Status
		stored.PaymentMethod = order.PaymentMethod
		st.orders[order.ID] = stored
		return nil
	})
}

func (r memOrders) Delete(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.run("orders.delete", func(st *memState) error {
		_, ok = st.orders[id]
		delete(st.orders, id)
		for itemID, it := range st.orderItems {
			if it.OrderID == id {
				delete(st.orderItems, itemID)
			}
		}
		return nil
	})
	return ok, err
}

func (r memOrders) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.run("orders.deleteByUser", func(st *memState) error {
		for id, o := range st.orders {
			if o.UserID != userID {
				continue
			}
			delete(st.orders, id)
			for itemID, it := range st.orderItems {
				if it.OrderID == id {
					delete(st.orderItems, itemID)
				}
			}
		}
		return nil
	})
}

func (r memOrders) DetachProduct(ctx context.Context, productID uint64) error {
	return r.run("orders.detachProduct", func(st *memState) error {
		for id, it := range st.orderItems {
			if it.ProductID != nil && *it.ProductID == productID {
				it.ProductID = nil
				st.orderItems[id] = it
			}
		}
		return nil
	})
}

func (r memOrders) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.run("orders.count", func(st *memState) error {
		n = int64(len(st.orders))
		return nil
	})
	return n, err
}

func (r memOrders) Revenue(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.run("orders.revenue", func(st *memState) error {
		for _, o := range st.orders {
			total = total.Add(o.Total)
		}
		return nil
	})
	return total, err
}

func (r memOrders) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	out := map[domain.OrderStatus]int64{}
	err := r.run("orders.countByStatus", func(st *memState) error {
		for _, o := range st.orders {
			out[o.Status]++
		}
		return nil
	})
	return out, err
}
