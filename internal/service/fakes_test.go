package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// fakeOrderStore is an in-memory domain.OrderStore with the same conditional
// semantics as the real one: promotion quota and stock are re-checked inside
// CreateOrder, and MarkPaid only flips once.
type fakeOrderStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*domain.Order
	points map[int64]*domain.CustomerPoint // keyed by order id

	// promoUses maps promotion id to remaining uses. A missing entry means
	// unlimited.
	promoUses map[int64]int32

	// stock maps size id to on-hand quantity. A missing entry means
	// unlimited.
	stock map[int64]int32

	createErr error
	deleted   []int64
}

var _ domain.OrderStore = (*fakeOrderStore)(nil)
var _ domain.PointStore = (*fakeOrderStore)(nil)

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:    make(map[int64]*domain.Order),
		points:    make(map[int64]*domain.CustomerPoint),
		promoUses: make(map[int64]int32),
		stock:     make(map[int64]int32),
	}
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, params domain.CreateOrderParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	o := params.Order

	if o.PromotionCodeID != nil {
		if remaining, ok := f.promoUses[*o.PromotionCodeID]; ok {
			if remaining <= 0 {
				return domain.ErrPromotionExhausted
			}
			f.promoUses[*o.PromotionCodeID] = remaining - 1
		}
	}

	for sizeID, qty := range params.SizeQuantities {
		if have, ok := f.stock[sizeID]; ok {
			if have < qty {
				return domain.ErrInsufficientStock
			}
			f.stock[sizeID] = have - qty
		}
	}

	f.nextID++
	o.ID = f.nextID
	o.OrderDate = time.Now()
	for i := range o.Lines {
		o.Lines[i].ID = int64(i + 1)
		o.Lines[i].OrderID = o.ID
	}
	cp := *o
	f.orders[o.ID] = &cp

	if params.Point != nil {
		params.Point.ID = o.ID
		params.Point.OrderID = o.ID
		params.Point.EarnedDate = o.OrderDate
		pt := *params.Point
		f.points[o.ID] = &pt
	}

	return nil
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFound("order.get", "order", strconv.FormatInt(id, 10))
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			all = append(all, *o)
		}
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []domain.Order
	for _, o := range f.orders {
		all = append(all, *o)
	}
	return all, nil
}

func (f *fakeOrderStore) SetStatus(ctx context.Context, id int64, status domain.OrderStatus, markPaid bool) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFound("order.set_status", "order", strconv.FormatInt(id, 10))
	}
	o.Status = status
	if markPaid {
		o.IsPaid = true
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) MarkPaid(ctx context.Context, id int64) (*domain.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, false, domain.NotFound("order.mark_paid", "order", strconv.FormatInt(id, 10))
	}
	changed := !o.IsPaid
	o.IsPaid = true
	cp := *o
	return &cp, changed, nil
}

func (f *fakeOrderStore) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFound("order.cancel", "order", strconv.FormatInt(id, 10))
	}
	if o.Status != domain.OrderStatusPending {
		return nil, domain.ErrIllegalTransition
	}
	o.Status = domain.OrderStatusCancelled
	delete(f.points, id)
	if o.PromotionCodeID != nil {
		if remaining, ok := f.promoUses[*o.PromotionCodeID]; ok {
			f.promoUses[*o.PromotionCodeID] = remaining + 1
		}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) DeleteOrder(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[id]
	if !ok {
		return domain.NotFound("order.delete", "order", strconv.FormatInt(id, 10))
	}
	if o.PromotionCodeID != nil {
		if remaining, ok := f.promoUses[*o.PromotionCodeID]; ok {
			f.promoUses[*o.PromotionCodeID] = remaining + 1
		}
	}
	delete(f.orders, id)
	delete(f.points, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOrderStore) ListPointsByUser(ctx context.Context, userID string) ([]domain.CustomerPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.CustomerPoint
	for _, p := range f.points {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakePromotionStore is an in-memory domain.PromotionStore.
type fakePromotionStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.PromotionCode
}

var _ domain.PromotionStore = (*fakePromotionStore)(nil)

func newFakePromotionStore(promos ...*domain.PromotionCode) *fakePromotionStore {
	f := &fakePromotionStore{byID: make(map[int64]*domain.PromotionCode)}
	for _, p := range promos {
		if p.ID == 0 {
			f.nextID++
			p.ID = f.nextID
		} else if p.ID > f.nextID {
			f.nextID = p.ID
		}
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePromotionStore) GetPromotionByCode(ctx context.Context, code string) (*domain.PromotionCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPromotionNotFound
}

func (f *fakePromotionStore) GetPromotion(ctx context.Context, id int64) (*domain.PromotionCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.NotFound("promotion.get", "promotion", strconv.FormatInt(id, 10))
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromotionStore) ListPromotions(ctx context.Context) ([]domain.PromotionCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PromotionCode
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePromotionStore) CreatePromotion(ctx context.Context, promo *domain.PromotionCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Code == promo.Code {
			return domain.ErrPromotionCodeTaken
		}
	}
	f.nextID++
	promo.ID = f.nextID
	promo.UsageCount = 0
	promo.CreatedAt = time.Now()
	cp := *promo
	f.byID[promo.ID] = &cp
	return nil
}

func (f *fakePromotionStore) UpdatePromotion(ctx context.Context, id int64, upd domain.PromotionUpdate) (*domain.PromotionCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.NotFound("promotion.update", "promotion", strconv.FormatInt(id, 10))
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.DiscountAmount != nil {
		p.DiscountAmount = *upd.DiscountAmount
	}
	if upd.DiscountPercent != nil {
		p.DiscountPercent = *upd.DiscountPercent
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if upd.StartDate != nil {
		p.StartDate = upd.StartDate
	}
	if upd.EndDate != nil {
		p.EndDate = upd.EndDate
	}
	if upd.MaxUsage != nil {
		p.MaxUsage = *upd.MaxUsage
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromotionStore) DeletePromotion(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.NotFound("promotion.delete", "promotion", strconv.FormatInt(id, 10))
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePromotionStore) SetPromotionActive(ctx context.Context, id int64, active bool) (*domain.PromotionCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.NotFound("promotion.set_active", "promotion", strconv.FormatInt(id, 10))
	}
	p.IsActive = active
	cp := *p
	return &cp, nil
}

// fakeBookingStore is an in-memory domain.BookingStore.
type fakeBookingStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

var _ domain.BookingStore = (*fakeBookingStore)(nil)

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[int64]*domain.Booking)}
}

func (f *fakeBookingStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	booking.ID = f.nextID
	booking.BookingDate = time.Now()
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking.get", "booking", strconv.FormatInt(id, 10))
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingStore) SetBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking.set_status", "booking", strconv.FormatInt(id, 10))
	}
	b.Status = status
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) TransitionBooking(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.NotFound("booking.transition", "booking", strconv.FormatInt(id, 10))
	}
	allowed := false
	for _, st := range from {
		if b.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrIllegalTransition
	}
	b.Status = to
	cp := *b
	return &cp, nil
}

// fakeCatalogStore is an in-memory domain.CatalogStore.
type fakeCatalogStore struct {
	products map[int64]*domain.Product
	sizes    map[int64]*domain.ProductSize
	pets     map[int64]*domain.Pet
	services map[int64]*domain.Service
}

var _ domain.CatalogStore = (*fakeCatalogStore)(nil)

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		products: make(map[int64]*domain.Product),
		sizes:    make(map[int64]*domain.ProductSize),
		pets:     make(map[int64]*domain.Pet),
		services: make(map[int64]*domain.Service),
	}
}

func (f *fakeCatalogStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalogStore) GetProductSize(ctx context.Context, id int64) (*domain.ProductSize, error) {
	s, ok := f.sizes[id]
	if !ok {
		return nil, domain.ErrSizeNotFound
	}
	return s, nil
}

func (f *fakeCatalogStore) GetPet(ctx context.Context, id int64) (*domain.Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	return p, nil
}

func (f *fakeCatalogStore) ListPetsByUser(ctx context.Context, userID string) ([]domain.Pet, error) {
	var out []domain.Pet
	for _, p := range f.pets {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalogStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	var out []domain.Service
	for _, s := range f.services {
		out = append(out, *s)
	}
	return out, nil
}

// Context helpers for tests.

func customerContext(id string) context.Context {
	return domain.NewContextWithUser(context.Background(), &domain.User{
		ID:    id,
		Email: id + "@example.com",
	})
}

func staffContext() context.Context {
	return domain.NewContextWithUser(context.Background(), &domain.User{
		ID:    "staff-1",
		Email: "staff@example.com",
		Roles: []string{domain.RoleAdmin},
	})
}
