package service

import (
	"context"
	"sort"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

// memStore backs the fake repositories with plain maps so service tests run
// against the real business logic without a database.
type memStore struct {
	listings   map[uint64]model.Listing
	offers     map[uint64]model.Offer
	orders     map[uint64]model.Order
	reviews    map[uint64]model.Review
	categories map[uint64]model.Category
	revenue    map[string]int64
	nextID     uint64
}

func newStore() *memStore {
	return &memStore{
		listings:   make(map[uint64]model.Listing),
		offers:     make(map[uint64]model.Offer),
		orders:     make(map[uint64]model.Order),
		reviews:    make(map[uint64]model.Review),
		categories: make(map[uint64]model.Category),
		revenue:    make(map[string]int64),
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) snapshot() *memStore {
	cp := newStore()
	cp.nextID = s.nextID
	for k, v := range s.listings {
		cp.listings[k] = v
	}
	for k, v := range s.offers {
		cp.offers[k] = v
	}
	for k, v := range s.orders {
		cp.orders[k] = v
	}
	for k, v := range s.reviews {
		cp.reviews[k] = v
	}
	for k, v := range s.categories {
		cp.categories[k] = v
	}
	for k, v := range s.revenue {
		cp.revenue[k] = v
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.listings = from.listings
	s.offers = from.offers
	s.orders = from.orders
	s.reviews = from.reviews
	s.categories = from.categories
	s.revenue = from.revenue
	s.nextID = from.nextID
}

func (s *memStore) addCategory(name string) model.Category {
	c := model.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	return c
}

func (s *memStore) addListing(sellerUID string, price float64) model.Listing {
	l := model.Listing{
		ID:          s.id(),
		Title:       "Calculus: Early Transcendentals",
		Description: "lightly used",
		Price:       price,
		Condition:   model.ConditionGood,
		CategoryID:  1,
		SellerUID:   sellerUID,
	}
	s.listings[l.ID] = l
	return l
}

func (s *memStore) addOffer(listingID uint64, buyerUID string, status model.OfferStatus) model.Offer {
	o := model.Offer{ID: s.id(), ListingID: listingID, BuyerUID: buyerUID, OfferedPrice: 25, Status: status}
	s.offers[o.ID] = o
	return o
}

func (s *memStore) addOrder(listingID uint64, buyerUID string, status model.OrderStatus) model.Order {
	o := model.Order{ID: s.id(), ListingID: listingID, BuyerUID: buyerUID, Status: status}
	s.orders[o.ID] = o
	return o
}

// fakeTxManager snapshots the store before the callback and restores it when
// the callback fails, matching the rollback semantics of a real transaction.
type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakeListingRepo struct {
	store       *memStore
	markSoldErr error
	deleteErr   error
}

func (r *fakeListingRepo) Create(_ context.Context, listing *model.Listing) error {
	listing.ID = r.store.id()
	r.store.listings[listing.ID] = *listing
	return nil
}

func (r *fakeListingRepo) FindByID(_ context.Context, id uint64) (*model.Listing, error) {
	l, ok := r.store.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r *fakeListingRepo) List(_ context.Context, limit, offset int, categoryID uint64, includeSold bool) ([]model.Listing, int64, error) {
	var out []model.Listing
	for _, l := range r.store.listings {
		if categoryID != 0 && l.CategoryID != categoryID {
			continue
		}
		if !includeSold && l.IsSold {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeListingRepo) ListBySeller(_ context.Context, sellerUID string) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range r.store.listings {
		if l.SellerUID == sellerUID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Update(_ context.Context, listing *model.Listing) error {
	cur, ok := r.store.listings[listing.ID]
	if !ok || cur.Version != listing.Version {
		return repository.ErrStaleObject
	}
	listing.Version++
	r.store.listings[listing.ID] = *listing
	return nil
}

func (r *fakeListingRepo) MarkSold(_ context.Context, id, version uint64) error {
	if r.markSoldErr != nil {
		return r.markSoldErr
	}
	l, ok := r.store.listings[id]
	if !ok || l.Version != version {
		return repository.ErrStaleObject
	}
	l.IsSold = true
	l.Version++
	r.store.listings[id] = l
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id uint64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.store.listings, id)
	return nil
}

func (r *fakeListingRepo) CountByCategory(_ context.Context, categoryID uint64) (int64, error) {
	var total int64
	for _, l := range r.store.listings {
		if l.CategoryID == categoryID {
			total++
		}
	}
	return total, nil
}

type fakeOfferRepo struct {
	store            *memStore
	rejectPendingErr error
}

func (r *fakeOfferRepo) Create(_ context.Context, offer *model.Offer) error {
	offer.ID = r.store.id()
	r.store.offers[offer.ID] = *offer
	return nil
}

func (r *fakeOfferRepo) FindByID(_ context.Context, id uint64) (*model.Offer, error) {
	o, ok := r.store.offers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *fakeOfferRepo) ListByListing(_ context.Context, listingID uint64) ([]model.Offer, error) {
	var out []model.Offer
	for _, o := range r.store.offers {
		if o.ListingID == listingID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListByBuyer(_ context.Context, buyerUID string) ([]model.Offer, error) {
	var out []model.Offer
	for _, o := range r.store.offers {
		if o.BuyerUID == buyerUID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) UpdateStatus(_ context.Context, id uint64, from, to model.OfferStatus) (int64, error) {
	o, ok := r.store.offers[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	r.store.offers[id] = o
	return 1, nil
}

func (r *fakeOfferRepo) RejectPendingByListing(_ context.Context, listingID uint64) (int64, error) {
	if r.rejectPendingErr != nil {
		return 0, r.rejectPendingErr
	}
	var n int64
	for id, o := range r.store.offers {
		if o.ListingID == listingID && o.Status == model.OfferStatusPending {
			o.Status = model.OfferStatusRejected
			r.store.offers[id] = o
			n++
		}
	}
	return n, nil
}

func (r *fakeOfferRepo) DeleteByListing(_ context.Context, listingID uint64) error {
	for id, o := range r.store.offers {
		if o.ListingID == listingID {
			delete(r.store.offers, id)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	store     *memStore
	staleOnce bool
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = r.store.id()
	r.store.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uint64) (*model.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerUID string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.store.orders {
		if o.BuyerUID == buyerUID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListBySeller(_ context.Context, sellerUID string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.store.orders {
		if l, ok := r.store.listings[o.ListingID]; ok && l.SellerUID == sellerUID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id, version uint64, from, to model.OrderStatus) error {
	if r.staleOnce {
		r.staleOnce = false
		return repository.ErrStaleObject
	}
	o, ok := r.store.orders[id]
	if !ok || o.Status != from || o.Version != version {
		return repository.ErrStaleObject
	}
	o.Status = to
	o.Version++
	r.store.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) CancelPendingByListing(_ context.Context, listingID, exceptOrderID uint64) (int64, error) {
	var n int64
	for id, o := range r.store.orders {
		if o.ListingID == listingID && o.ID != exceptOrderID && o.Status == model.OrderStatusPending {
			o.Status = model.OrderStatusCancelled
			o.Version++
			r.store.orders[id] = o
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) ExistsActiveByListingAndBuyer(_ context.Context, listingID uint64, buyerUID string) (bool, error) {
	for _, o := range r.store.orders {
		if o.ListingID == listingID && o.BuyerUID == buyerUID && o.Status != model.OrderStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) DeleteByListing(_ context.Context, listingID uint64) error {
	for id, o := range r.store.orders {
		if o.ListingID == listingID {
			delete(r.store.orders, id)
		}
	}
	return nil
}

type fakeReviewRepo struct {
	store *memStore
}

func (r *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	review.ID = r.store.id()
	r.store.reviews[review.ID] = *review
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uint64) (*model.Review, error) {
	rv, ok := r.store.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rv, nil
}

func (r *fakeReviewRepo) FindByOrder(_ context.Context, orderID uint64) (*model.Review, error) {
	for _, rv := range r.store.reviews {
		if rv.OrderID == orderID {
			return &rv, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	r.store.reviews[review.ID] = *review
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uint64) error {
	delete(r.store.reviews, id)
	return nil
}

func (r *fakeReviewRepo) ListByReviewee(_ context.Context, revieweeUID string) ([]model.Review, error) {
	var out []model.Review
	for _, rv := range r.store.reviews {
		if rv.RevieweeUID == revieweeUID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) AverageForReviewee(_ context.Context, revieweeUID string) (float64, int64, error) {
	var sum, total int64
	for _, rv := range r.store.reviews {
		if rv.RevieweeUID == revieweeUID {
			sum += int64(rv.Rating)
			total++
		}
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(total), total, nil
}

type fakeCategoryRepo struct {
	store *memStore
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	category.ID = r.store.id()
	r.store.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uint64) (*model.Category, error) {
	c, ok := r.store.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.store.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.store.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *model.Category) error {
	r.store.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uint64) error {
	delete(r.store.categories, id)
	return nil
}

type fakeRevenueRepo struct {
	store  *memStore
	addErr error
}

func (r *fakeRevenueRepo) Add(_ context.Context, uid string, cents int64) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.store.revenue[uid] += cents
	return nil
}

func (r *fakeRevenueRepo) Get(_ context.Context, uid string) (*model.UserRevenue, error) {
	return &model.UserRevenue{UID: uid, RevenueCents: r.store.revenue[uid]}, nil
}

func asAdmin() authctx.Principal {
	return authctx.Principal{UID: "admin-1", Role: model.RoleAdmin}
}

func asSeller(uid string) authctx.Principal {
	return authctx.Principal{UID: uid, Role: model.RoleSeller}
}

func asBuyer(uid string) authctx.Principal {
	return authctx.Principal{UID: uid, Role: model.RoleBuyer}
}
