package service

import (
	"context"
	"testing"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	store *memStore
	svc   ReviewService
}

func newReviewFixture() *reviewFixture {
	store := newStore()
	svc := NewReviewService(
		&fakeReviewRepo{store: store},
		&fakeOrderRepo{store: store},
		&fakeListingRepo{store: store},
	)
	return &reviewFixture{store: store, svc: svc}
}

func (f *reviewFixture) completedOrder() (model.Listing, model.Order) {
	listing := f.store.addListing("seller-1", 40)
	order := f.store.addOrder(listing.ID, "buyer-1", model.OrderStatusCompleted)
	return listing, order
}

func TestReviewCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("buyer reviews completed order", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()

		review, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 5, "  arrived as described  ")
		require.NoError(t, err)
		assert.Equal(t, "buyer-1", review.ReviewerUID)
		assert.Equal(t, "seller-1", review.RevieweeUID)
		assert.Equal(t, "arrived as described", review.Comment)
	})

	t.Run("accepted order is reviewable", func(t *testing.T) {
		f := newReviewFixture()
		listing := f.store.addListing("seller-1", 40)
		order := f.store.addOrder(listing.ID, "buyer-1", model.OrderStatusAccepted)

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 4, "")
		assert.NoError(t, err)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newReviewFixture()
		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), 999, 5, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only the order buyer may review", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()

		_, err := f.svc.Create(ctx, asBuyer("buyer-2"), order.ID, 5, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("pending order is not reviewable", func(t *testing.T) {
		f := newReviewFixture()
		listing := f.store.addListing("seller-1", 40)
		order := f.store.addOrder(listing.ID, "buyer-1", model.OrderStatusPending)

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 5, "")
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("one review per order", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 5, "")
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 3, "")
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("rating bounds", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 0, "")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 6, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("admin may review for the buyer", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()

		review, err := f.svc.Create(ctx, asAdmin(), order.ID, 4, "")
		require.NoError(t, err)
		// Attribution stays with the buyer even when an admin files it.
		assert.Equal(t, "buyer-1", review.ReviewerUID)
	})
}

func TestReviewUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("reviewer edits own review", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()
		review, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 5, "great")
		require.NoError(t, err)

		got, err := f.svc.Update(ctx, asBuyer("buyer-1"), review.ID, 3, "pages missing")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Rating)
	})

	t.Run("others cannot edit", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()
		review, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 5, "")
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, asBuyer("buyer-2"), review.ID, 1, "")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.svc.Update(ctx, asSeller("seller-1"), review.ID, 1, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin deletes any review", func(t *testing.T) {
		f := newReviewFixture()
		_, order := f.completedOrder()
		review, err := f.svc.Create(ctx, asBuyer("buyer-1"), order.ID, 5, "")
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, asAdmin(), review.ID))
		assert.Empty(t, f.store.reviews)
	})

	t.Run("delete unknown review", func(t *testing.T) {
		f := newReviewFixture()
		err := f.svc.Delete(ctx, asAdmin(), 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReviewListForUser(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	l1 := f.store.addListing("seller-1", 40)
	o1 := f.store.addOrder(l1.ID, "buyer-1", model.OrderStatusCompleted)
	l2 := f.store.addListing("seller-1", 30)
	o2 := f.store.addOrder(l2.ID, "buyer-2", model.OrderStatusCompleted)

	_, err := f.svc.Create(ctx, asBuyer("buyer-1"), o1.ID, 5, "")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, asBuyer("buyer-2"), o2.ID, 2, "")
	require.NoError(t, err)

	reviews, summary, err := f.svc.ListForUser(ctx, "seller-1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.InDelta(t, 3.5, summary.Average, 0.001)
	assert.Equal(t, int64(2), summary.Total)

	// Users without reviews report a zero average, not an error.
	reviews, summary, err = f.svc.ListForUser(ctx, "seller-2")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Zero(t, summary.Average)
	assert.Zero(t, summary.Total)
}
