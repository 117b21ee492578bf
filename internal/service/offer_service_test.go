package service

import (
	"context"
	"testing"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerFixture struct {
	store *memStore
	svc   OfferService
}

func newOfferFixture() *offerFixture {
	store := newStore()
	svc := NewOfferService(&fakeOfferRepo{store: store}, &fakeListingRepo{store: store})
	return &offerFixture{store: store, svc: svc}
}

func TestOfferCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("buyer creates pending offer", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)

		offer, err := f.svc.Create(ctx, asBuyer("buyer-1"), listing.ID, 32.50)
		require.NoError(t, err)
		assert.Equal(t, model.OfferStatusPending, offer.Status)
		assert.Equal(t, 32.50, offer.OfferedPrice)
	})

	t.Run("seller role cannot offer", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)

		_, err := f.svc.Create(ctx, asSeller("seller-2"), listing.ID, 30)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("non-positive price", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), listing.ID, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("cannot offer on own listing", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("buyer-1", 40)

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), listing.ID, 30)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("cannot offer on sold listing", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		listing.IsSold = true
		f.store.listings[listing.ID] = listing

		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), listing.ID, 30)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newOfferFixture()
		_, err := f.svc.Create(ctx, asBuyer("buyer-1"), 999, 30)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOfferResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("seller accepts pending offer", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		offer := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)

		got, err := f.svc.Accept(ctx, asSeller("seller-1"), offer.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OfferStatusAccepted, got.Status)
	})

	t.Run("accepting one offer leaves the rest alone", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		offer := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)
		rival := f.store.addOffer(listing.ID, "buyer-2", model.OfferStatusPending)

		_, err := f.svc.Accept(ctx, asSeller("seller-1"), offer.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OfferStatusPending, f.store.offers[rival.ID].Status)
	})

	t.Run("seller rejects pending offer", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		offer := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)

		got, err := f.svc.Reject(ctx, asSeller("seller-1"), offer.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OfferStatusRejected, got.Status)
	})

	t.Run("resolved offers are terminal", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		accepted := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusAccepted)
		rejected := f.store.addOffer(listing.ID, "buyer-2", model.OfferStatusRejected)

		_, err := f.svc.Reject(ctx, asSeller("seller-1"), accepted.ID)
		assert.ErrorIs(t, err, ErrInvalidOperation)

		_, err = f.svc.Accept(ctx, asSeller("seller-1"), rejected.ID)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("only the listing seller resolves", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		offer := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)

		_, err := f.svc.Accept(ctx, asBuyer("buyer-1"), offer.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.svc.Accept(ctx, asSeller("seller-2"), offer.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin resolves any offer", func(t *testing.T) {
		f := newOfferFixture()
		listing := f.store.addListing("seller-1", 40)
		offer := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)

		_, err := f.svc.Reject(ctx, asAdmin(), offer.ID)
		assert.NoError(t, err)
	})
}

func TestOfferGetVisibility(t *testing.T) {
	ctx := context.Background()
	f := newOfferFixture()
	listing := f.store.addListing("seller-1", 40)
	offer := f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)

	_, err := f.svc.Get(ctx, asBuyer("buyer-1"), offer.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, asSeller("seller-1"), offer.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, asBuyer("buyer-2"), offer.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Missing offers answer not found to everyone.
	_, err = f.svc.Get(ctx, asBuyer("buyer-2"), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOfferListByListing(t *testing.T) {
	ctx := context.Background()
	f := newOfferFixture()
	listing := f.store.addListing("seller-1", 40)
	f.store.addOffer(listing.ID, "buyer-1", model.OfferStatusPending)
	f.store.addOffer(listing.ID, "buyer-2", model.OfferStatusPending)

	offers, err := f.svc.ListByListing(ctx, asSeller("seller-1"), listing.ID)
	require.NoError(t, err)
	assert.Len(t, offers, 2)

	_, err = f.svc.ListByListing(ctx, asBuyer("buyer-1"), listing.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
