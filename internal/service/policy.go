package service

import (
	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
)

// Action identifies a guarded mutation for the access policy.
type Action int

const (
	ActionCreateListing Action = iota
	ActionEditListing
	ActionDeleteListing
	ActionCreateOffer
	ActionResolveOffer
	ActionCreateOrder
	ActionAcceptOrder
	ActionCompleteOrder
	ActionCancelOrder
	ActionCreateReview
	ActionEditReview
	ActionDeleteReview
	ActionManageCategory
)

// CanAct is the single role/ownership gate applied before every mutation.
// Admin bypasses all ownership checks. ownerUID is the seller for
// seller-side actions and the buyer/reviewer for buyer-side ones; creation
// actions pass an empty ownerUID and are gated on role alone.
func CanAct(p authctx.Principal, action Action, ownerUID string) bool {
	if p.Role == model.RoleAdmin {
		return true
	}
	switch action {
	case ActionCreateListing:
		return p.Role == model.RoleSeller
	case ActionCreateOffer, ActionCreateOrder, ActionCreateReview:
		return p.Role == model.RoleBuyer
	case ActionManageCategory:
		return false
	default:
		return ownerUID != "" && p.UID == ownerUID
	}
}
