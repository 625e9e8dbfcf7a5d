package usecases_port

import (
	"context"
	"rental-client/internal/core/domain"
)

// ListingBrowserPort - события экрана списка объявлений.
type ListingBrowserPort interface {
	Snapshot() domain.ViewState
	UpdateFilters(ctx context.Context, patch domain.FilterPatch) domain.ViewState
	ClearFilters(ctx context.Context) domain.ViewState
	SetPage(ctx context.Context, page int) (domain.ViewState, error)
	Refresh(ctx context.Context) domain.ViewState

	CreateListing(ctx context.Context, draft domain.ListingDraft) (domain.Listing, error)
	UpdateListing(ctx context.Context, id string, draft domain.ListingDraft) (domain.Listing, error)
	DeleteListing(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, listingID string) (bool, error)

	OpenCreateForm(ctx context.Context) error
	OpenEditForm(ctx context.Context, listingID string) error
	CloseForm(ctx context.Context)
}
