package port

import (
	"context"
	"rental-client/internal/core/domain"
)

// ListingAPIPort - внешний сервис объявлений.
type ListingAPIPort interface {
	// ListListings возвращает страницу объявлений по построенному запросу.
	ListListings(ctx context.Context, query domain.Query) (domain.ListingPage, error)
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	CreateListing(ctx context.Context, draft domain.ListingDraft) (domain.Listing, error)
	UpdateListing(ctx context.Context, id string, draft domain.ListingDraft) (domain.Listing, error)
	DeleteListing(ctx context.Context, id string) error
}
