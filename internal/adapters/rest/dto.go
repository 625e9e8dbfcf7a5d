package rest

import (
	"fmt"
	"rental-client/internal/adapters/view_dto"
	"rental-client/internal/core/domain"
	"strings"
	"time"
)

// FilterPatchRequest - тело PATCH /api/filters. Отсутствующее поле не меняется,
// пустая строка сбрасывает фильтр.
type FilterPatchRequest struct {
	State         *string   `json:"state"`
	City          *string   `json:"city"`
	MinPrice      *string   `json:"minPrice"`
	MaxPrice      *string   `json:"maxPrice"`
	MinAreaSqFt   *string   `json:"minAreaSqFt"`
	MaxAreaSqFt   *string   `json:"maxAreaSqFt"`
	Bedrooms      *string   `json:"bedrooms"`
	Bathrooms     *string   `json:"bathrooms"`
	Amenities     *[]string `json:"amenities"`
	Tags          *[]string `json:"tags"`
	Furnished     *string   `json:"furnished"`
	AvailableFrom *string   `json:"availableFrom"`
	AvailableTo   *string   `json:"availableTo"`
	MinRating     *string   `json:"minRating"`
	MaxRating     *string   `json:"maxRating"`
	IsVerified    *string   `json:"isVerified"`
	ListingType   *string   `json:"listingType"`
	PropertyType  *string   `json:"propertyType"`
}

func (r FilterPatchRequest) toDomain() (domain.FilterPatch, error) {
	patch := domain.FilterPatch{
		State:         r.State,
		City:          r.City,
		MinPrice:      r.MinPrice,
		MaxPrice:      r.MaxPrice,
		MinAreaSqFt:   r.MinAreaSqFt,
		MaxAreaSqFt:   r.MaxAreaSqFt,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		Amenities:     r.Amenities,
		Tags:          r.Tags,
		Furnished:     r.Furnished,
		AvailableFrom: r.AvailableFrom,
		AvailableTo:   r.AvailableTo,
		MinRating:     r.MinRating,
		MaxRating:     r.MaxRating,
		ListingType:   r.ListingType,
		PropertyType:  r.PropertyType,
	}
	if r.IsVerified != nil {
		tri, err := domain.ParseTriState(*r.IsVerified)
		if err != nil {
			return domain.FilterPatch{}, err
		}
		patch.IsVerified = &tri
	}
	return patch, nil
}

type PageRequest struct {
	Page int `json:"page"`
}

// ListingDraftRequest - тело создания и редактирования объявления.
type ListingDraftRequest struct {
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Price         float64  `json:"price"`
	State         string   `json:"state"`
	City          string   `json:"city"`
	AreaSqFt      float64  `json:"areaSqFt"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	Furnished     string   `json:"furnished"`
	AvailableFrom string   `json:"availableFrom"`
	ListedBy      string   `json:"listedBy"`
	Tags          []string `json:"tags"`
	Rating        float64  `json:"rating"`
	IsVerified    bool     `json:"isVerified"`
	ListingType   string   `json:"listingType"`
}

func (r ListingDraftRequest) toDomain() (domain.ListingDraft, error) {
	draft := domain.ListingDraft{
		Title:        strings.TrimSpace(r.Title),
		PropertyType: r.Type,
		Price:        r.Price,
		State:        r.State,
		City:         r.City,
		AreaSqFt:     r.AreaSqFt,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Amenities:    domain.NewTokenSet(r.Amenities...),
		Furnished:    r.Furnished,
		ListedBy:     r.ListedBy,
		Tags:         domain.NewTokenSet(r.Tags...),
		Rating:       r.Rating,
		IsVerified:   r.IsVerified,
		ListingType:  r.ListingType,
	}
	if s := strings.TrimSpace(r.AvailableFrom); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return domain.ListingDraft{}, fmt.Errorf("%w: availableFrom %q", domain.ErrInvalidListing, s)
		}
		draft.AvailableFrom = t
	}
	return draft, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type RecommendationRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	PropertyID     string `json:"propertyId"`
	Message        string `json:"message"`
}

type ToggleFavoriteResponse struct {
	ListingID  string `json:"listingId"`
	IsFavorite bool   `json:"isFavorite"`
}

type ProfileResponse struct {
	ID        string             `json:"_id"`
	FullName  string             `json:"full_name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Avatar    view_dto.AvatarDTO `json:"avatar"`
}

func toProfileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Avatar:    view_dto.ToAvatarDTO(domain.AvatarFor(p.ID)),
	}
}

type FavoriteResponse struct {
	ID        string               `json:"id"`
	ListingID string               `json:"listingId"`
	Listing   *view_dto.ListingDTO `json:"listing"`
	CreatedAt time.Time            `json:"createdAt"`
}

func toFavoriteResponses(favs []domain.Favorite) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(favs))
	for _, f := range favs {
		resp := FavoriteResponse{ID: f.ID, ListingID: f.ListingID, CreatedAt: f.CreatedAt}
		if f.Listing != nil {
			l := view_dto.ToListingDTO(*f.Listing)
			l.IsFavorite = true
			resp.Listing = &l
		}
		out = append(out, resp)
	}
	return out
}

type RecommendationSenderResponse struct {
	ID     string             `json:"id"`
	Email  string             `json:"email"`
	Avatar view_dto.AvatarDTO `json:"avatar"`
}

type RecommendationResponse struct {
	ID        string                       `json:"id"`
	Sender    RecommendationSenderResponse `json:"sender"`
	Listing   view_dto.ListingDTO          `json:"listing"`
	Message   string                       `json:"message"`
	CreatedAt time.Time                    `json:"createdAt"`
}

type ReceivedRecommendationsResponse struct {
	Recommendations      []RecommendationResponse `json:"recommendations"`
	DeletedListingsCount int                      `json:"deletedListingsCount"`
}

func toReceivedRecommendationsResponse(r domain.ReceivedRecommendations) ReceivedRecommendationsResponse {
	resp := ReceivedRecommendationsResponse{
		Recommendations:      make([]RecommendationResponse, 0, len(r.Items)),
		DeletedListingsCount: r.DeletedListingsCount,
	}
	for _, rec := range r.Items {
		resp.Recommendations = append(resp.Recommendations, RecommendationResponse{
			ID: rec.ID,
			Sender: RecommendationSenderResponse{
				ID:     rec.Sender.ID,
				Email:  rec.Sender.Email,
				Avatar: view_dto.ToAvatarDTO(rec.Sender.Avatar),
			},
			Listing:   view_dto.ToListingDTO(rec.Listing),
			Message:   rec.Message,
			CreatedAt: rec.CreatedAt,
		})
	}
	return resp
}

type StatesResponse struct {
	States    []string `json:"states"`
	TopCities []string `json:"topCities"`
}

type CitiesResponse struct {
	State  string   `json:"state"`
	Cities []string `json:"cities"`
}
