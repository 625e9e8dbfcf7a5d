// Package view_dto описывает JSON-представление состояния экрана,
// общее для REST-ответов и SSE-событий.
package view_dto

import (
	"rental-client/internal/core/domain"
	"time"
)

type ListingDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Price         float64   `json:"price"`
	State         string    `json:"state"`
	City          string    `json:"city"`
	AreaSqFt      float64   `json:"areaSqFt"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	Amenities     []string  `json:"amenities"`
	Furnished     string    `json:"furnished"`
	AvailableFrom *string   `json:"availableFrom"`
	ListedBy      string    `json:"listedBy"`
	Tags          []string  `json:"tags"`
	Rating        float64   `json:"rating"`
	IsVerified    bool      `json:"isVerified"`
	ListingType   string    `json:"listingType"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	// IsFavorite и CanManage вычисляются для текущего пользователя.
	IsFavorite bool `json:"isFavorite"`
	CanManage  bool `json:"canManage"`
}

// ToListingDTO переводит объявление в представление без пользовательских флагов.
func ToListingDTO(l domain.Listing) ListingDTO {
	dto := ListingDTO{
		ID:          l.ID,
		Title:       l.Title,
		Type:        l.PropertyType,
		Price:       l.Price,
		State:       l.State,
		City:        l.City,
		AreaSqFt:    l.AreaSqFt,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Amenities:   orEmpty(l.Amenities),
		Furnished:   l.Furnished,
		ListedBy:    l.ListedBy,
		Tags:        orEmpty(l.Tags),
		Rating:      l.Rating,
		IsVerified:  l.IsVerified,
		ListingType: l.ListingType,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if !l.AvailableFrom.IsZero() {
		s := l.AvailableFrom.Format("2006-01-02")
		dto.AvailableFrom = &s
	}
	return dto
}

type FiltersDTO struct {
	State         string   `json:"state"`
	City          string   `json:"city"`
	MinPrice      string   `json:"minPrice"`
	MaxPrice      string   `json:"maxPrice"`
	MinAreaSqFt   string   `json:"minAreaSqFt"`
	MaxAreaSqFt   string   `json:"maxAreaSqFt"`
	Bedrooms      string   `json:"bedrooms"`
	Bathrooms     string   `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	Tags          []string `json:"tags"`
	Furnished     string   `json:"furnished"`
	AvailableFrom string   `json:"availableFrom"`
	AvailableTo   string   `json:"availableTo"`
	MinRating     string   `json:"minRating"`
	MaxRating     string   `json:"maxRating"`
	IsVerified    string   `json:"isVerified"`
	ListingType   string   `json:"listingType"`
	PropertyType  string   `json:"propertyType"`
}

func ToFiltersDTO(f domain.FilterState) FiltersDTO {
	return FiltersDTO{
		State:         f.State,
		City:          f.City,
		MinPrice:      f.MinPrice,
		MaxPrice:      f.MaxPrice,
		MinAreaSqFt:   f.MinAreaSqFt,
		MaxAreaSqFt:   f.MaxAreaSqFt,
		Bedrooms:      f.Bedrooms,
		Bathrooms:     f.Bathrooms,
		Amenities:     orEmpty(f.Amenities),
		Tags:          orEmpty(f.Tags),
		Furnished:     f.Furnished,
		AvailableFrom: f.AvailableFrom,
		AvailableTo:   f.AvailableTo,
		MinRating:     f.MinRating,
		MaxRating:     f.MaxRating,
		IsVerified:    string(f.IsVerified),
		ListingType:   f.ListingType,
		PropertyType:  f.PropertyType,
	}
}

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Avatar    AvatarDTO `json:"avatar"`
}

type AvatarDTO struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

func ToAvatarDTO(a domain.Avatar) AvatarDTO {
	return AvatarDTO{Emoji: a.Emoji, Name: a.Name}
}

func ToUserDTO(u *domain.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		Avatar:    ToAvatarDTO(domain.AvatarFor(u.ID)),
	}
}

type FormDTO struct {
	Kind    string      `json:"kind"`
	Listing *ListingDTO `json:"listing,omitempty"`
}

type ViewStateDTO struct {
	Status             string       `json:"status"`
	Filters            FiltersDTO   `json:"filters"`
	Page               int          `json:"page"`
	PageSize           int          `json:"pageSize"`
	TotalCount         int          `json:"totalCount"`
	TotalPages         int          `json:"totalPages"`
	Items              []ListingDTO `json:"items"`
	FavoriteListingIDs []string     `json:"favoriteListingIds"`
	LastError          string       `json:"lastError,omitempty"`
	Form               FormDTO      `json:"form"`
	Viewer             *UserDTO     `json:"viewer"`
	Generation         uint64       `json:"generation"`
}

// ToViewStateDTO собирает снимок экрана и проставляет флаги избранного и прав владельца.
func ToViewStateDTO(s domain.ViewState) ViewStateDTO {
	favorites := make(map[string]struct{}, len(s.FavoriteListingIDs))
	for _, id := range s.FavoriteListingIDs {
		favorites[id] = struct{}{}
	}

	items := make([]ListingDTO, 0, len(s.Items))
	for _, l := range s.Items {
		dto := ToListingDTO(l)
		_, dto.IsFavorite = favorites[l.ID]
		dto.CanManage = l.ManageableBy(s.Viewer)
		items = append(items, dto)
	}

	form := FormDTO{Kind: string(s.Form.Kind)}
	if s.Form.Listing != nil {
		l := ToListingDTO(*s.Form.Listing)
		l.CanManage = s.Form.Listing.ManageableBy(s.Viewer)
		form.Listing = &l
	}

	return ViewStateDTO{
		Status:             string(s.Status),
		Filters:            ToFiltersDTO(s.Filters),
		Page:               s.Page,
		PageSize:           s.PageSize,
		TotalCount:         s.TotalCount,
		TotalPages:         s.TotalPages,
		Items:              items,
		FavoriteListingIDs: orEmpty(s.FavoriteListingIDs),
		LastError:          s.LastError,
		Form:               form,
		Viewer:             ToUserDTO(s.Viewer),
		Generation:         s.Generation,
	}
}

type NotificationDTO struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func ToNotificationDTO(n domain.Notification) NotificationDTO {
	return NotificationDTO{Kind: string(n.Kind), Title: n.Title, Description: n.Description}
}

// ToEventPayload переводит данные события представления в JSON-совместимую структуру.
// Неизвестные типы возвращаются как есть.
func ToEventPayload(data interface{}) interface{} {
	switch v := data.(type) {
	case domain.ViewState:
		return ToViewStateDTO(v)
	case domain.Notification:
		return ToNotificationDTO(v)
	default:
		return data
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
