package marketplace_api_client

import (
	"bytes"
	"encoding/json"
	"rental-client/internal/core/domain"
	"strings"
	"time"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// apiTime разбирает даты в RFC3339 или в формате YYYY-MM-DD. Пустая строка и null дают нулевое время.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// Нечитаемую дату не считаем фатальной: объявление всё равно нужно показать.
	return nil
}

// propertyDTO - объявление в формате бэкенда.
type propertyDTO struct {
	MongoID       string   `json:"_id"`
	ID            string   `json:"id,omitempty"`
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
	AvailableFrom apiTime  `json:"availableFrom"`
	ListedBy      string   `json:"listedBy"`
	Tags          []string `json:"tags"`
	Rating        float64  `json:"rating"`
	IsVerified    bool     `json:"isVerified"`
	ListingType   string   `json:"listingType"`
	CreatedBy     string   `json:"createdBy"`
	CreatedAt     apiTime  `json:"createdAt"`
	UpdatedAt     apiTime  `json:"updatedAt"`
}

func (p propertyDTO) toDomain() domain.Listing {
	id := p.MongoID
	if id == "" {
		id = p.ID
	}
	return domain.Listing{
		ID:            id,
		Title:         p.Title,
		PropertyType:  p.Type,
		Price:         p.Price,
		State:         p.State,
		City:          p.City,
		AreaSqFt:      p.AreaSqFt,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Amenities:     p.Amenities,
		Furnished:     p.Furnished,
		AvailableFrom: p.AvailableFrom.Time,
		ListedBy:      p.ListedBy,
		Tags:          p.Tags,
		Rating:        p.Rating,
		IsVerified:    p.IsVerified,
		ListingType:   p.ListingType,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt.Time,
		UpdatedAt:     p.UpdatedAt.Time,
	}
}

// propertyEnvelope покрывает оба варианта ответа: голый объект и {"data": {...}}.
type propertyEnvelope struct {
	propertyDTO
	Data *propertyDTO `json:"data"`
}

func (e propertyEnvelope) toDomain() domain.Listing {
	if e.Data != nil {
		return e.Data.toDomain()
	}
	return e.propertyDTO.toDomain()
}

// propertyRequest - тело создания и обновления объявления.
type propertyRequest struct {
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Price         float64  `json:"price"`
	State         string   `json:"state"`
	City          string   `json:"city"`
	AreaSqFt      float64  `json:"areaSqFt"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	Furnished     string   `json:"furnished,omitempty"`
	AvailableFrom string   `json:"availableFrom,omitempty"`
	ListedBy      string   `json:"listedBy,omitempty"`
	Tags          []string `json:"tags"`
	Rating        float64  `json:"rating"`
	IsVerified    bool     `json:"isVerified"`
	ListingType   string   `json:"listingType"`
}

func toPropertyRequest(d domain.ListingDraft) propertyRequest {
	req := propertyRequest{
		Title:       d.Title,
		Type:        d.PropertyType,
		Price:       d.Price,
		State:       d.State,
		City:        d.City,
		AreaSqFt:    d.AreaSqFt,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Amenities:   nonNil(d.Amenities),
		Furnished:   d.Furnished,
		ListedBy:    d.ListedBy,
		Tags:        nonNil(d.Tags),
		Rating:      d.Rating,
		IsVerified:  d.IsVerified,
		ListingType: d.ListingType,
	}
	if !d.AvailableFrom.IsZero() {
		req.AvailableFrom = d.AvailableFrom.UTC().Format(time.RFC3339)
	}
	return req
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type propertyListResponse struct {
	Status  string        `json:"status"`
	Results int           `json:"results"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	Pages   int           `json:"pages"`
	Data    []propertyDTO `json:"data"`
}

// favoriteDTO - запись избранного. property приходит либо объектом, либо строкой с ID.
type favoriteDTO struct {
	MongoID   string          `json:"_id"`
	ID        string          `json:"id,omitempty"`
	User      string          `json:"user"`
	Property  json.RawMessage `json:"property"`
	CreatedAt apiTime         `json:"createdAt"`
}

func (f favoriteDTO) id() string {
	if f.MongoID != "" {
		return f.MongoID
	}
	return f.ID
}

func (f favoriteDTO) toDomain() domain.Favorite {
	fav := domain.Favorite{ID: f.id(), CreatedAt: f.CreatedAt.Time}

	trimmed := bytes.TrimSpace(f.Property)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err == nil {
			fav.ListingID = id
		}
	default:
		var p propertyDTO
		if err := json.Unmarshal(trimmed, &p); err == nil {
			listing := p.toDomain()
			fav.ListingID = listing.ID
			fav.Listing = &listing
		}
	}
	return fav
}

// favoriteEnvelope - ответ на добавление: голый объект или {"status": ..., "data": {...}}.
type favoriteEnvelope struct {
	favoriteDTO
	Data *favoriteDTO `json:"data"`
}

func (e favoriteEnvelope) toDomain() domain.Favorite {
	if e.Data != nil {
		return e.Data.toDomain()
	}
	return e.favoriteDTO.toDomain()
}

type addFavoriteRequest struct {
	PropertyID string `json:"propertyId"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        string  `json:"id"`
	MongoID   string  `json:"_id"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CreatedAt apiTime `json:"createdAt"`
}

func (u userDTO) toDomain() domain.User {
	id := u.ID
	if id == "" {
		id = u.MongoID
	}
	return domain.User{ID: id, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt.Time}
}

type authResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Data   struct {
		User userDTO `json:"user"`
	} `json:"data"`
}

type profileDTO struct {
	ID        string  `json:"_id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	CreatedAt apiTime `json:"createdAt"`
	UpdatedAt apiTime `json:"updatedAt"`
}

func (p profileDTO) toDomain() domain.Profile {
	return domain.Profile{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt.Time,
		UpdatedAt: p.UpdatedAt.Time,
	}
}

type profileEnvelope struct {
	profileDTO
	Data *profileDTO `json:"data"`
}

func (e profileEnvelope) toDomain() domain.Profile {
	if e.Data != nil {
		return e.Data.toDomain()
	}
	return e.profileDTO.toDomain()
}

type profileUpdateRequest struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type recommendationSenderDTO struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Email   string `json:"email"`
}

type recommendationDTO struct {
	ID        string                  `json:"_id"`
	FromUser  recommendationSenderDTO `json:"fromUser"`
	Property  *propertyDTO            `json:"property"`
	Message   string                  `json:"message"`
	CreatedAt apiTime                 `json:"createdAt"`
}

type receivedRecommendationsResponse struct {
	Recommendations        []recommendationDTO `json:"recommendations"`
	DeletedPropertiesCount int                 `json:"deletedPropertiesCount"`
}

func (r receivedRecommendationsResponse) toDomain() domain.ReceivedRecommendations {
	out := domain.ReceivedRecommendations{
		Items:                make([]domain.Recommendation, 0, len(r.Recommendations)),
		DeletedListingsCount: r.DeletedPropertiesCount,
	}
	for _, rec := range r.Recommendations {
		// Рекомендации на удалённые объявления бэкенд учитывает в deletedPropertiesCount.
		if rec.Property == nil {
			continue
		}
		senderID := rec.FromUser.MongoID
		if senderID == "" {
			senderID = rec.FromUser.ID
		}
		out.Items = append(out.Items, domain.Recommendation{
			ID:        rec.ID,
			Sender:    domain.RecommendationSender{ID: senderID, Email: rec.FromUser.Email},
			Listing:   rec.Property.toDomain(),
			Message:   rec.Message,
			CreatedAt: rec.CreatedAt.Time,
		})
	}
	return out
}

type sendRecommendationRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	PropertyID     string `json:"propertyId"`
	Message        string `json:"message,omitempty"`
}
