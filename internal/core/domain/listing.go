package domain

import "time"

// Listing - объявление об аренде или продаже, как его отдаёт бэкенд.
// Ядру нужны только ID (для избранного и правок) и CreatedBy (для прав владельца),
// остальные поля переносятся для отображения.
type Listing struct {
	ID            string
	Title         string
	PropertyType  string
	Price         float64
	State         string
	City          string
	AreaSqFt      float64
	Bedrooms      int
	Bathrooms     int
	Amenities     []string
	Furnished     string
	AvailableFrom time.Time
	ListedBy      string
	Tags          []string
	Rating        float64
	IsVerified    bool
	ListingType   string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ManageableBy сообщает, может ли пользователь редактировать и удалять объявление.
func (l Listing) ManageableBy(user *User) bool {
	return user != nil && user.ID != "" && user.ID == l.CreatedBy
}

// ListingDraft - данные формы создания или редактирования объявления.
type ListingDraft struct {
	Title         string
	PropertyType  string
	Price         float64
	State         string
	City          string
	AreaSqFt      float64
	Bedrooms      int
	Bathrooms     int
	Amenities     []string
	Furnished     string
	AvailableFrom time.Time
	ListedBy      string
	Tags          []string
	Rating        float64
	IsVerified    bool
	ListingType   string
}

// ListingPage - одна страница результатов поиска.
type ListingPage struct {
	Items      []Listing
	TotalCount int
	Page       int
	TotalPages int
}

// Find ищет объявление на странице по ID.
func (p ListingPage) Find(id string) (Listing, bool) {
	for _, l := range p.Items {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

// PagesFor считает количество страниц для заданного размера страницы.
func PagesFor(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
