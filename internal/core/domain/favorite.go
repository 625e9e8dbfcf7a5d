package domain

import (
	"sort"
	"time"
)

// Favorite - запись об объявлении в избранном пользователя.
type Favorite struct {
	ID        string
	ListingID string
	// Listing может быть nil, если бэкенд вернул только идентификатор объявления.
	Listing   *Listing
	CreatedAt time.Time
}

// pendingFavoriteID - метка оптимистично добавленной записи, ID которой сервер ещё не вернул.
const pendingFavoriteID = ""

// FavoriteSet отображает ID объявления в ID записи избранного.
// Живёт только в пределах сессии и не сохраняется локально. Не потокобезопасен.
type FavoriteSet struct {
	entries map[string]string
}

func NewFavoriteSet() *FavoriteSet {
	return &FavoriteSet{entries: make(map[string]string)}
}

// Contains сообщает, находится ли объявление в избранном (включая ещё не подтверждённые).
func (s *FavoriteSet) Contains(listingID string) bool {
	_, ok := s.entries[listingID]
	return ok
}

// IsPending сообщает, что добавление отправлено, но ещё не подтверждено сервером.
func (s *FavoriteSet) IsPending(listingID string) bool {
	favID, ok := s.entries[listingID]
	return ok && favID == pendingFavoriteID
}

// FavoriteID возвращает ID записи избранного для удаления.
func (s *FavoriteSet) FavoriteID(listingID string) (string, bool) {
	favID, ok := s.entries[listingID]
	if !ok || favID == pendingFavoriteID {
		return "", false
	}
	return favID, true
}

func (s *FavoriteSet) Put(listingID, favoriteID string) {
	if listingID == "" {
		return
	}
	s.entries[listingID] = favoriteID
}

// MarkPending оптимистично помечает объявление избранным до ответа сервера.
func (s *FavoriteSet) MarkPending(listingID string) {
	s.Put(listingID, pendingFavoriteID)
}

// Remove убирает объявление и возвращает ID удалённой записи.
func (s *FavoriteSet) Remove(listingID string) (string, bool) {
	favID, ok := s.entries[listingID]
	if ok {
		delete(s.entries, listingID)
	}
	return favID, ok
}

// RemoveByFavoriteID убирает запись по ID избранного и возвращает ID объявления.
func (s *FavoriteSet) RemoveByFavoriteID(favoriteID string) (string, bool) {
	if favoriteID == pendingFavoriteID {
		return "", false
	}
	for listingID, favID := range s.entries {
		if favID == favoriteID {
			delete(s.entries, listingID)
			return listingID, true
		}
	}
	return "", false
}

// Replace заменяет содержимое множества записями с сервера.
// Запись без ID пропускается: иначе она стала бы меткой ожидания.
func (s *FavoriteSet) Replace(favorites []Favorite) {
	s.entries = make(map[string]string, len(favorites))
	for _, f := range favorites {
		if f.ID == pendingFavoriteID {
			continue
		}
		s.Put(f.ListingID, f.ID)
	}
}

// PendingListingIDs возвращает объявления, добавление которых ещё не подтверждено.
func (s *FavoriteSet) PendingListingIDs() []string {
	var ids []string
	for listingID, favID := range s.entries {
		if favID == pendingFavoriteID {
			ids = append(ids, listingID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ListingIDs возвращает отсортированный список ID избранных объявлений.
func (s *FavoriteSet) ListingIDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *FavoriteSet) Len() int {
	return len(s.entries)
}
