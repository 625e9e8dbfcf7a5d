package domain

import (
	"fmt"
	"slices"
	"strings"
)

// TriState - значение фильтра с тремя вариантами: "любой", "да", "нет".
type TriState string

const (
	TriAny   TriState = ""
	TriTrue  TriState = "true"
	TriFalse TriState = "false"
)

// ParseTriState разбирает строковое представление. Пустая строка и "any" означают отсутствие ограничения.
func ParseTriState(s string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return TriAny, nil
	case "true", "yes":
		return TriTrue, nil
	case "false", "no":
		return TriFalse, nil
	default:
		return TriAny, fmt.Errorf("%w: unknown tri-state value %q", ErrInvalidFilter, s)
	}
}

// IsSet сообщает, задано ли ограничение.
func (t TriState) IsSet() bool {
	return t == TriTrue || t == TriFalse
}

// TokenSet - множество строковых токенов (удобства, теги).
// Порядок добавления сохраняется, чтобы запрос строился детерминированно.
type TokenSet []string

// NewTokenSet строит множество, отбрасывая пустые значения и дубликаты.
func NewTokenSet(tokens ...string) TokenSet {
	set := make(TokenSet, 0, len(tokens))
	for _, t := range tokens {
		set = set.With(t)
	}
	return set
}

func (s TokenSet) Contains(token string) bool {
	return slices.Contains(s, strings.TrimSpace(token))
}

// With возвращает новое множество с добавленным токеном.
func (s TokenSet) With(token string) TokenSet {
	token = strings.TrimSpace(token)
	if token == "" || s.Contains(token) {
		return s
	}
	next := make(TokenSet, len(s), len(s)+1)
	copy(next, s)
	return append(next, token)
}

// Without возвращает новое множество без токена.
func (s TokenSet) Without(token string) TokenSet {
	token = strings.TrimSpace(token)
	next := make(TokenSet, 0, len(s))
	for _, t := range s {
		if t != token {
			next = append(next, t)
		}
	}
	return next
}

// Toggle добавляет токен, если его нет, и убирает, если он есть.
func (s TokenSet) Toggle(token string) TokenSet {
	if s.Contains(token) {
		return s.Without(token)
	}
	return s.With(token)
}

// Join склеивает токены через запятую.
func (s TokenSet) Join() string {
	return strings.Join(s, ",")
}

// FilterState - закрытый набор полей фильтра списка объявлений.
// Пустая строка у любого поля означает "без ограничения".
type FilterState struct {
	State string
	City  string

	MinPrice string
	MaxPrice string

	MinAreaSqFt string
	MaxAreaSqFt string

	Bedrooms  string
	Bathrooms string

	Amenities TokenSet
	Tags      TokenSet

	Furnished string

	AvailableFrom string
	AvailableTo   string

	MinRating string
	MaxRating string

	IsVerified   TriState
	ListingType  string
	PropertyType string
}

// IsEmpty сообщает, что ни одно ограничение не задано.
func (f FilterState) IsEmpty() bool {
	return f.Equal(FilterState{})
}

// Equal сравнивает два состояния фильтра. Пустое и nil-множество считаются равными.
func (f FilterState) Equal(other FilterState) bool {
	if !slices.Equal(f.Amenities, other.Amenities) || !slices.Equal(f.Tags, other.Tags) {
		return false
	}
	return f.scalars() == other.scalars()
}

func (f FilterState) scalars() [16]string {
	return [16]string{
		f.State, f.City,
		f.MinPrice, f.MaxPrice,
		f.MinAreaSqFt, f.MaxAreaSqFt,
		f.Bedrooms, f.Bathrooms,
		f.Furnished,
		f.AvailableFrom, f.AvailableTo,
		f.MinRating, f.MaxRating,
		string(f.IsVerified), f.ListingType, f.PropertyType,
	}
}

// FilterPatch - частичное изменение фильтра. nil означает "поле не меняется".
type FilterPatch struct {
	State *string
	City  *string

	MinPrice *string
	MaxPrice *string

	MinAreaSqFt *string
	MaxAreaSqFt *string

	Bedrooms  *string
	Bathrooms *string

	Amenities *[]string
	Tags      *[]string

	Furnished *string

	AvailableFrom *string
	AvailableTo   *string

	MinRating *string
	MaxRating *string

	IsVerified   *TriState
	ListingType  *string
	PropertyType *string
}

// Apply возвращает новое состояние фильтра с применённым патчем.
// Смена региона всегда сбрасывает город, даже если город пришёл в том же патче.
func (f FilterState) Apply(p FilterPatch) FilterState {
	next := f

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	set(&next.City, p.City)
	if p.State != nil {
		state := strings.TrimSpace(*p.State)
		if state != f.State {
			next.State = state
			next.City = ""
		}
	}

	set(&next.MinPrice, p.MinPrice)
	set(&next.MaxPrice, p.MaxPrice)
	set(&next.MinAreaSqFt, p.MinAreaSqFt)
	set(&next.MaxAreaSqFt, p.MaxAreaSqFt)
	set(&next.Bedrooms, p.Bedrooms)
	set(&next.Bathrooms, p.Bathrooms)
	set(&next.Furnished, p.Furnished)
	set(&next.AvailableFrom, p.AvailableFrom)
	set(&next.AvailableTo, p.AvailableTo)
	set(&next.MinRating, p.MinRating)
	set(&next.MaxRating, p.MaxRating)
	set(&next.ListingType, p.ListingType)
	set(&next.PropertyType, p.PropertyType)

	if p.Amenities != nil {
		next.Amenities = NewTokenSet(*p.Amenities...)
	}
	if p.Tags != nil {
		next.Tags = NewTokenSet(*p.Tags...)
	}
	if p.IsVerified != nil {
		next.IsVerified = *p.IsVerified
	}

	return next
}
