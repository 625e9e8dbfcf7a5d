package usecase

import (
	"rental-client/internal/core/domain"
	"strconv"
	"strings"
)

type listingQueryBuilder struct {
	params domain.Query
}

func newListingQueryBuilder() *listingQueryBuilder {
	return &listingQueryBuilder{params: make(domain.Query, 0, 20)}
}

// addExact добавляет параметр, только если значение не пустое.
// Значение не валидируется: некорректное число уходит на бэкенд как есть.
func (qb *listingQueryBuilder) addExact(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	qb.params = append(qb.params, domain.QueryParam{Key: key, Value: value})
}

// addRange раскладывает диапазон на две границы с суффиксами gte/lte.
func (qb *listingQueryBuilder) addRange(field, min, max string) {
	qb.addExact(field+"[gte]", min)
	qb.addExact(field+"[lte]", max)
}

// addSet склеивает множество в один параметр через запятую.
func (qb *listingQueryBuilder) addSet(key string, set domain.TokenSet) {
	qb.addExact(key, domain.NewTokenSet(set...).Join())
}

func (qb *listingQueryBuilder) addTriState(key string, value domain.TriState) {
	if value.IsSet() {
		qb.addExact(key, string(value))
	}
}

// BuildListingQuery переводит состояние фильтра и пагинацию в упорядоченный запрос.
// Чистая функция: одинаковый вход всегда даёт одинаковый набор и порядок параметров,
// page и limit всегда идут последними.
func BuildListingQuery(filters domain.FilterState, page, pageSize int) domain.Query {
	qb := newListingQueryBuilder()

	// Локация
	qb.addExact("state", filters.State)
	qb.addExact("city", filters.City)

	// Диапазоны и минимальные значения
	qb.addRange("price", filters.MinPrice, filters.MaxPrice)
	qb.addRange("areaSqFt", filters.MinAreaSqFt, filters.MaxAreaSqFt)
	qb.addExact("bedrooms[gte]", filters.Bedrooms)
	qb.addExact("bathrooms[gte]", filters.Bathrooms)

	// Множества
	qb.addSet("amenities", filters.Amenities)
	qb.addSet("tags", filters.Tags)

	qb.addExact("furnished", filters.Furnished)
	qb.addRange("availableFrom", filters.AvailableFrom, filters.AvailableTo)
	qb.addRange("rating", filters.MinRating, filters.MaxRating)
	qb.addTriState("isVerified", filters.IsVerified)
	qb.addExact("listingType", filters.ListingType)
	qb.addExact("type", filters.PropertyType)

	if page < 1 {
		page = 1
	}
	qb.params = append(qb.params,
		domain.QueryParam{Key: "page", Value: strconv.Itoa(page)},
		domain.QueryParam{Key: "limit", Value: strconv.Itoa(pageSize)},
	)

	return qb.params
}
