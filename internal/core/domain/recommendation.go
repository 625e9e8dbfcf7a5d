package domain

import "time"

// RecommendationSender - пользователь, порекомендовавший объявление.
type RecommendationSender struct {
	ID     string
	Email  string
	Avatar Avatar
}

// Recommendation - объявление, которое другой пользователь посоветовал текущему.
type Recommendation struct {
	ID        string
	Sender    RecommendationSender
	Listing   Listing
	Message   string
	CreatedAt time.Time
}

// ReceivedRecommendations - входящие рекомендации.
// DeletedListingsCount - сколько рекомендаций ссылались на уже удалённые объявления.
type ReceivedRecommendations struct {
	Items                []Recommendation
	DeletedListingsCount int
}

// RecommendationDraft - новая рекомендация объявления другому пользователю.
type RecommendationDraft struct {
	RecipientEmail string
	ListingID      string
	Message        string
}
