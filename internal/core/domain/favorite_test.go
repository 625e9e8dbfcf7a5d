package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavoriteSet(t *testing.T) {
	t.Run("pending entries are contained but have no favorite id", func(t *testing.T) {
		s := NewFavoriteSet()
		s.MarkPending("p1")

		assert.True(t, s.Contains("p1"))
		assert.True(t, s.IsPending("p1"))
		_, ok := s.FavoriteID("p1")
		assert.False(t, ok)

		s.Put("p1", "f1")
		assert.False(t, s.IsPending("p1"))
		favID, ok := s.FavoriteID("p1")
		assert.True(t, ok)
		assert.Equal(t, "f1", favID)
	})

	t.Run("remove by listing and by favorite id", func(t *testing.T) {
		s := NewFavoriteSet()
		s.Put("p1", "f1")
		s.Put("p2", "f2")

		favID, ok := s.Remove("p1")
		assert.True(t, ok)
		assert.Equal(t, "f1", favID)

		listingID, ok := s.RemoveByFavoriteID("f2")
		assert.True(t, ok)
		assert.Equal(t, "p2", listingID)
		assert.Zero(t, s.Len())

		_, ok = s.RemoveByFavoriteID("")
		assert.False(t, ok)
	})

	t.Run("replace skips favorites without listing id", func(t *testing.T) {
		s := NewFavoriteSet()
		s.Put("old", "f0")
		s.Replace([]Favorite{{ID: "f2", ListingID: "p2"}, {ID: "f1", ListingID: "p1"}, {ID: "f3"}})

		assert.Equal(t, []string{"p1", "p2"}, s.ListingIDs())
		assert.False(t, s.Contains("old"))
	})

	t.Run("pending listing ids", func(t *testing.T) {
		s := NewFavoriteSet()
		s.MarkPending("p2")
		s.Put("p1", "f1")
		s.MarkPending("p0")

		assert.Equal(t, []string{"p0", "p2"}, s.PendingListingIDs())
	})

	t.Run("replace never turns an entry without id into a pending mark", func(t *testing.T) {
		s := NewFavoriteSet()
		s.Replace([]Favorite{{ListingID: "p1"}, {ID: "f2", ListingID: "p2"}})

		assert.False(t, s.IsPending("p1"))
		assert.False(t, s.Contains("p1"))
		assert.Equal(t, []string{"p2"}, s.ListingIDs())
	})
}
