package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStates_Sorted(t *testing.T) {
	states := States()
	require.NotEmpty(t, states)
	assert.True(t, sort.StringsAreSorted(states))
}

func TestNormalizeState(t *testing.T) {
	state, ok := NormalizeState("  goa ")
	assert.True(t, ok)
	assert.Equal(t, "Goa", state)

	_, ok = NormalizeState("Atlantis")
	assert.False(t, ok)
}

func TestCitiesOf(t *testing.T) {
	cities := CitiesOf("GOA")
	assert.Contains(t, cities, "Panaji")

	cities[0] = "mutated"
	assert.NotContains(t, CitiesOf("Goa"), "mutated")

	assert.Empty(t, CitiesOf("Atlantis"))
}

func TestAllCities_ContainsTopCities(t *testing.T) {
	all := AllCities()
	assert.True(t, sort.StringsAreSorted(all))
	assert.NotEmpty(t, TopCities())
}
