package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDataLoads(t *testing.T) {
	kb, err := New()
	require.NoError(t, err)

	ooty, ok := kb.City("Ooty")
	require.True(t, ok)
	assert.Equal(t, "Ooty", ooty.Name)
	assert.NotEmpty(t, ooty.Attractions)
	assert.NotEmpty(t, ooty.Weather.Summer)

	assert.NotEmpty(t, kb.BestBeaches())
	assert.NotEmpty(t, kb.BestHillStations())
	assert.NotEmpty(t, kb.BestTemples())
	assert.NotEmpty(t, kb.MustTryFood("chennai"))
}

func TestPairLookupIsSymmetric(t *testing.T) {
	kb, err := New()
	require.NoError(t, err)

	d1, ok := kb.Distance("chennai", "pondicherry")
	require.True(t, ok)
	d2, ok := kb.Distance("Pondicherry", "Chennai")
	require.True(t, ok)
	assert.Equal(t, d1, d2)

	_, ok = kb.TravelTime("ooty", "jaipur")
	assert.False(t, ok)
}

func TestCityFromText(t *testing.T) {
	kb, err := New()
	require.NoError(t, err)

	c, ok := kb.CityFromText("What's the weather like in GOA?")
	require.True(t, ok)
	assert.Equal(t, "goa", c.Key)

	_, ok = kb.CityFromText("somewhere nice")
	assert.False(t, ok)
}

func TestCityKeysFeedExtractor(t *testing.T) {
	kb, err := New()
	require.NoError(t, err)

	keys := kb.CityKeys()
	require.NotEmpty(t, keys)
	for _, k := range keys {
		assert.NotEmpty(t, k.Key)
		assert.NotEmpty(t, k.Name)
	}
}

func TestNilBaseMisses(t *testing.T) {
	var b *Base

	_, ok := b.City("ooty")
	assert.False(t, ok)
	_, ok = b.CityFromText("ooty")
	assert.False(t, ok)
	_, ok = b.Distance("a", "b")
	assert.False(t, ok)
	assert.Nil(t, b.CityKeys())
	assert.Nil(t, b.MustTryFood("ooty"))
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("cities: [unterminated"))
	assert.Error(t, err)
}
