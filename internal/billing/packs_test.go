package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreditsForPrice(t *testing.T) {
	t.Parallel()

	for _, p := range Packs() {
		credits, ok := CreditsForPrice(p.PriceID)
		require.True(t, ok)
		require.Equal(t, p.Credits, credits)
	}

	_, ok := CreditsForPrice("price_unknown")
	require.False(t, ok)

	_, ok = CreditsForPrice("")
	require.False(t, ok)
}

func TestPackForID(t *testing.T) {
	t.Parallel()

	pack, ok := PackForID("starter")
	require.True(t, ok)
	require.Equal(t, "Starter", pack.Name)

	_, ok = PackForID("enterprise")
	require.False(t, ok)
}

func TestPacks_IsACopy(t *testing.T) {
	t.Parallel()

	a := Packs()
	a[0].Credits = 9999

	b := Packs()
	require.NotEqual(t, int32(9999), b[0].Credits)
}
