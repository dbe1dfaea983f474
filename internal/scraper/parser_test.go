package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `
Bogazici Universitesi Kandilli Rasathanesi

 Tarih      Saat      Enlem(N)  Boylam(E) Derinlik(km)  MD   ML   Mw    Yer                                              Cozum Niteligi
---------- --------  --------  -------   ----------    ------------    --------------                                  --------------
2025.01.15 14:30:25  38.4237   27.1428        7.2      -.-  4.1  -.-   IZMIR KORFEZI (EGE DENIZI)                       İlksel
2025.01.15 15:45:12  39.9208   32.8541       10.0      3.5  3.7  -.-   ANKARA                                           İlksel
2025.01.15 16:02:33  40.7128   29.1234        5.4      -.-  -.-  -.-   MARMARA DENIZI                                   İlksel
bad line
2025.01.15 16:10:00  not-a-number 29.1234    5.4      -.-  2.1  -.-   GEMLIK KORFEZI (MARMARA DENIZI)                  İlksel
Sitemizde yayımlanan veriler telif hakları nedeniyle kaynak gösterilmeden kullanılamaz.
2025.01.15 17:00:00  36.0000   30.0000        8.0      -.-  5.0  -.-   AKDENIZ                                          İlksel
`

func TestParse(t *testing.T) {
	p := NewParser(nil)

	observations := p.Parse(samplePage)

	// Three valid lines; the malformed ones are skipped and everything after
	// the copyright footer is ignored.
	require.Len(t, observations, 3)

	first := observations[0]
	assert.Equal(t, "2025.01.15", first.Date)
	assert.Equal(t, "14:30:25", first.Time)
	assert.Equal(t, 38.4237, first.Latitude)
	assert.Equal(t, 27.1428, first.Longitude)
	assert.Equal(t, 7.2, first.Depth)
	assert.Nil(t, first.MagnitudeMD)
	require.NotNil(t, first.MagnitudeML)
	assert.Equal(t, 4.1, *first.MagnitudeML)
	assert.Nil(t, first.MagnitudeMW)
	assert.Equal(t, "IZMIR KORFEZI (EGE DENIZI)", first.Location)
	assert.Equal(t, "İlksel", first.Quality)
	assert.Equal(t, time.Date(2025, 1, 15, 14, 30, 25, 0, time.UTC), first.DateTimeUTC)

	second := observations[1]
	require.NotNil(t, second.MagnitudeMD)
	assert.Equal(t, 3.5, *second.MagnitudeMD)
	assert.Equal(t, "ANKARA", second.Location)

	third := observations[2]
	assert.Nil(t, third.MagnitudeML)
	assert.Equal(t, "MARMARA DENIZI", third.Location)
}

func TestParse_NoHeader(t *testing.T) {
	p := NewParser(nil)

	// Without the column header nothing counts as data.
	observations := p.Parse("2025.01.15 14:30:25  38.4237 27.1428 7.2 -.- 4.1 -.- IZMIR İlksel")

	assert.Empty(t, observations)
}

func TestParseLine(t *testing.T) {
	p := NewParser(nil)

	t.Run("multi word location", func(t *testing.T) {
		obs, ok := p.parseLine("2025.01.15 14:30:25  38.4237   27.1428  7.2  -.-  4.1  -.-  IZMIR KORFEZI (EGE DENIZI)  İlksel")

		require.True(t, ok)
		assert.Equal(t, "IZMIR KORFEZI (EGE DENIZI)", obs.Location)
		assert.Equal(t, "İlksel", obs.Quality)
	})

	t.Run("revised quality", func(t *testing.T) {
		obs, ok := p.parseLine("2025.01.15 14:30:25  38.4237   27.1428  7.2  -.-  4.2  -.-  IZMIR KORFEZI (EGE DENIZI)  REVIZE01")

		require.True(t, ok)
		assert.Equal(t, "REVIZE01", obs.Quality)
		require.NotNil(t, obs.MagnitudeML)
		assert.Equal(t, 4.2, *obs.MagnitudeML)
	})

	t.Run("separator line", func(t *testing.T) {
		_, ok := p.parseLine("---------- --------  --------  -------   ----------")
		assert.False(t, ok)
	})

	t.Run("empty line", func(t *testing.T) {
		_, ok := p.parseLine("   ")
		assert.False(t, ok)
	})

	t.Run("too few fields", func(t *testing.T) {
		_, ok := p.parseLine("2025.01.15 14:30:25 38.4237")
		assert.False(t, ok)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, ok := p.parseLine("2025.13.45 14:30:25  38.4237   27.1428  7.2  -.-  4.1  -.-  IZMIR KORFEZI  İlksel")
		assert.False(t, ok)
	})
}

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *float64
	}{
		{"placeholder", "-.-", nil},
		{"empty", "", nil},
		{"garbage", "abc", nil},
		{"valid", "4.1", func() *float64 { v := 4.1; return &v }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMagnitude(tt.value)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
