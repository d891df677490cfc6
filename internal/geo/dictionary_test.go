package geo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/cardfeed/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo.yml")
	body := `
- names: ["성수", "seongsu"]
  area: Seongsu-dong
  lat: 37.5446
  lng: 127.0559
- names: ["korea"]
  area: Korea
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	entries, err := geo.LoadDictionary(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Seongsu-dong", entries[0].Area)
	assert.True(t, entries[0].HasCoordinates())
	assert.False(t, entries[1].HasCoordinates())
}

func TestParseDictionary_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", "[]"},
		{"missing area", "- names: [a]"},
		{"missing names", "- area: A"},
		{"half coordinates", "- names: [a]\n  area: A\n  lat: 1"},
		{"not yaml list", "area: A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.ParseDictionary([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultDictionary_IsWellFormed(t *testing.T) {
	entries := geo.DefaultDictionary()
	require.NotEmpty(t, entries)

	assert.Equal(t, "Korea", entries[len(entries)-1].Area, "generic entry must be last")
	for _, e := range entries {
		assert.NotEmpty(t, e.Area)
		assert.NotEmpty(t, e.Names, e.Area)
	}
}
