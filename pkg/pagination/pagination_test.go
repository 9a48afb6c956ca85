package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 123, time.FixedZone("IST", 19800))
	encoded := EncodeCursor(Cursor{At: at, ID: "ORD1717243200000123"})

	got, err := ParseCursor(encoded)
	require.NoError(t, err)
	assert.True(t, got.At.Equal(at))
	assert.Equal(t, time.UTC, got.At.Location())
	assert.Equal(t, "ORD1717243200000123", got.ID)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	got, err := ParseCursor("  ")
	assert.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{"%%%", encodeRaw("no-separator"), encodeRaw("yesterday|o1"), encodeRaw("2024-06-01T12:00:00Z|")} {
		_, err := ParseCursor(bad)
		assert.Error(t, err, bad)
	}
}

func TestLimits(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, MaxLimit, NormalizeLimit(1000))
	assert.Equal(t, 11, LimitWithBuffer(10))
	assert.False(t, Params{}.Paged())
	assert.True(t, Params{Limit: 5}.Paged())
}

func TestTrim(t *testing.T) {
	rows, more := Trim([]int{1, 2, 3}, 2)
	assert.Equal(t, []int{1, 2}, rows)
	assert.True(t, more)

	rows, more = Trim([]int{1, 2}, 2)
	assert.Equal(t, []int{1, 2}, rows)
	assert.False(t, more)
}

func encodeRaw(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}
