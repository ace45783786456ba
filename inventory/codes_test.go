package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodeSet(t *testing.T) {
	t.Run("trims and drops empties", func(t *testing.T) {
		s := ParseCodeSet(" D1 , ,D2,, D3")
		assert.Equal(t, []string{"D1", "D2", "D3"}, s.Codes())
		assert.Equal(t, "D1,D2,D3", s.Join())
	})

	t.Run("deduplicates keeping first occurrence", func(t *testing.T) {
		s := ParseCodeSet("D1,D2,D1,D2")
		assert.Equal(t, []string{"D1", "D2"}, s.Codes())
	})

	t.Run("empty input parses to empty set", func(t *testing.T) {
		assert.True(t, ParseCodeSet("").IsEmpty())
		assert.Equal(t, "", ParseCodeSet("").Join())
	})
}

func TestCodeSetOperations(t *testing.T) {
	a := ParseCodeSet("D1,D2,D3")
	b := ParseCodeSet("D3,D4")

	assert.Equal(t, []string{"D1", "D2", "D3", "D4"}, a.Union(b).Codes())
	assert.Equal(t, []string{"D1", "D2"}, a.Diff(b).Codes())
	assert.Equal(t, []string{"D3"}, a.Intersect(b).Codes())
	assert.True(t, a.Contains("D2"))
	assert.False(t, a.Contains("D4"))

	assert.True(t, ParseCodeSet("D2,D1").Equal(ParseCodeSet("D1,D2")))
	assert.False(t, a.Equal(b))
	assert.True(t, CodeSet{}.Equal(ParseCodeSet("")))
}

func TestCodeSetCodesIsACopy(t *testing.T) {
	s := ParseCodeSet("D1,D2")
	got := s.Codes()
	got[0] = "mutated"
	assert.Equal(t, []string{"D1", "D2"}, s.Codes())
}

func TestFlexStrings(t *testing.T) {
	t.Run("accepts comma-joined string", func(t *testing.T) {
		var f FlexStrings
		require.NoError(t, json.Unmarshal([]byte(`"D1, D2,D3"`), &f))
		assert.Equal(t, []string{"D1", "D2", "D3"}, f.Set().Codes())
	})

	t.Run("accepts array", func(t *testing.T) {
		var f FlexStrings
		require.NoError(t, json.Unmarshal([]byte(`["D1","D2"]`), &f))
		assert.Equal(t, []string{"D1", "D2"}, f.Set().Codes())
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var f FlexStrings
		assert.Error(t, json.Unmarshal([]byte(`42`), &f))
	})
}
