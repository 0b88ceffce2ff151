package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_JSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("IST", 5*3600+1800)))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-03T23:36:07.000Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Equal(back.Time))
}

func TestTimestamp_UnmarshalVariants(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-04T05:06:07+05:30"`), &ts))
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, time.UTC, ts.Location())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestamp_ZeroMarshalsNull(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestTimestamp_LexicalOrder(t *testing.T) {
	a := NewTimestamp(time.Date(2025, 1, 1, 0, 0, 0, 100_000_000, time.UTC))
	b := NewTimestamp(time.Date(2025, 1, 1, 0, 0, 0, 120_000_000, time.UTC))
	ad, _ := json.Marshal(a)
	bd, _ := json.Marshal(b)
	assert.Less(t, string(ad), string(bd))
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, SplitSkills(" Go, SQL ,,Kubernetes "))
	assert.Empty(t, SplitSkills(""))
}
