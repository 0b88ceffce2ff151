package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValue_UnmarshalJSON(t *testing.T) {
	var req PostJobRequest
	err := json.Unmarshal([]byte(`{"title":" Go Dev ","openings":3,"years":null,"status":"active"}`), &req)
	require.NoError(t, err)

	assert.Equal(t, " Go Dev ", req.Title.String())
	assert.Equal(t, "Go Dev", req.Title.Trimmed())
	assert.Equal(t, FormValue("3"), req.Openings)
	assert.Equal(t, FormValue(""), req.Years)
	assert.Equal(t, FormValue("active"), req.Status)
}
