package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/job-tracker/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"users.schema.json",
		"recruiters.schema.json",
		"appliers.schema.json",
		"jobs.schema.json",
		"applications.schema.json",
		"savedJobs.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemas.FS.ReadFile(schemaFile)
			require.NoError(t, err, "schema file should be embedded")

			var parsed map[string]any
			require.NoError(t, json.Unmarshal(data, &parsed), "schema should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", parsed["$schema"])
		})
	}
}
