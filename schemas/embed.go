// Package schemas holds the JSON Schema documents for every stored collection.
package schemas

import "embed"

// FS contains one <collection>.schema.json per collection.
//
//go:embed *.schema.json
var FS embed.FS
