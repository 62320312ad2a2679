// Package schema exposes the embedded menu-document JSON Schema for runtime use.
package schema

import (
	_ "embed"
	"encoding/json"
	"sync"
)

type schemaDoc struct {
	ID      string `json:"$id"`
	Version string `json:"version"`
}

// Canonical menu-document schema embedded for validation tooling.
//
//go:embed menu-node.schema.json
var menuNodeSchema []byte

var (
	metaOnce sync.Once
	metaID   string
	metaVer  string
	metaErr  error
)

// MenuNodeSchema returns the raw menu-document JSON Schema bytes.
func MenuNodeSchema() []byte {
	out := make([]byte, len(menuNodeSchema))
	copy(out, menuNodeSchema)
	return out
}

// MenuNodeSchemaVersion returns the schema version declared in the canonical
// document (source of truth: docs/schema/menu-node.schema.json).
func MenuNodeSchemaVersion() (string, error) {
	metaOnce.Do(loadMeta)
	return metaVer, metaErr
}

// MenuNodeSchemaID returns the schema identifier declared in the canonical
// document.
func MenuNodeSchemaID() (string, error) {
	metaOnce.Do(loadMeta)
	return metaID, metaErr
}

func loadMeta() {
	var doc schemaDoc
	metaErr = json.Unmarshal(menuNodeSchema, &doc)
	if metaErr == nil {
		metaID = doc.ID
		metaVer = doc.Version
	}
}
