// Package repository holds the typed data access for every resource family.
// Each family file declares its resource descriptor and the methods handlers
// call; the shared engine supplies guards, cascades and query building.
package repository

import (
	"encoding/json"

	"coursehub/internal/db"
	"coursehub/internal/resource"
)

type Store struct {
	db     *db.Store
	engine *resource.Engine
}

func NewStore(d *db.Store) *Store {
	return &Store{db: d, engine: resource.NewEngine(d)}
}

// encodeStrings renders a string slice as a JSON array for jsonb columns,
// never null so empty lists round-trip as [].
func encodeStrings(values []string) []byte {
	if values == nil {
		values = []string{}
	}
	buf, _ := json.Marshal(values)
	return buf
}

func decodeStrings(raw []byte) []string {
	var values []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &values)
	}
	if values == nil {
		values = []string{}
	}
	return values
}
