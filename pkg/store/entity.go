package store

import (
	"fmt"
	"reflect"
)

// Entity is a loosely typed record keyed by field name. Values are the
// JSON scalar set (string, float64, bool, nil) plus nested slices and
// maps thereof.
type Entity map[string]interface{}

// EntityKey uniquely identifies one entity of one indexer.
type EntityKey struct {
	IndexerID  string
	EntityType string
	EntityID   string
}

func (k EntityKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.IndexerID, k.EntityType, k.EntityID)
}

// ID returns the entity's "id" field.
func (e Entity) ID() (string, error) {
	v, ok := e["id"]
	if !ok {
		return "", fmt.Errorf("entity has no id field")
	}
	id, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("entity id is not a string: %v", v)
	}
	return id, nil
}

// Copy returns a shallow copy one level deep. Nested values are shared;
// handlers treat entities as immutable once set.
func (e Entity) Copy() Entity {
	if e == nil {
		return nil
	}
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Equal reports field-wise equality.
func (e Entity) Equal(other Entity) bool {
	if len(e) != len(other) {
		return false
	}
	return reflect.DeepEqual(e, other)
}

// Merge sets every field of update on e, replacing existing values and
// preserving fields absent from update.
func (e Entity) Merge(update Entity) {
	for k, v := range update {
		e[k] = v
	}
}

// MergeRemoveNullFields is Merge, except a nil value in update deletes
// the field instead of storing the null.
func (e Entity) MergeRemoveNullFields(update Entity) {
	for k, v := range update {
		if v == nil {
			delete(e, k)
			continue
		}
		e[k] = v
	}
}
