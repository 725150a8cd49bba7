package attrs

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-attrs/internal/hydrate"
	"github.com/google/uuid"
)

// Hydrate decodes the record's current attributes into a typed struct via
// JSON field mapping. Attribute values must therefore be JSON-serialisable.
func Hydrate[T any](o *Observable) (T, error) {
	ctx := hydrate.Context{Record: o.LogicalName()}
	if record, ok := o.record.(*MapRecord); ok && record.ID() != uuid.Nil {
		ctx.ID = record.ID().String()
	}
	return hydrate.NewDecoder[T]().Decode(ctx, o.Attributes())
}

// HydrateStrict is Hydrate with unknown attribute keys rejected.
func HydrateStrict[T any](o *Observable) (T, error) {
	ctx := hydrate.Context{Record: o.LogicalName()}
	if record, ok := o.record.(*MapRecord); ok && record.ID() != uuid.Nil {
		ctx.ID = record.ID().String()
	}
	return hydrate.NewDecoder[T](hydrate.WithDisallowUnknownFields[T]()).Decode(ctx, o.Attributes())
}

// Dehydrate writes every exported field of value into the record through the
// add-or-update primitive, notifying per attribute. Field names follow the
// struct's JSON tags.
func Dehydrate[T any](o *Observable, value T) error {
	attributes, err := structToAttributes(value)
	if err != nil {
		return err
	}
	keys := sortedKeys(attributes)
	values := make([]any, len(keys))
	for i, key := range keys {
		values[i] = attributes[key]
	}
	_, err = o.TryAddOrUpdateMany(keys, values)
	return err
}

func structToAttributes[T any](value T) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("attrs: dehydrate: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("attrs: dehydrate: %w", err)
	}
	return payload, nil
}
