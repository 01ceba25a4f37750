package filterexpr

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// OrderKey is one sort key of an order_by clause.
type OrderKey struct {
	Field string
	Desc  bool
}

// OrderSchema whitelists sortable fields. Fallback is appended when absent so
// the resulting order is total.
type OrderSchema struct {
	Default  OrderKey
	Fallback OrderKey
	Fields   []string
}

// ParseOrderBy parses `field [asc|desc][, field [asc|desc]]`.
func ParseOrderBy(raw string, schema OrderSchema) ([]OrderKey, error) { //nolint:gocognit // validation branches read better inline
	if schema.Default.Field == "" || schema.Fallback.Field == "" {
		return nil, errors.New("order schema requires default and fallback keys")
	}
	for _, key := range []string{schema.Default.Field, schema.Fallback.Field} {
		if !slices.Contains(schema.Fields, key) {
			return nil, fmt.Errorf("order key %q missing from schema fields", key)
		}
	}

	var keys []OrderKey
	raw = strings.TrimSpace(raw)
	if raw == "" {
		keys = append(keys, schema.Default)
	}

	seen := make(map[string]struct{}, 2)
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if !slices.Contains(schema.Fields, key) {
			return nil, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		var desc bool
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}
		keys = append(keys, OrderKey{Field: key, Desc: desc})
		if len(keys) > 2 {
			return nil, errors.New("order_by supports at most two keys")
		}
	}
	if len(keys) == 0 {
		keys = append(keys, schema.Default)
	}

	if !slices.ContainsFunc(keys, func(k OrderKey) bool { return k.Field == schema.Fallback.Field }) {
		keys = append(keys, schema.Fallback)
	}
	return keys, nil
}
