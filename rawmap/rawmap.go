package rawmap

// unknown is the type of the Unknown sentinel. A distinct zero-size
// type can never collide with data decoded from JSON, so sentinel
// checks are identity checks rather than value comparisons.
type unknown struct{}

func (unknown) String() string { return "UNKNOWN" }

// Unknown is the sentinel substituted wherever a raw response is
// missing expected data.
var Unknown = unknown{}

// IsUnknown reports whether v is the [Unknown] sentinel.
func IsUnknown(v any) bool {
	_, ok := v.(unknown)
	return ok
}

// Get returns m[key] if present, else [Unknown]. A nil map counts as
// missing. Present-but-falsy values are returned unchanged; only
// [Extract] applies the falsy collapse.
func Get(m map[string]any, key string) any {
	return GetOr(m, key, Unknown)
}

// GetOr returns m[key] if present, else fallback.
func GetOr(m map[string]any, key string, fallback any) any {
	if m == nil {
		return fallback
	}
	v, ok := m[key]
	if !ok {
		return fallback
	}
	return v
}

// Extract walks path left to right, looking each key up in the current
// value. Traversal stops early when the current value is not a mapping
// or a lookup misses. Any falsy final value collapses to [Unknown];
// see the package documentation for why.
func Extract(m map[string]any, path ...string) any {
	var value any = m

	for _, key := range path {
		node, ok := value.(map[string]any)
		if !ok {
			return Unknown
		}
		value = Get(node, key)
		if IsUnknown(value) {
			break
		}
	}

	if isFalsy(value) {
		return Unknown
	}
	return value
}

// ExtractOr is [Extract] with a caller supplied fallback replacing the
// sentinel, including for falsy final values.
func ExtractOr(m map[string]any, fallback any, path ...string) any {
	v := Extract(m, path...)
	if IsUnknown(v) {
		return fallback
	}
	return v
}

// Lookup is the strict variant of [Extract]: it distinguishes absence
// (or a mid-path type mismatch) from a present value, and returns falsy
// values as-is.
func Lookup(m map[string]any, path ...string) (any, bool) {
	var value any = m

	for _, key := range path {
		node, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := node[key]
		if !ok {
			return nil, false
		}
		value = v
	}

	return value, true
}

// Flatten merges the mapping found under key into m (nested keys
// overwrite same-named top-level keys) and always removes key, whether
// or not it held a mapping. The input is mutated in place and returned;
// callers must treat the passed map as consumed.
func Flatten(m map[string]any, key string) map[string]any {
	if m == nil {
		return m
	}
	if nested, ok := m[key].(map[string]any); ok {
		for k, v := range nested {
			m[k] = v
		}
	}
	delete(m, key)
	return m
}

// isFalsy reports whether v is one of the values the original pipeline
// treats as equivalent to missing data. The cases cover everything
// encoding/json produces plus the sentinel itself.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case unknown:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
