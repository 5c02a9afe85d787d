// Package rawmap provides defensive access to raw provider responses
// decoded as nested map[string]any values.
//
// Provider APIs return arbitrarily nested JSON with no schema guarantee:
// any key may be absent, null, or of an unexpected type. Every accessor
// in this package degrades to the [Unknown] sentinel (or a caller
// supplied fallback) instead of panicking, so record builders can walk
// responses without per-field existence checks.
//
// # The falsy quirk
//
// [Extract] and [ExtractOr] collapse any falsy final value (empty
// string, 0, false, empty list or map, nil) to the sentinel, not only
// true absence. This mirrors the behavior downstream consumers were
// built against and is kept on purpose; use [Lookup] when "present but
// empty" must be distinguished from "absent".
package rawmap
