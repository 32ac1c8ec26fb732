// Package fields provides the field-ordering helper shared by every logging
// adapter (zap, logrus, log15, slog). Each adapter receives its structured
// data as a plain map, whose iteration order Go leaves unspecified; without
// this, the same log call renders its fields in a different order on every
// run, on every backend. Ordered fixes that by placing this module's named
// observability fields (spec §6: session id, local/remote endpoint, error
// detail) first, in a stable priority order, with any remaining keys sorted
// alphabetically after them.
package fields

import "sort"

// Priority lists the canonical field names from the observability contract,
// in the order they should appear when present.
var Priority = []string{"session_id", "local_addr", "remote_addr", "endpoint", "error"}

// Ordered returns data's keys ordered with the Priority fields first (in
// Priority order, skipping absent ones), followed by every remaining key
// sorted alphabetically.
func Ordered(data map[string]interface{}) []string {
	seen := make(map[string]bool, len(Priority))
	ordered := make([]string, 0, len(data))
	for _, k := range Priority {
		if _, ok := data[k]; ok {
			ordered = append(ordered, k)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(data))
	for k := range data {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(ordered, rest...)
}
