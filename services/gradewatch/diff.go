package gradewatch

// diffSignatures returns the elements of current that do not appear
// in previous, preserving current's order and collapsing duplicates
// to one report per signature. It is one-directional, signatures
// that disappeared from current are not an event this system
// surfaces.
func diffSignatures(previous, current []string) []string {
	seen := make(map[string]struct{}, len(previous))
	for _, sig := range previous {
		seen[sig] = struct{}{}
	}

	var fresh []string
	for _, sig := range current {
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		fresh = append(fresh, sig)
	}
	return fresh
}
