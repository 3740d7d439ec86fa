package sheet

// Resolve scans the snapshot in order and returns the 1-based row of the
// first cell whose value equals key, compared as strings: "200" does not
// match "200.0" or "0200". Blank cells are skipped. The second return is
// false when no row matches.
//
// Duplicate keys resolve to the earliest occurrence; callers that want to
// surface duplicates should use Occurrences.
func Resolve(snapshot KeyColumnSnapshot, key string) (int, bool) {
	for i, cell := range snapshot {
		if cell == "" {
			continue
		}
		if cell == key {
			return i + 1, true
		}
	}
	return 0, false
}

// Occurrences returns the 1-based rows of every cell equal to key, in
// order. Used to warn when a key appears more than once in the key column.
func Occurrences(snapshot KeyColumnSnapshot, key string) []int {
	var rows []int
	for i, cell := range snapshot {
		if cell != "" && cell == key {
			rows = append(rows, i+1)
		}
	}
	return rows
}
