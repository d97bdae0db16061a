package grid

// FillForward converts one account's sparse entries into a dense map
// covering every axis date on or after the account's first entry.
//
// axisDates must be sorted ascending. A date with a genuine entry keeps it
// and the entry becomes the carried state; a later date without one receives
// a copy of the carried state. Dates before the account's first entry are
// omitted entirely, so a late-starting account renders as "no data" rather
// than zero.
func FillForward(entries map[string]Entry, axisDates []string) map[string]Entry {
	dense := make(map[string]Entry, len(axisDates))

	var last Entry
	seen := false

	for _, date := range axisDates {
		if entry, ok := entries[date]; ok {
			dense[date] = entry
			last = entry
			seen = true
			continue
		}
		if seen {
			dense[date] = last
		}
	}

	return dense
}
