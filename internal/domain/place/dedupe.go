package place

// MaxWorkingSet caps the number of records kept after deduplication.
const MaxWorkingSet = 50

// Dedupe drops later records whose Key was already seen and truncates the
// result to MaxWorkingSet. Order of first occurrences is preserved.
func Dedupe(records []Record) []Record {
	return DedupeLimit(records, MaxWorkingSet)
}

// DedupeLimit is Dedupe with a caller-chosen cap. limit <= 0 disables the cap.
func DedupeLimit(records []Record, limit int) []Record {
	out := make([]Record, 0, min(len(records), capHint(limit, len(records))))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if limit > 0 && len(out) >= limit {
			break
		}
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

func capHint(limit, n int) int {
	if limit <= 0 {
		return n
	}
	return limit
}
