package calls

// DateGroup is one bucket of calls sharing a date key.
type DateGroup struct {
	Key   string `json:"date"`
	Calls []Call `json:"calls"`
}

// GroupByDate buckets calls by keyFn(call).
//
// Groups appear in first-encounter order and calls keep their input order
// inside a group. The result is a slice so callers never depend on map
// iteration order.
func GroupByDate(in []Call, keyFn func(Call) string) []DateGroup {
	out := make([]DateGroup, 0)
	index := make(map[string]int)
	for _, c := range in {
		k := keyFn(c)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, DateGroup{Key: k})
		}
		out[i].Calls = append(out[i].Calls, c)
	}
	return out
}
