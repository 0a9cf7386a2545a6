package bpe

// Encode converts text to token ids under t. At each step the present pair
// with the lowest assigned id is merged, which replays the training order
// on text. A nil or empty table yields the raw bytes.
func Encode(text string, t *Table) []int {
	ids := bytesToIDs([]byte(text))
	if t.Len() == 0 {
		return ids
	}
	for len(ids) >= 2 {
		p, id, ok := lowestRanked(ids, t)
		if !ok {
			break
		}
		ids = ApplyMerge(ids, p, id)
	}
	return ids
}

// lowestRanked returns the adjacent pair in ids with the smallest id in t.
func lowestRanked(ids []int, t *Table) (Pair, int, bool) {
	var (
		best   Pair
		bestID int
		found  bool
	)
	for i := 0; i < len(ids)-1; i++ {
		p := Pair{Left: ids[i], Right: ids[i+1]}
		id, ok := t.ids[p]
		if !ok {
			continue
		}
		if !found || id < bestID {
			best, bestID, found = p, id, true
		}
	}
	return best, bestID, found
}
