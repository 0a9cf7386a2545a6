package bpe

import "fmt"

// Pair is an ordered pair of adjacent token ids.
type Pair struct {
	Left  int
	Right int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.Left, p.Right)
}

// less orders pairs by left id, then right id.
func (p Pair) less(o Pair) bool {
	if p.Left != o.Left {
		return p.Left < o.Left
	}
	return p.Right < o.Right
}

// PairStats counts every adjacent pair in ids.
func PairStats(ids []int) map[Pair]int {
	counts := make(map[Pair]int)
	if len(ids) < 2 {
		return counts
	}
	prev := ids[0]
	for _, id := range ids[1:] {
		counts[Pair{Left: prev, Right: id}]++
		prev = id
	}
	return counts
}

// ApplyMerge returns a copy of ids with every left-to-right,
// non-overlapping occurrence of p replaced by id.
func ApplyMerge(ids []int, p Pair, id int) []int {
	out := make([]int, 0, len(ids))
	for i := 0; i < len(ids); {
		if i < len(ids)-1 && ids[i] == p.Left && ids[i+1] == p.Right {
			out = append(out, id)
			i += 2
			continue
		}
		out = append(out, ids[i])
		i++
	}
	return out
}

func bytesToIDs(b []byte) []int {
	ids := make([]int, len(b))
	for i, c := range b {
		ids[i] = int(c)
	}
	return ids
}
