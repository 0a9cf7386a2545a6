package bpe

// StopReason says why training ended.
type StopReason string

const (
	// StopEmpty: the corpus had fewer than two bytes.
	StopEmpty StopReason = "empty"
	// StopExhausted: no adjacent pairs were left.
	StopExhausted StopReason = "exhausted"
	// StopMinFrequency: the best pair occurred fewer than MinFrequency times.
	StopMinFrequency StopReason = "min_frequency"
	// StopCompression: the compression ratio reached MaxCompressionRatio.
	StopCompression StopReason = "compression"
	// StopVocabSize: merges plus the byte alphabet reached TargetVocabSize.
	StopVocabSize StopReason = "vocab_size"
)

// TrainParams controls when training stops.
type TrainParams struct {
	// TargetVocabSize bounds merges plus the number of distinct corpus bytes.
	TargetVocabSize int
	// MinFrequency is the smallest pair count still worth merging.
	MinFrequency int
	// MaxCompressionRatio stops training once input bytes / tokens reaches
	// it. Zero or negative disables the check.
	MaxCompressionRatio float64
	// Progress, when set, is called after every merge.
	Progress func(TrainStep)
}

// DefaultTrainParams returns the stock training limits.
func DefaultTrainParams() TrainParams {
	return TrainParams{
		TargetVocabSize:     4000,
		MinFrequency:        2,
		MaxCompressionRatio: 3.2,
	}
}

// TrainStep describes one learned merge.
type TrainStep struct {
	Merge       int // 1-based
	Pair        Pair
	ID          int
	Frequency   int
	Tokens      int
	Compression float64
}

// TrainResult is the outcome of Train.
type TrainResult struct {
	Table        *Table
	Compression  float64
	AlphabetSize int
	InputBytes   int
	OutputTokens int
	Stop         StopReason
}

// Train learns merges from corpus. The most frequent adjacent pair is
// merged first; ties go to the smaller left id, then the smaller right id.
// Training never fails: degenerate corpora yield an empty table with a
// compression ratio of 1.
func Train(corpus string, params TrainParams) TrainResult {
	raw := []byte(corpus)
	ids := bytesToIDs(raw)
	b := newBuilder()

	res := TrainResult{
		Compression:  1.0,
		AlphabetSize: alphabetSize(raw),
		InputBytes:   len(raw),
		OutputTokens: len(raw),
	}
	if len(raw) < 2 {
		res.Table = b.freeze()
		res.Stop = StopEmpty
		return res
	}

	for {
		if b.len()+res.AlphabetSize >= params.TargetVocabSize {
			res.Stop = StopVocabSize
			break
		}
		stats := PairStats(ids)
		if len(stats) == 0 {
			res.Stop = StopExhausted
			break
		}
		best, freq := mostFrequent(stats)
		if freq < params.MinFrequency {
			res.Stop = StopMinFrequency
			break
		}

		id := b.add(best)
		ids = ApplyMerge(ids, best, id)
		res.OutputTokens = len(ids)
		res.Compression = float64(len(raw)) / float64(len(ids))

		if params.Progress != nil {
			params.Progress(TrainStep{
				Merge:       b.len(),
				Pair:        best,
				ID:          id,
				Frequency:   freq,
				Tokens:      len(ids),
				Compression: res.Compression,
			})
		}
		if params.MaxCompressionRatio > 0 && res.Compression >= params.MaxCompressionRatio {
			res.Stop = StopCompression
			break
		}
	}

	res.Table = b.freeze()
	return res
}

// mostFrequent picks the pair with the highest count, breaking ties by
// (left, right) ascending. The result does not depend on map order.
func mostFrequent(stats map[Pair]int) (Pair, int) {
	var (
		best  Pair
		count int
	)
	for p, c := range stats {
		if c > count || (c == count && p.less(best)) {
			best, count = p, c
		}
	}
	return best, count
}

func alphabetSize(raw []byte) int {
	var seen [ByteTokens]bool
	n := 0
	for _, c := range raw {
		if !seen[c] {
			seen[c] = true
			n++
		}
	}
	return n
}
