package bpe

// Report is the result of encoding text and decoding it back.
type Report struct {
	Tokens      []int
	Count       int
	Decoded     string
	OK          bool
	Diagnostics Diagnostics
}

// RoundTrip encodes text with t, decodes the ids with d and reports
// whether the original text came back.
func RoundTrip(text string, t *Table, d *Decoder) Report {
	if d == nil {
		d = NewDecoder(t)
	}
	ids := Encode(text, t)
	decoded, diags := d.Decode(ids)
	return Report{
		Tokens:      ids,
		Count:       len(ids),
		Decoded:     decoded,
		OK:          decoded == text,
		Diagnostics: diags,
	}
}
