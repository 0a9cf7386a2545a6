package bpe

import (
	"sync"
	"unicode/utf8"
)

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDiagnosticFunc registers fn to receive every diagnostic as it is
// found, in addition to the list returned by Decode.
func WithDiagnosticFunc(fn func(Diagnostic)) DecoderOption {
	return func(d *Decoder) {
		d.onDiagnostic = fn
	}
}

// Decoder turns token ids back into text. It memoizes the byte expansion
// of every merge id it has seen, so a Decoder should be reused for the
// lifetime of its table. It is safe for concurrent use.
type Decoder struct {
	table        *Table
	onDiagnostic func(Diagnostic)

	mu   sync.Mutex
	memo map[int][]byte
}

func NewDecoder(t *Table, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		table: t,
		memo:  make(map[int][]byte),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode converts ids to text with a throwaway Decoder.
func Decode(ids []int, t *Table) (string, Diagnostics) {
	return NewDecoder(t).Decode(ids)
}

// Decode concatenates the expansion of every id. Unknown ids contribute
// nothing. If the bytes are not valid UTF-8 it returns DecodeErrorText.
func (d *Decoder) Decode(ids []int) (string, Diagnostics) {
	raw, diags := d.DecodeBytes(ids)
	if !utf8.Valid(raw) {
		diag := Diagnostic{Kind: InvalidByteSequence, Index: -1}
		d.notify(diag)
		return DecodeErrorText, append(diags, diag)
	}
	return string(raw), diags
}

// DecodeBytes returns the raw concatenated expansion of ids.
func (d *Decoder) DecodeBytes(ids []int) ([]byte, Diagnostics) {
	var diags Diagnostics
	out := make([]byte, 0, len(ids))

	d.mu.Lock()
	for i, id := range ids {
		b, ok := d.expand(id)
		if !ok {
			diags = append(diags, Diagnostic{Kind: UnknownTokenID, Index: i, ID: id})
			continue
		}
		out = append(out, b...)
	}
	d.mu.Unlock()

	for _, diag := range diags {
		d.notify(diag)
	}
	return out, diags
}

// expand must be called with d.mu held. The returned slice is shared with
// the memo and must not be modified.
func (d *Decoder) expand(id int) ([]byte, bool) {
	if id >= 0 && id < ByteTokens {
		return byteTable[id : id+1 : id+1], true
	}
	if b, ok := d.memo[id]; ok {
		return b, true
	}
	p, ok := d.table.Pair(id)
	if !ok {
		return nil, false
	}
	left, _ := d.expand(p.Left)
	right, _ := d.expand(p.Right)
	b := make([]byte, 0, len(left)+len(right))
	b = append(b, left...)
	b = append(b, right...)
	d.memo[id] = b
	return b, true
}

// notify runs the diagnostic callback. The lock is not held, so the
// callback may use the Decoder.
func (d *Decoder) notify(diag Diagnostic) {
	if d.onDiagnostic != nil {
		d.onDiagnostic(diag)
	}
}

var byteTable = func() []byte {
	b := make([]byte, ByteTokens)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}()
