// Package corpus loads training text from disk.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var ErrInvalidUTF8 = errors.New("corpus: input is not valid utf-8")

// Format selects how a corpus file is parsed.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// Options controls Read.
type Options struct {
	Format Format
	// Normalize is "", "nfc" or "nfkc".
	Normalize string
}

// Read loads path according to opts.
func Read(path string, opts Options) (string, error) {
	form, err := normForm(opts.Normalize)
	if err != nil {
		return "", err
	}

	format := opts.Format
	if format == "" || format == FormatAuto {
		format = FormatText
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = FormatCSV
		}
	}

	var text string
	switch format {
	case FormatCSV:
		text, err = ReadCSV(path)
	case FormatText:
		text, err = ReadText(path)
	default:
		return "", fmt.Errorf("unsupported corpus format %q", format)
	}
	if err != nil {
		return "", err
	}
	if form != nil {
		text = form.String(text)
	}
	return text, nil
}

// ReadText returns the file contents.
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
	}
	return string(raw), nil
}

// ReadCSV flattens a CSV file: the fields of each row are joined by a
// single space and every row ends with a newline.
func ReadCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, err := FromCSV(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// FromCSV is ReadCSV over a reader.
func FromCSV(r io.Reader) (string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var b strings.Builder
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv: %w", err)
		}
		for i, field := range rec {
			if !utf8.ValidString(field) {
				return "", ErrInvalidUTF8
			}
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(field)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func normForm(name string) (*norm.Form, error) {
	var form norm.Form
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "nfc":
		form = norm.NFC
	case "nfkc":
		form = norm.NFKC
	case "nfd":
		form = norm.NFD
	case "nfkd":
		form = norm.NFKD
	default:
		return nil, fmt.Errorf("unsupported normalization %q", name)
	}
	return &form, nil
}

// Sample returns the first n characters (runes) of text. n <= 0 returns
// the whole text.
func Sample(text string, n int) string {
	if n <= 0 {
		return text
	}
	for i := range text {
		if n == 0 {
			return text[:i]
		}
		n--
	}
	return text
}
