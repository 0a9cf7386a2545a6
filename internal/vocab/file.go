package vocab

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samcharles93/bytepair/internal/bpe"
	"gopkg.in/yaml.v3"
)

const (
	Ext     = ".json"
	MetaExt = ".meta.yaml"
)

// Meta describes how a vocab was trained. It is stored next to the vocab
// file and is optional.
type Meta struct {
	Merges          int       `yaml:"merges"`
	VocabSize       int       `yaml:"vocab_size"`
	AlphabetSize    int       `yaml:"alphabet_size"`
	Compression     float64   `yaml:"compression"`
	StopReason      string    `yaml:"stop_reason"`
	Corpus          string    `yaml:"corpus,omitempty"`
	CorpusBytes     int       `yaml:"corpus_bytes"`
	TargetVocabSize int       `yaml:"target_vocab_size"`
	MinFrequency    int       `yaml:"min_frequency"`
	MaxCompression  float64   `yaml:"max_compression"`
	Normalize       string    `yaml:"normalize,omitempty"`
	TrainedAt       time.Time `yaml:"trained_at"`
}

// NewMeta fills a Meta from a training run.
func NewMeta(res bpe.TrainResult, params bpe.TrainParams, now time.Time) Meta {
	return Meta{
		Merges:          res.Table.Len(),
		VocabSize:       res.Table.VocabSize(),
		AlphabetSize:    res.AlphabetSize,
		Compression:     res.Compression,
		StopReason:      string(res.Stop),
		CorpusBytes:     res.InputBytes,
		TargetVocabSize: params.TargetVocabSize,
		MinFrequency:    params.MinFrequency,
		MaxCompression:  params.MaxCompressionRatio,
		TrainedAt:       now.UTC(),
	}
}

// MetaPath returns the sidecar path for a vocab file.
func MetaPath(path string) string {
	return strings.TrimSuffix(path, Ext) + MetaExt
}

// Save writes t to path, and meta to its sidecar when non-nil.
func Save(path string, t *bpe.Table, meta *Meta) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("encode vocab: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	if meta == nil {
		return nil
	}
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode vocab meta: %w", err)
	}
	return writeFileAtomic(MetaPath(path), raw)
}

// Load reads a vocab file.
func Load(path string) (*bpe.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadMeta reads the sidecar of the vocab at path. A missing sidecar
// returns nil and no error.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(MetaPath(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse vocab meta: %w", err)
	}
	return &meta, nil
}

// Discover lists the vocab files in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("vocab path is not a directory: %s", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), Ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Name returns the vocab name for path: its base name without extension.
func Name(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create vocab directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temporary file: %w", err)
	}
	return nil
}
