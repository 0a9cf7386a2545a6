package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samcharles93/bytepair/internal/bpe"
	"github.com/samcharles93/bytepair/internal/logger"
	"github.com/samcharles93/bytepair/internal/vocab"
)

// Vocab is a loaded, frozen merge table and the decoder that shares its
// memo across requests.
type Vocab struct {
	Name    string
	Path    string
	Table   *bpe.Table
	Decoder *bpe.Decoder
	Meta    *vocab.Meta
}

type VocabProvider interface {
	WithVocab(ctx context.Context, name string, fn func(v *Vocab) error) error
	ListVocabs() ([]string, error)
}

type VocabProviderConfig struct {
	DefaultVocabPath string
	VocabDir         string
	Logger           logger.Logger
}

// CachedVocabProvider loads each vocab file once and keeps it for the life
// of the process.
type CachedVocabProvider struct {
	cfg   VocabProviderConfig
	mu    sync.Mutex
	cache map[string]*Vocab
}

const envVocabDir = "BYTEPAIR_VOCAB_DIR"

func NewCachedVocabProvider(cfg VocabProviderConfig) *CachedVocabProvider {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &CachedVocabProvider{
		cfg:   cfg,
		cache: make(map[string]*Vocab),
	}
}

func (p *CachedVocabProvider) WithVocab(ctx context.Context, name string, fn func(v *Vocab) error) error {
	path, err := p.resolveVocabPath(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	v, err := p.getOrLoad(path)
	if err != nil {
		return err
	}
	return fn(v)
}

// ListVocabs returns the names of the default vocab and every vocab in
// the vocab directory.
func (p *CachedVocabProvider) ListVocabs() ([]string, error) {
	var names []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if p.cfg.DefaultVocabPath != "" {
		add(vocab.Name(p.cfg.DefaultVocabPath))
	}
	if dir := p.vocabDir(); dir != "" {
		paths, err := vocab.Discover(dir)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			add(vocab.Name(path))
		}
	}
	return names, nil
}

func (p *CachedVocabProvider) getOrLoad(path string) (*Vocab, error) {
	p.mu.Lock()
	v, ok := p.cache[path]
	p.mu.Unlock()
	if ok {
		return v, nil
	}

	table, err := vocab.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrVocabNotFound, path)
		}
		return nil, err
	}
	meta, err := vocab.LoadMeta(path)
	if err != nil {
		p.cfg.Logger.Warn("ignoring unreadable vocab metadata", "path", vocab.MetaPath(path), "error", err)
		meta = nil
	}

	name := vocab.Name(path)
	log := p.cfg.Logger.With("vocab", name)
	loaded := &Vocab{
		Name:  name,
		Path:  path,
		Table: table,
		Decoder: bpe.NewDecoder(table, bpe.WithDiagnosticFunc(func(d bpe.Diagnostic) {
			log.Warn("decode diagnostic", "kind", d.Kind.String(), "index", d.Index, "id", d.ID)
		})),
		Meta: meta,
	}
	log.Info("loaded vocab", "path", path, "merges", table.Len())

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.cache[path]; ok {
		return existing, nil
	}
	p.cache[path] = loaded
	return loaded, nil
}

func (p *CachedVocabProvider) resolveVocabPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		if p.cfg.DefaultVocabPath != "" && name == vocab.Name(p.cfg.DefaultVocabPath) {
			return filepath.Clean(p.cfg.DefaultVocabPath), nil
		}
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return "", newInvalidRequest(fmt.Sprintf("invalid vocab name %q", name))
		}
		dir := p.vocabDir()
		if dir == "" {
			return "", fmt.Errorf("%w: %q (no vocab directory configured)", ErrVocabNotFound, name)
		}
		if resolved := resolveInDir(dir, name); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %q in %s", ErrVocabNotFound, name, dir)
	}

	if p.cfg.DefaultVocabPath != "" {
		return filepath.Clean(p.cfg.DefaultVocabPath), nil
	}
	dir := p.vocabDir()
	if dir == "" {
		return "", newInvalidRequest("vocab is required")
	}
	paths, err := vocab.Discover(dir)
	if err != nil {
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("%w: no vocab files in %s", ErrVocabNotFound, dir)
	case 1:
		return paths[0], nil
	default:
		return "", newInvalidRequest(fmt.Sprintf("multiple vocabs found in %s; specify vocab", dir))
	}
}

func (p *CachedVocabProvider) vocabDir() string {
	if dir := strings.TrimSpace(p.cfg.VocabDir); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(envVocabDir))
}

func resolveInDir(dir, name string) string {
	cand := filepath.Join(dir, name)
	if strings.HasSuffix(strings.ToLower(name), vocab.Ext) && fileExists(cand) {
		return cand
	}
	cand = filepath.Join(dir, name+vocab.Ext)
	if fileExists(cand) {
		return cand
	}
	return ""
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
