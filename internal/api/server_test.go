package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/samcharles93/bytepair/internal/bpe"
	"github.com/samcharles93/bytepair/internal/vocab"
)

const testCorpus = "aaabdaaabac"

func writeTestVocab(t *testing.T, dir, name, corpus string) string {
	t.Helper()
	params := bpe.TrainParams{TargetVocabSize: 100, MinFrequency: 2}
	res := bpe.Train(corpus, params)
	meta := vocab.NewMeta(res, params, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	path := filepath.Join(dir, name+vocab.Ext)
	if err := vocab.Save(path, res.Table, &meta); err != nil {
		t.Fatalf("save vocab: %v", err)
	}
	return path
}

func newTestEcho(t *testing.T, cfg VocabProviderConfig, cacheSize int) *echo.Echo {
	t.Helper()
	service, err := NewTokenizerService(NewCachedVocabProvider(cfg), cacheSize)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	e := echo.New()
	NewServer(service).Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenizeRoundTrip(t *testing.T) {
	t.Parallel()

	path := writeTestVocab(t, t.TempDir(), "demo", testCorpus)
	for _, cacheSize := range []int{0, 16} {
		e := newTestEcho(t, VocabProviderConfig{DefaultVocabPath: path}, cacheSize)

		for i := 0; i < 2; i++ {
			rec := doJSON(t, e, http.MethodPost, "/v1/tokenize", `{"text":"aaabdaaabac"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
			}
			var resp TokenizeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.HasPrefix(resp.ID, "tok_") {
				t.Fatalf("unexpected id %q", resp.ID)
			}
			want := []int{258, 'd', 258, 'a', 'c'}
			if len(resp.Tokens) != len(want) || resp.TokenCount != len(want) {
				t.Fatalf("tokens: got %v want %v", resp.Tokens, want)
			}
			for j := range want {
				if resp.Tokens[j] != want[j] {
					t.Fatalf("tokens: got %v want %v", resp.Tokens, want)
				}
			}
			if !resp.Roundtrip || resp.Decoded != testCorpus || resp.Vocab != "demo" {
				t.Fatalf("unexpected response: %+v", resp)
			}
		}
	}
}

func TestTokenizeEmptyText(t *testing.T) {
	t.Parallel()

	path := writeTestVocab(t, t.TempDir(), "demo", testCorpus)
	e := newTestEcho(t, VocabProviderConfig{DefaultVocabPath: path}, 0)
	rec := doJSON(t, e, http.MethodPost, "/v1/tokenize", `{"text":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"tokens":[]`) || !strings.Contains(rec.Body.String(), `"roundtrip":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestEncodeDecodeEndpoints(t *testing.T) {
	t.Parallel()

	path := writeTestVocab(t, t.TempDir(), "demo", testCorpus)
	e := newTestEcho(t, VocabProviderConfig{DefaultVocabPath: path}, 4)

	rec := doJSON(t, e, http.MethodPost, "/v1/encode", `{"text":"aaab"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("encode status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var enc EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &enc); err != nil {
		t.Fatalf("decode encode response: %v", err)
	}
	if enc.TokenCount != 1 || enc.Tokens[0] != 258 {
		t.Fatalf("encode: got %+v", enc)
	}

	rec = doJSON(t, e, http.MethodPost, "/v1/decode", `{"tokens":[258,99999,33]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("decode status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var dec DecodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dec); err != nil {
		t.Fatalf("decode decode response: %v", err)
	}
	if dec.Text != "aaab!" {
		t.Fatalf("decoded text: got %q", dec.Text)
	}
	if len(dec.Diagnostics) != 1 || dec.Diagnostics[0].Kind != "unknown_token_id" || dec.Diagnostics[0].ID != 99999 {
		t.Fatalf("diagnostics: got %+v", dec.Diagnostics)
	}

	rec = doJSON(t, e, http.MethodPost, "/v1/decode", `{"tokens":[224,176]}`)
	if !strings.Contains(rec.Body.String(), bpe.DecodeErrorText) {
		t.Fatalf("expected sentinel text, got %s", rec.Body.String())
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	path := writeTestVocab(t, t.TempDir(), "demo", testCorpus)
	e := newTestEcho(t, VocabProviderConfig{DefaultVocabPath: path}, 0)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "malformed json", path: "/v1/tokenize", body: `{`, status: http.StatusBadRequest},
		{name: "unknown field", path: "/v1/encode", body: `{"txt":"x"}`, status: http.StatusBadRequest},
		{name: "missing tokens", path: "/v1/decode", body: `{}`, status: http.StatusBadRequest},
		{name: "unknown vocab", path: "/v1/tokenize", body: `{"text":"x","vocab":"missing"}`, status: http.StatusNotFound},
		{name: "path traversal", path: "/v1/encode", body: `{"text":"x","vocab":"../etc"}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Fatalf("missing error envelope: %s", rec.Body.String())
			}
		})
	}
}

func TestVocabEndpoints(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestVocab(t, dir, "alpha", testCorpus)
	writeTestVocab(t, dir, "beta", "abababab")
	e := newTestEcho(t, VocabProviderConfig{VocabDir: dir}, 0)

	rec := doJSON(t, e, http.MethodGet, "/v1/vocabs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"data":["alpha","beta"]`) {
		t.Fatalf("unexpected list: %s", rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/vocabs/alpha?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var detail VocabDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Merges != 3 || detail.VocabSize != 259 || len(detail.Rules) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Rules[0].Text != "aa" || detail.Rules[1].Text != "ab" || detail.AlphabetSize != 4 {
		t.Fatalf("unexpected rules: %+v", detail.Rules)
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/vocabs/alpha?limit=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}

	// Two vocabs and no name: the caller has to choose.
	rec = doJSON(t, e, http.MethodPost, "/v1/tokenize", `{"text":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ambiguous vocab, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, e, http.MethodPost, "/v1/tokenize", `{"text":"abab","vocab":"beta"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"vocab":"beta"`) {
		t.Fatalf("tokenize with beta: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServesWebUI(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, VocabProviderConfig{}, 0)
	rec := doJSON(t, e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/v1/tokenize") && !strings.Contains(rec.Body.String(), "app.js") {
		t.Fatalf("unexpected index body: %s", rec.Body.String())
	}
	rec = doJSON(t, e, http.MethodGet, "/app.js", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/tokenize") {
		t.Fatalf("app.js: %d", rec.Code)
	}
}
