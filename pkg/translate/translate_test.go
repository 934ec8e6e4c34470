package translate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixedPair struct{ from, to string }

func (p fixedPair) Pair() (string, string) { return p.from, p.to }

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fakeGenerator) CheckHealth(context.Context) error { return g.err }

func TestPairStrategyPrompt(t *testing.T) {
	s := NewPairStrategy(fixedPair{"ja", "en"})
	prompt, err := s.Prompt("こんにちは")
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}

	for _, want := range []string{
		"bidirectional translator between Japanese and English",
		"When you receive Japanese text, translate it to English.",
		"When you receive English text, translate it to Japanese.",
		"only the translated text, no explanations",
		"Input: こんにちは",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt %q does not contain %q", prompt, want)
		}
	}
}

func TestPairStrategyUnknownCode(t *testing.T) {
	s := NewPairStrategy(fixedPair{"xx", "en"})
	if _, err := s.Prompt("hello"); err == nil {
		t.Fatal("Prompt with unknown code returned nil error")
	}
}

func TestAutoDetectStrategyPrompt(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"japanese", "おはよう", "Translate the following Japanese text to English."},
		{"mixed", "meeting at 三時", "Translate the following Japanese text to English."},
		{"english", "good morning", "Translate the following English text to Japanese."},
	}

	s := NewAutoDetectStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := s.Prompt(tt.text)
			if err != nil {
				t.Fatalf("Prompt: %v", err)
			}
			if !strings.HasPrefix(prompt, tt.want) {
				t.Errorf("prompt = %q, want prefix %q", prompt, tt.want)
			}
			if !strings.Contains(prompt, "only the translation") {
				t.Errorf("prompt %q does not ask for translation-only output", prompt)
			}
			if !strings.HasSuffix(prompt, tt.text) {
				t.Errorf("prompt %q does not end with input", prompt)
			}
		})
	}
}

func TestTranslatorSuccess(t *testing.T) {
	gen := &fakeGenerator{reply: "  Hello  "}
	tr := NewTranslator(NewPairStrategy(fixedPair{"ja", "en"}), gen, quietLogger())

	res := tr.Translate(context.Background(), "こんにちは")
	if !res.OK() {
		t.Fatalf("Translate returned error: %v", res.Err)
	}
	if res.String() != "  Hello  " {
		t.Errorf("String() = %q, want output verbatim", res.String())
	}
	if len(gen.prompts) != 1 {
		t.Errorf("generator called %d times, want 1", len(gen.prompts))
	}
}

func TestTranslatorFailureIsRendered(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	tr := NewTranslator(NewAutoDetectStrategy(), gen, quietLogger())

	res := tr.Translate(context.Background(), "hello")
	if res.OK() {
		t.Fatal("Translate returned OK for failing generator")
	}
	if res.Text != "" {
		t.Errorf("failed Result carries text %q", res.Text)
	}
	if got := res.String(); got != "Translation error: quota exceeded" {
		t.Errorf("String() = %q", got)
	}
}

func TestTranslatorPromptFailure(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	tr := NewTranslator(NewPairStrategy(fixedPair{"en", "zz"}), gen, quietLogger())

	res := tr.Translate(context.Background(), "hello")
	if !strings.HasPrefix(res.String(), ErrorPrefix) {
		t.Errorf("String() = %q, want %q prefix", res.String(), ErrorPrefix)
	}
	if len(gen.prompts) != 0 {
		t.Errorf("generator called %d times after prompt failure", len(gen.prompts))
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"pair", ModePair, false},
		{"Bidirectional", ModePair, false},
		{"autodetect", ModeAutoDetect, false},
		{"auto-detect", ModeAutoDetect, false},
		{"AUTO", ModeAutoDetect, false},
		{"libretranslate", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewStrategy(t *testing.T) {
	if _, err := NewStrategy(ModePair, nil); err == nil {
		t.Error("NewStrategy(pair, nil) returned nil error")
	}
	if _, err := NewStrategy(Mode("bogus"), nil); err == nil {
		t.Error("NewStrategy(bogus) returned nil error")
	}
	s, err := NewStrategy(ModeAutoDetect, nil)
	if err != nil {
		t.Fatalf("NewStrategy(autodetect): %v", err)
	}
	if s.Mode() != ModeAutoDetect {
		t.Errorf("Mode() = %q", s.Mode())
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotKey, gotPath string
	var gotReq generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Good "},{"text":"morning"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "secret", "", 0, quietLogger())
	out, err := c.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Good morning" {
		t.Errorf("Generate() = %q, want %q", out, "Good morning")
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 || gotReq.Contents[0].Parts[0].Text != "prompt text" {
		t.Errorf("request contents = %+v", gotReq.Contents)
	}
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "api error message",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`,
			wantErr: "API key not valid.",
		},
		{
			name:    "plain status",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantErr: "unexpected status 502: upstream down",
		},
		{
			name:    "blocked prompt",
			status:  http.StatusOK,
			body:    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantErr: "prompt blocked: SAFETY",
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantErr: "no candidates",
		},
		{
			name:    "empty text",
			status:  http.StatusOK,
			body:    `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`,
			wantErr: "finish reason: MAX_TOKENS",
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"candidates":`,
			wantErr: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewGeminiClient(srv.URL, "k", "m", 0, quietLogger())
			_, err := c.Generate(context.Background(), "p")
			if err == nil {
				t.Fatal("Generate returned nil error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGeminiUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gen := NewGeminiClient(url, "k", "", 0, quietLogger())
	tr := NewTranslator(NewAutoDetectStrategy(), gen, quietLogger())

	res := tr.Translate(context.Background(), "hello")
	if !strings.HasPrefix(res.String(), "Translation error:") {
		t.Errorf("String() = %q, want Translation error prefix", res.String())
	}
}

func TestGeminiCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1beta/models/gemini-2.0-flash" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("x-goog-api-key") != "good" {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`)
			return
		}
		io.WriteString(w, `{"name":"models/gemini-2.0-flash"}`)
	}))
	defer srv.Close()

	if err := NewGeminiClient(srv.URL, "good", "", 0, quietLogger()).CheckHealth(context.Background()); err != nil {
		t.Errorf("CheckHealth(good key): %v", err)
	}
	err := NewGeminiClient(srv.URL, "bad", "", 0, quietLogger()).CheckHealth(context.Background())
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Errorf("CheckHealth(bad key) error = %v", err)
	}
}
