package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wfunc/wordchain/config"
	"github.com/wfunc/wordchain/game"
	"github.com/wfunc/wordchain/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"elephant", "elephant"},
		{"Elephant", "elephant"},
		{"  Elephant.\n", "elephant"},
		{`"elephant"`, "elephant"},
		{"Sure! elephant", "sure"},
		{"elephant is my word", "elephant"},
		{"123", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func fakeServer(t *testing.T, replies []string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		reply := replies[len(replies)-1]
		if calls < len(replies) {
			reply = replies[calls]
		}
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(url string) config.AIConfig {
	return config.AIConfig{
		BaseURL:        url,
		APIKey:         "test-key",
		Model:          "test-model",
		MaxTokens:      20,
		Temperature:    0.7,
		MaxRetries:     3,
		TimeoutSeconds: 5,
	}
}

func TestRequestReturnsPlayableWord(t *testing.T) {
	srv, _ := fakeServer(t, []string{"Elephant!"})
	c := NewClient(testConfig(srv.URL))

	word, err := c.Request(context.Background(), "e", []string{"apple"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if word != "elephant" {
		t.Fatalf("word = %q, want elephant", word)
	}
}

func TestRequestRetriesUnplayableCandidates(t *testing.T) {
	// Wrong letter, then a repeat, then a good word.
	srv, calls := fakeServer(t, []string{"tiger", "apple", "eagle"})
	c := NewClient(testConfig(srv.URL))

	word, err := c.Request(context.Background(), "e", []string{"apple"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if word != "eagle" {
		t.Fatalf("word = %q, want eagle", word)
	}
	if *calls != 3 {
		t.Fatalf("calls = %d, want 3", *calls)
	}
}

func TestRequestExhaustsRetries(t *testing.T) {
	srv, calls := fakeServer(t, []string{"tiger"})
	c := NewClient(testConfig(srv.URL))

	_, err := c.Request(context.Background(), "e", nil)
	if !errors.Is(err, game.ErrNoMove) {
		t.Fatalf("err = %v, want ErrNoMove", err)
	}
	if *calls != 3 {
		t.Fatalf("calls = %d, want 3", *calls)
	}
}

func TestRequestHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c := NewClient(testConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Request(ctx, "e", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRequestSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(testConfig(srv.URL))

	_, err := c.Request(context.Background(), "e", nil)
	if !errors.Is(err, game.ErrNoMove) {
		t.Fatalf("err = %v, want ErrNoMove after exhausted retries", err)
	}
}

type sliceSuggester struct {
	words []string
}

func (s *sliceSuggester) Suggest(letter string, exclude map[string]struct{}, limit int) []string {
	var out []string
	for _, w := range s.words {
		if letter != "" && !strings.HasPrefix(w, letter) {
			continue
		}
		if _, used := exclude[w]; used {
			continue
		}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}

func TestLocalProvider(t *testing.T) {
	l := NewLocal(&sliceSuggester{words: []string{"eagle", "elephant", "tiger"}}, 1)

	word, err := l.Request(context.Background(), "e", []string{"eagle"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if word != "elephant" {
		t.Fatalf("word = %q, want elephant (eagle excluded, tiger wrong letter)", word)
	}
}

func TestLocalProviderNoMove(t *testing.T) {
	l := NewLocal(&sliceSuggester{}, 1)
	if _, err := l.Request(context.Background(), "z", nil); !errors.Is(err, game.ErrNoMove) {
		t.Fatalf("err = %v, want ErrNoMove", err)
	}
}
