package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSelectVoice(t *testing.T) {
	voices := []Voice{
		{Name: "alena", Language: "ru-RU"},
		{Name: "john", Language: "en-US"},
		{Name: "jane", Language: "en-GB"},
	}

	cases := []struct {
		want string
		lang string
		name string
	}{
		{"John", "", "john"},        // name match, case-insensitive
		{"oh", "", "john"},          // substring match
		{"", "en", "john"},          // language fallback, first wins
		{"nadia", "ru-RU", "alena"}, // unknown name falls back to language
		{"nadia", "de-DE", ""},      // nothing matches, synthesizer default
		{"", "", ""},
	}
	for i, c := range cases {
		got := SelectVoice(voices, c.want, c.lang)
		if got.Name != c.name {
			t.Fatalf("case#%v SelectVoice(%q, %q)=%q want %q", i, c.want, c.lang, got.Name, c.name)
		}
	}
}

func TestClientSynthesize(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Api-Key test-key" {
			t.Errorf("authorization header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		form = r.PostForm
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c := NewClient("test-key", "folder-1")
	c.URL = srv.URL

	b, err := c.Synthesize(context.Background(), Request{
		Text:     "lights are on",
		Language: "en-US",
		Options:  Options{Voice: "john", Rate: 1.2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "mp3-bytes" {
		t.Fatalf("unexpected body %q", b)
	}

	checks := map[string]string{
		"text":     "lights are on",
		"lang":     "en-US",
		"voice":    "john",
		"speed":    "1.2",
		"folderId": "folder-1",
		"format":   "mp3",
	}
	for k, want := range checks {
		if len(form[k]) == 0 || form[k][0] != want {
			t.Fatalf("form %s=%v want %q", k, form[k], want)
		}
	}
}

func TestClientSynthesizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", "folder")
	c.URL = srv.URL

	if _, err := c.Synthesize(context.Background(), Request{Text: "hi"}); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
