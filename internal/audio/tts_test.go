package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*TTSService, *int) {
	t.Helper()
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	s := NewTTSService(t.TempDir())
	s.baseURL = server.URL
	s.client = server.Client()
	return s, &hits
}

func TestSpeakWordCachesClip(t *testing.T) {
	s, hits := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "harbor" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte("mp3data"))
	})

	ctx := context.Background()
	filename, err := s.SpeakWord(ctx, "harbor")
	if err != nil {
		t.Fatalf("SpeakWord: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(s.cacheDir, filename))
	if err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
	if string(data) != "mp3data" {
		t.Errorf("cached data = %q", data)
	}

	again, err := s.SpeakWord(ctx, "harbor")
	if err != nil {
		t.Fatal(err)
	}
	if again != filename {
		t.Errorf("cache miss on repeat: %s vs %s", again, filename)
	}
	if *hits != 1 {
		t.Errorf("endpoint hit %d times, want 1", *hits)
	}
}

func TestSpeakWordAndExampleUseDistinctClips(t *testing.T) {
	s, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3data"))
	})

	ctx := context.Background()
	wordClip, err := s.SpeakWord(ctx, "harbor")
	if err != nil {
		t.Fatal(err)
	}
	exampleClip, err := s.SpeakExample(ctx, "harbor")
	if err != nil {
		t.Fatal(err)
	}
	if wordClip == exampleClip {
		t.Error("word and example clips share a filename")
	}
}

func TestSpeakWordErrorStatus(t *testing.T) {
	s, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := s.SpeakWord(context.Background(), "harbor"); err == nil {
		t.Error("expected error on non-200 status")
	}

	clips, err := s.CachedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(clips) != 0 {
		t.Errorf("failed fetch left files behind: %v", clips)
	}
}

func TestEvict(t *testing.T) {
	s, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3data"))
	})

	filename, err := s.SpeakWord(context.Background(), "harbor")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Evict(filename); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	if err := s.Evict(filename); err != nil {
		t.Errorf("double Evict: %v", err)
	}

	clips, _ := s.CachedFiles()
	if len(clips) != 0 {
		t.Errorf("clips after evict: %v", clips)
	}
}
