package audio

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// TTSService fetches spoken MP3 clips for dictation prompts and caches
// them on disk. Clips are keyed by a content hash so the same sentence is
// only fetched once.
type TTSService struct {
	cacheDir string
	baseURL  string
	client   *http.Client
}

const ttsRequestTimeout = 10 * time.Second

// NewTTSService creates a TTS service caching under cacheDir.
func NewTTSService(cacheDir string) *TTSService {
	return &TTSService{
		cacheDir: cacheDir,
		baseURL:  "https://translate.google.com/translate_tts",
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// SpeakWord returns the cached filename for a word clip, fetching it on a
// cache miss.
func (s *TTSService) SpeakWord(ctx context.Context, word string) (string, error) {
	return s.fetch(ctx, word, "word")
}

// SpeakExample returns the cached filename for an example sentence clip.
func (s *TTSService) SpeakExample(ctx context.Context, sentence string) (string, error) {
	return s.fetch(ctx, sentence, "example")
}

func (s *TTSService) fetch(ctx context.Context, text, kind string) (string, error) {
	sum := sha1.Sum([]byte(text))
	filename := fmt.Sprintf("%s_%s.mp3", kind, hex.EncodeToString(sum[:8]))
	path := filepath.Join(s.cacheDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating audio cache dir: %w", err)
	}
	if err := s.download(ctx, text, path); err != nil {
		return "", fmt.Errorf("generating audio for %q: %w", text, err)
	}
	return filename, nil
}

// download uses the Google Translate TTS endpoint, which needs no API key.
func (s *TTSService) download(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	// A browser user agent is required by the endpoint.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("writing audio file: %w", err)
	}
	return nil
}

// Prefetch fetches clips for a batch of words ahead of a session.
func (s *TTSService) Prefetch(ctx context.Context, words []string) (map[string]string, error) {
	results := make(map[string]string, len(words))
	for _, word := range words {
		filename, err := s.SpeakWord(ctx, word)
		if err != nil {
			return results, err
		}
		results[word] = filename
	}
	return results, nil
}

// CachedFiles lists all MP3 clips currently cached.
func (s *TTSService) CachedFiles() ([]string, error) {
	files, err := os.ReadDir(s.cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading audio cache: %w", err)
	}

	var clips []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".mp3" {
			clips = append(clips, file.Name())
		}
	}
	return clips, nil
}

// Evict removes a cached clip.
func (s *TTSService) Evict(filename string) error {
	path := filepath.Join(s.cacheDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
