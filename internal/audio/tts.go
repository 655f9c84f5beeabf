package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"civicstrainer/internal/models"
)

const (
	googleTTSURL      = "https://translate.google.com/translate_tts"
	ttsRequestTimeout = 10 * time.Second
	// Google rejects longer queries
	maxQueryLength = 200
)

// ErrNothingToSpeak is returned for a card whose prompt is empty in every selected language
var ErrNothingToSpeak = errors.New("card has no text to speak")

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9_~-]+`)

// TTSService turns card prompts into MP3 files
type TTSService struct {
	audioDir string
	baseURL  string
	client   *http.Client
}

// NewTTSService creates a new TTS service writing into audioDir
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		baseURL:  googleTTSURL,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// WithBaseURL points the service at another TTS endpoint
func (s *TTSService) WithBaseURL(baseURL string) *TTSService {
	s.baseURL = baseURL
	return s
}

// Utterance is one text in one language
type Utterance struct {
	Lang string
	Text string
}

// Utterances returns what should be read aloud for item in lang
func Utterances(item models.Item, lang models.Language) []Utterance {
	var es, en string
	switch it := item.(type) {
	case *models.ShortAnswerItem:
		es, en = it.QuestionES, it.QuestionEN
	case *models.MultipleChoiceItem:
		es, en = it.StemES, it.StemEN
	default:
		return nil
	}

	var out []Utterance
	if (lang == models.LangES || lang == models.LangBoth) && strings.TrimSpace(es) != "" {
		out = append(out, Utterance{Lang: string(models.LangES), Text: es})
	}
	if (lang == models.LangEN || lang == models.LangBoth) && strings.TrimSpace(en) != "" {
		out = append(out, Utterance{Lang: string(models.LangEN), Text: en})
	}
	return out
}

// GenerateCardAudio writes one MP3 per selected language for item's prompt.
// Returns the full paths; files that already exist are reused.
func (s *TTSService) GenerateCardAudio(ctx context.Context, item models.Item, lang models.Language) ([]string, error) {
	utterances := Utterances(item, lang)
	if len(utterances) == 0 {
		return nil, ErrNothingToSpeak
	}

	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	paths := make([]string, 0, len(utterances))
	for _, u := range utterances {
		path := filepath.Join(s.audioDir, AudioFilename(item.ID(), u.Lang))
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
			continue
		}
		if err := s.generateUsingGoogleTTS(ctx, u, path); err != nil {
			return paths, fmt.Errorf("failed to generate audio for %s: %w", item.ID(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// AudioFilename is the cache file name of an item's prompt in lang
func AudioFilename(itemID, lang string) string {
	name := strings.ToLower(strings.TrimSpace(itemID))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	return fmt.Sprintf("%s_%s.mp3", name, lang)
}

// generateUsingGoogleTTS uses Google Translate's text-to-speech endpoint
func (s *TTSService) generateUsingGoogleTTS(ctx context.Context, u Utterance, outputPath string) error {
	text := u.Text
	if r := []rune(text); len(r) > maxQueryLength {
		text = string(r[:maxQueryLength])
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", u.Lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len([]rune(text))))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent (required by Google)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Write to a temp file first so a failed download never leaves a cached stub
	tmp := outputPath + ".part"
	outFile, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := io.Copy(outFile, resp.Body); err != nil {
		outFile.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp, outputPath)
}

// ClearCache removes every generated MP3
func (s *TTSService) ClearCache() (int, error) {
	files, err := os.ReadDir(s.audioDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read audio directory: %w", err)
	}

	removed := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".mp3" {
			continue
		}
		if err := os.Remove(filepath.Join(s.audioDir, file.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
