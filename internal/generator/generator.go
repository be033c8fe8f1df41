package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dictado/internal/models"
)

// Client generates vocabulary word sets through an OpenAI-compatible
// chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	now        func() time.Time
}

// New creates a generator client. baseURL is the API root without the
// /chat/completions suffix.
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// generatedWord is the JSON shape the model is asked to produce.
type generatedWord struct {
	Word    string `json:"word"`
	POS     string `json:"pos"`
	Meaning string `json:"meaning"`
	Example string `json:"example"`
}

var difficultyPrompts = map[models.Difficulty]string{
	models.DifficultyBeginner:     "common everyday words suitable for a beginner (CEFR A1-A2)",
	models.DifficultyIntermediate: "moderately challenging words suitable for an intermediate learner (CEFR B1-B2)",
	models.DifficultyAdvanced:     "sophisticated, less common words suitable for an advanced learner (CEFR C1-C2)",
}

// Generate asks the model for count fresh vocabulary entries at the given
// difficulty. The words listed in exclude are not repeated.
func (c *Client) Generate(ctx context.Context, difficulty models.Difficulty, count int, exclude []string) ([]*models.VocabularyEntry, error) {
	if !difficulty.IsValid() {
		return nil, fmt.Errorf("unknown difficulty: %s", difficulty)
	}
	if count <= 0 {
		count = 10
	}

	prompt := fmt.Sprintf(
		"Generate exactly %d English vocabulary words: %s. "+
			"Respond with ONLY a JSON array, no prose, where each element is "+
			`{"word": "...", "pos": "...", "meaning": "...", "example": "..."}. `+
			"pos is the part of speech, meaning is a concise definition, and "+
			"example is one natural sentence using the word.",
		count, difficultyPrompts[difficulty])
	if len(exclude) > 0 {
		prompt += " Do not use any of these words: " + strings.Join(exclude, ", ") + "."
	}

	content, err := c.complete(ctx,
		"You are a vocabulary tutor. You output strictly valid JSON.",
		prompt, 120*count)
	if err != nil {
		return nil, err
	}

	words, err := parseWordList(content)
	if err != nil {
		return nil, err
	}
	return c.toEntries(words), nil
}

// complete posts one chat completion and returns the message content.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("completion API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return response.Choices[0].Message.Content, nil
}

var sentenceInstructions = map[models.Difficulty]string{
	models.DifficultyBeginner:     "Use simple vocabulary and short sentences (8-12 words). Focus on basic grammar structures.",
	models.DifficultyIntermediate: "Use moderate vocabulary and medium-length sentences (12-18 words). Include some complex grammar.",
	models.DifficultyAdvanced:     "Use sophisticated vocabulary and longer sentences (18-25 words). Include complex grammar structures and nuanced meanings.",
}

// GenerateSentence asks the model for one dictation sentence using the given
// word at the given difficulty. When the entry already has a stored example,
// the model is asked for a different sentence.
func (c *Client) GenerateSentence(ctx context.Context, entry *models.VocabularyEntry, difficulty models.Difficulty) (string, error) {
	if !difficulty.IsValid() {
		return "", fmt.Errorf("unknown difficulty: %s", difficulty)
	}

	prompt := fmt.Sprintf("Generate a %s level English sentence using the word %q (%s).",
		difficulty, entry.Word, entry.POS)
	if entry.Meaning != "" {
		prompt += fmt.Sprintf(" The word means: %s.", entry.Meaning)
	}
	prompt += " " + sentenceInstructions[difficulty]
	if entry.Example != "" {
		prompt += fmt.Sprintf(" Here's an existing example for reference (create a different sentence): %q", entry.Example)
	}
	prompt += " Return only the sentence, no additional text or explanations."

	content, err := c.complete(ctx,
		"You are a helpful English language teacher assistant. Generate clear, grammatically correct sentences for vocabulary practice.",
		prompt, 100)
	if err != nil {
		return "", err
	}

	sentence := cleanSentence(content)
	if sentence == "" {
		return "", fmt.Errorf("generated sentence was empty")
	}
	return sentence, nil
}

// cleanSentence strips the framing models like to add around a bare sentence
func cleanSentence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = strings.Trim(s, `"'`)
	for _, prefix := range []string{"Sentence:", "sentence:"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	// drop "1. " style numbering
	if i := strings.IndexByte(s, '.'); i > 0 && i <= 3 {
		if _, err := strconv.Atoi(s[:i]); err == nil {
			s = strings.TrimSpace(s[i+1:])
		}
	}
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// fallbackTemplates hold stock dictation sentences by difficulty and word
// class, used when no generated or stored example is available.
var fallbackTemplates = map[models.Difficulty]map[string]string{
	models.DifficultyBeginner: {
		"noun":      "The %s is very important.",
		"verb":      "I %s every day.",
		"adjective": "This is very %s.",
	},
	models.DifficultyIntermediate: {
		"noun":      "The %s plays an important role in our daily lives.",
		"verb":      "She managed to %s despite the challenges.",
		"adjective": "The results were surprisingly %s.",
	},
	models.DifficultyAdvanced: {
		"noun":      "Scholars have extensively debated the implications of this particular %s throughout history.",
		"verb":      "Researchers continue to %s innovative methodologies to address contemporary challenges.",
		"adjective": "The findings proved remarkably %s under closer examination.",
	},
}

// FallbackSentence builds a stock dictation sentence for a word. It needs no
// client and never fails.
func FallbackSentence(word, pos string, difficulty models.Difficulty) string {
	templates, ok := fallbackTemplates[difficulty]
	if !ok {
		templates = fallbackTemplates[models.DifficultyIntermediate]
	}

	class := "noun"
	switch p := strings.ToLower(strings.TrimSpace(pos)); {
	case strings.HasPrefix(p, "v"):
		class = "verb"
	case strings.HasPrefix(p, "adj"):
		class = "adjective"
	}
	return fmt.Sprintf(templates[class], word)
}

// GenerateWithFallback tries the model and falls back to the built-in word
// bank when the model is unreachable or returns garbage.
func (c *Client) GenerateWithFallback(ctx context.Context, difficulty models.Difficulty, count int, exclude []string) []*models.VocabularyEntry {
	entries, err := c.Generate(ctx, difficulty, count, exclude)
	if err == nil && len(entries) > 0 {
		return entries
	}
	return c.fallback(difficulty, count, exclude)
}

// parseWordList extracts the JSON array from the model output, tolerating
// markdown code fences and surrounding prose.
func parseWordList(content string) ([]generatedWord, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			content = content[start : end+1]
		}
	}

	var words []generatedWord
	if err := json.Unmarshal([]byte(content), &words); err != nil {
		return nil, fmt.Errorf("parsing generated word list: %w", err)
	}

	valid := words[:0]
	for _, w := range words {
		if strings.TrimSpace(w.Word) == "" {
			continue
		}
		valid = append(valid, w)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("generated word list was empty")
	}
	return valid, nil
}

func (c *Client) toEntries(words []generatedWord) []*models.VocabularyEntry {
	now := c.now()
	entries := make([]*models.VocabularyEntry, 0, len(words))
	for _, w := range words {
		entries = append(entries, &models.VocabularyEntry{
			ID:        uuid.NewString(),
			Word:      strings.TrimSpace(w.Word),
			POS:       strings.TrimSpace(w.POS),
			Meaning:   strings.TrimSpace(w.Meaning),
			Example:   strings.TrimSpace(w.Example),
			DateAdded: now,
		})
	}
	return entries
}

func (c *Client) fallback(difficulty models.Difficulty, count int, exclude []string) []*models.VocabularyEntry {
	excluded := make(map[string]bool, len(exclude))
	for _, w := range exclude {
		excluded[strings.ToLower(w)] = true
	}

	now := c.now()
	var entries []*models.VocabularyEntry
	for _, w := range fallbackBank[difficulty] {
		if len(entries) == count {
			break
		}
		if excluded[w.Word] {
			continue
		}
		entries = append(entries, &models.VocabularyEntry{
			ID:        uuid.NewString(),
			Word:      w.Word,
			POS:       w.POS,
			Meaning:   w.Meaning,
			Example:   w.Example,
			DateAdded: now,
		})
	}
	return entries
}

// fallbackBank is a small built-in word list per difficulty, used when the
// generator endpoint is unavailable.
var fallbackBank = map[models.Difficulty][]generatedWord{
	models.DifficultyBeginner: {
		{Word: "house", POS: "noun", Meaning: "a building where people live", Example: "They bought a small house near the park."},
		{Word: "water", POS: "noun", Meaning: "the clear liquid that falls as rain", Example: "She drank a glass of water."},
		{Word: "happy", POS: "adjective", Meaning: "feeling pleasure or joy", Example: "The children were happy to see the snow."},
		{Word: "walk", POS: "verb", Meaning: "to move on foot at a regular pace", Example: "We walk to school every morning."},
		{Word: "friend", POS: "noun", Meaning: "a person you know well and like", Example: "My best friend lives next door."},
		{Word: "morning", POS: "noun", Meaning: "the early part of the day", Example: "He reads the paper every morning."},
		{Word: "little", POS: "adjective", Meaning: "small in size or amount", Example: "A little bird sat on the fence."},
		{Word: "listen", POS: "verb", Meaning: "to pay attention to sound", Example: "Please listen carefully to the question."},
		{Word: "table", POS: "noun", Meaning: "a piece of furniture with a flat top", Example: "Dinner is on the table."},
		{Word: "school", POS: "noun", Meaning: "a place where children learn", Example: "The school opens at eight."},
	},
	models.DifficultyIntermediate: {
		{Word: "persuade", POS: "verb", Meaning: "to cause someone to do something through reasoning", Example: "She persuaded him to join the team."},
		{Word: "reluctant", POS: "adjective", Meaning: "unwilling and hesitant", Example: "He was reluctant to admit his mistake."},
		{Word: "gesture", POS: "noun", Meaning: "a movement expressing an idea or feeling", Example: "She made a welcoming gesture toward the door."},
		{Word: "thorough", POS: "adjective", Meaning: "complete with regard to every detail", Example: "The inspector made a thorough search."},
		{Word: "achieve", POS: "verb", Meaning: "to successfully reach a goal", Example: "They achieved record sales this year."},
		{Word: "curious", POS: "adjective", Meaning: "eager to know or learn something", Example: "The curious cat opened the cupboard."},
		{Word: "estimate", POS: "verb", Meaning: "to roughly judge a value or amount", Example: "We estimate the trip will take three hours."},
		{Word: "neglect", POS: "verb", Meaning: "to fail to care for properly", Example: "He neglected the garden all summer."},
		{Word: "abundant", POS: "adjective", Meaning: "existing in large quantities", Example: "The valley has abundant rainfall."},
		{Word: "dispute", POS: "noun", Meaning: "a disagreement or argument", Example: "The dispute over the fence lasted years."},
	},
	models.DifficultyAdvanced: {
		{Word: "ephemeral", POS: "adjective", Meaning: "lasting for a very short time", Example: "Fame in that industry is often ephemeral."},
		{Word: "obfuscate", POS: "verb", Meaning: "to deliberately make unclear", Example: "The report seemed designed to obfuscate the facts."},
		{Word: "pernicious", POS: "adjective", Meaning: "having a harmful effect in a gradual way", Example: "Rumors had a pernicious effect on morale."},
		{Word: "sycophant", POS: "noun", Meaning: "a person who flatters to gain advantage", Example: "The director surrounded himself with sycophants."},
		{Word: "recalcitrant", POS: "adjective", Meaning: "stubbornly resistant to authority", Example: "The recalcitrant witness refused to answer."},
		{Word: "perfunctory", POS: "adjective", Meaning: "carried out with minimal effort or care", Example: "He gave the contract a perfunctory glance."},
		{Word: "acumen", POS: "noun", Meaning: "the ability to make good judgments", Example: "Her business acumen saved the company."},
		{Word: "intransigent", POS: "adjective", Meaning: "unwilling to change one's views", Example: "Negotiations stalled against an intransigent board."},
		{Word: "propitious", POS: "adjective", Meaning: "indicating a good chance of success", Example: "They waited for a propitious moment to launch."},
		{Word: "vicissitude", POS: "noun", Meaning: "an unwelcome change of circumstance", Example: "The family endured the vicissitudes of war."},
	},
}
