package synthesizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

// systemPrompt требует от модели нейтральный пересказ фактов без оценок
// и строгий JSON с фиксированным перечнем категорий.
const systemPrompt = `You are a neutral news editor. Given several related news items, write one
combined synthesis: only verifiable facts, no opinions, no emotional language,
no speculation. Respond with a single JSON object and nothing else:
{"title": string, "summary": string (3-4 sentences), "category": one of
"politics"|"economy"|"technology"|"sport"|"culture"|"science"|"health"|"environment"|"other",
"location": string (main country or region, empty if unclear)}`

// Synthesizer выполняет обращения к chat-completion API по одной группе публикаций.
type Synthesizer struct {
	client *openai.Client
	model  string
}

// New создаёт Synthesizer. Непустой baseURL переопределяет адрес API
// (используется в тестах и для совместимых провайдеров).
func New(apiKey, model, baseURL string) *Synthesizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Synthesizer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Batches разбивает список публикаций на последовательные группы по size.
// Последняя группа может быть короче.
func Batches(items []models.Item, size int) [][]models.Item {
	if size < 1 {
		size = 1
	}
	var batches [][]models.Item
	for start := 0; start < len(items); start += size {
		batches = append(batches, items[start:min(start+size, len(items))])
	}
	return batches
}

// SynthesizeBatch выполняет один запрос к модели и возвращает проверенный результат.
// Любая ошибка означает пропуск группы; вызывающая сторона продолжает со следующей.
func (s *Synthesizer) SynthesizeBatch(ctx context.Context, batch []models.Item) (*models.Synthesis, error) {
	if len(batch) == 0 {
		return nil, errors.New("empty batch")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(batch)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("completion returned no choices")
	}

	syn, err := ParseSynthesis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	for _, item := range batch {
		if item.Link != "" {
			syn.SourceURLs = append(syn.SourceURLs, item.Link)
		}
	}
	return syn, nil
}

// buildPrompt собирает пользовательское сообщение из заголовков, описаний и ссылок группы.
func buildPrompt(batch []models.Item) string {
	var b strings.Builder
	b.WriteString("Synthesize the following news items into one item:\n")
	for i, item := range batch {
		fmt.Fprintf(&b, "\n%d. [%s] %s\n%s\n%s\n", i+1, item.Source, item.Title, item.Description, item.Link)
	}
	return b.String()
}

// ParseSynthesis извлекает из ответа модели первый JSON-объект и проверяет его поля.
// Заголовок и краткое содержание обязательны; неизвестная категория приводится к "other".
func ParseSynthesis(content string) (*models.Synthesis, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, errors.New("no JSON object in completion")
	}

	var syn models.Synthesis
	if err := json.Unmarshal([]byte(content[start:end+1]), &syn); err != nil {
		return nil, fmt.Errorf("malformed JSON in completion: %w", err)
	}

	syn.Title = strings.TrimSpace(syn.Title)
	syn.Summary = strings.TrimSpace(syn.Summary)
	if syn.Title == "" || syn.Summary == "" {
		return nil, errors.New("completion missing title or summary")
	}
	if !models.ValidCategory(syn.Category) {
		syn.Category = models.CategoryOther
	}
	return &syn, nil
}
