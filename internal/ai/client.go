package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/venture-backend/internal/models"
)

// EmbeddingDimensions размерность вектора text-embedding-ada-002.
const EmbeddingDimensions = 1536

// Client реализует оценку идей через OpenAI-совместимый API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, model string) *Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("AI_API_KEY")
	}

	if model == "" {
		model = "gpt-3.5-turbo"
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ValidateIdea оценивает идею и возвращает балл, резюме, оценку
// оригинальности и embedding описания. Ошибок наружу не отдаёт:
// при недоступности провайдера возвращается нейтральный fallback,
// отправка идеи не должна падать из-за AI.
func (c *Client) ValidateIdea(ctx context.Context, idea *models.Idea) *models.IdeaValidation {
	validation, err := c.validate(ctx, idea)
	if err != nil {
		logrus.Warnf("AI validation недоступна, используем fallback: %v", err)
		return FallbackValidation()
	}

	return validation
}

func (c *Client) validate(ctx context.Context, idea *models.Idea) (*models.IdeaValidation, error) {
	prompt := fmt.Sprintf(
		`Оцени стартап-идею и верни строго JSON вида {"score": <0-100>, "summary": "<2-3 предложения>", "originalityScore": <0-100>}.

Название: %s
Категория: %s
Описание: %s
Проблема: %s
Решение: %s
Целевой рынок: %s
Бизнес-модель: %s
Запрашиваемое финансирование: %.2f за %.2f%% доли`,
		idea.Title, idea.Category, idea.Description, idea.ProblemStatement,
		idea.Solution, idea.TargetMarket, idea.BusinessModel,
		idea.RequestedFunding, idea.EquityOffered,
	)

	messages := []map[string]string{
		{"role": "system", "content": "Ты аналитик венчурного фонда. Отвечай только валидным JSON."},
		{"role": "user", "content": prompt},
	}

	content, err := c.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	parsed := parseJSONFromText(content)

	validation := &models.IdeaValidation{}
	if score, ok := parsed["score"].(float64); ok {
		validation.Score = score
	}
	if summary, ok := parsed["summary"].(string); ok {
		validation.Summary = summary
	}
	if originality, ok := parsed["originalityScore"].(float64); ok {
		validation.OriginalityScore = originality
	}

	if validation.Score == 0 && validation.Summary == "" {
		return nil, fmt.Errorf("ai: не удалось разобрать ответ модели")
	}

	embedding, err := c.embedding(ctx, idea.Description)
	if err != nil {
		// Оценка важнее вектора, embedding заменяем нулевым
		logrus.Warnf("AI embedding недоступен: %v", err)
		embedding = zeroEmbedding()
	}
	validation.Embedding = embedding

	return validation, nil
}

// chatCompletion выполняет запрос к OpenAI-совместимому API.
func (c *Client) chatCompletion(ctx context.Context, messages []map[string]string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("ai: baseURL не задан")
	}

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  512,
		"temperature": 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("ai: код ответа %d: %v", resp.StatusCode, errorBody)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("ai: пустой ответ")
	}

	return result.Choices[0].Message.Content, nil
}

// embedding запрашивает вектор текста у провайдера.
func (c *Client) embedding(ctx context.Context, text string) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("ai: baseURL не задан")
	}

	payload := map[string]any{
		"model": "text-embedding-ada-002",
		"input": text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := c.baseURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += "embeddings"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("ai: код ответа %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("ai: пустой ответ embeddings")
	}

	return json.Marshal(result.Data[0].Embedding)
}

// parseJSONFromText пытается извлечь JSON из текста, который может содержать markdown
func parseJSONFromText(text string) map[string]interface{} {
	result := make(map[string]interface{})

	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd != -1 && jsonEnd > jsonStart {
		jsonStr := text[jsonStart : jsonEnd+1]
		if err := json.Unmarshal([]byte(jsonStr), &result); err == nil {
			return result
		}
	}

	if strings.Contains(text, "```") {
		codeBlockMatch := regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```").FindStringSubmatch(text)
		if len(codeBlockMatch) > 1 {
			if err := json.Unmarshal([]byte(codeBlockMatch[1]), &result); err == nil {
				return result
			}
		}
	}

	return result
}

// FallbackValidation возвращает нейтральную оценку при недоступности AI.
func FallbackValidation() *models.IdeaValidation {
	return &models.IdeaValidation{
		Score:            75,
		Summary:          "Автоматическая оценка временно недоступна. Идее присвоен нейтральный балл, он будет пересчитан позже.",
		OriginalityScore: 70,
		Embedding:        zeroEmbedding(),
	}
}

func zeroEmbedding() json.RawMessage {
	vector := make([]float64, EmbeddingDimensions)
	data, _ := json.Marshal(vector)
	return data
}
