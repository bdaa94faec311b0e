package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/venture-backend/internal/models"
)

func testIdea() *models.Idea {
	return &models.Idea{
		ID:               uuid.New(),
		Title:            "Платформа доставки дронами",
		Category:         "logistics",
		Description:      "Автономная доставка мелких грузов дронами в пределах города.",
		ProblemStatement: "Последняя миля дорогая и медленная.",
		Solution:         "Флот дронов с автоматической диспетчеризацией.",
		TargetMarket:     "Городские e-commerce компании",
		BusinessModel:    "Комиссия с доставки",
		RequestedFunding: 500000,
		EquityOffered:    12.5,
	}
}

// fakeProvider поднимает OpenAI-совместимый сервер для тестов.
func fakeProvider(t *testing.T, chatContent string, embeddingDims int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "test-model", payload["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": chatContent}},
			},
		})
	})

	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		vector := make([]float64, embeddingDims)
		for i := range vector {
			vector[i] = 0.01
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": vector}},
		})
	})

	return httptest.NewServer(mux)
}

func TestValidateIdea_ParsesProviderResponse(t *testing.T) {
	server := fakeProvider(t, `{"score": 88, "summary": "Перспективный рынок", "originalityScore": 73}`, 4)
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	result := client.ValidateIdea(context.Background(), testIdea())

	require.NotNil(t, result)
	assert.Equal(t, 88.0, result.Score)
	assert.Equal(t, "Перспективный рынок", result.Summary)
	assert.Equal(t, 73.0, result.OriginalityScore)

	var vector []float64
	require.NoError(t, json.Unmarshal(result.Embedding, &vector))
	assert.Len(t, vector, 4)
}

func TestValidateIdea_MarkdownWrappedJSON(t *testing.T) {
	content := "Вот оценка:\n```json\n{\"score\": 55, \"summary\": \"Средне\", \"originalityScore\": 40}\n```"
	server := fakeProvider(t, content, 2)
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	result := client.ValidateIdea(context.Background(), testIdea())

	assert.Equal(t, 55.0, result.Score)
	assert.Equal(t, "Средне", result.Summary)
}

func TestValidateIdea_FallbackWhenProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	result := client.ValidateIdea(context.Background(), testIdea())

	fallback := FallbackValidation()
	assert.Equal(t, fallback.Score, result.Score)
	assert.Equal(t, fallback.OriginalityScore, result.OriginalityScore)
	assert.Equal(t, fallback.Summary, result.Summary)

	var vector []float64
	require.NoError(t, json.Unmarshal(result.Embedding, &vector))
	assert.Len(t, vector, EmbeddingDimensions, "fallback несёт нулевой вектор полной размерности")
}

func TestValidateIdea_FallbackWhenResponseUnparsable(t *testing.T) {
	server := fakeProvider(t, "извините, не могу оценить эту идею", 2)
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	result := client.ValidateIdea(context.Background(), testIdea())

	assert.Equal(t, FallbackValidation().Score, result.Score)
}

func TestValidateIdea_ZeroEmbeddingWhenEmbeddingsDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"score": 60, "summary": "Ок", "originalityScore": 50}`}},
			},
		})
	})
	mux.HandleFunc("/embeddings", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	result := client.ValidateIdea(context.Background(), testIdea())

	// Оценка сохраняется, вектор деградирует до нулевого
	assert.Equal(t, 60.0, result.Score)

	var vector []float64
	require.NoError(t, json.Unmarshal(result.Embedding, &vector))
	assert.Len(t, vector, EmbeddingDimensions)
	for _, v := range vector {
		require.Zero(t, v)
	}
}

func TestParseJSONFromText(t *testing.T) {
	parsed := parseJSONFromText(`Результат: {"score": 42, "summary": "текст"} конец`)
	assert.Equal(t, 42.0, parsed["score"])

	parsed = parseJSONFromText("```json\n{\"score\": 10}\n```")
	assert.Equal(t, 10.0, parsed["score"])

	parsed = parseJSONFromText("просто текст без JSON")
	assert.Empty(t, parsed)
}
