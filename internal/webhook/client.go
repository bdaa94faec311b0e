package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/venture-backend/internal/goroutine"
)

// Client отправляет доменные события во внешний автоматизационный пайплайн.
// Доставка best-effort: ошибки логируются и не влияют на основной запрос.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента. Пустой url отключает отправку.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Trigger асинхронно отправляет событие. Вызывающая сторона не ждёт доставки.
func (c *Client) Trigger(event string, data map[string]interface{}) {
	if c.url == "" {
		return
	}

	payload := map[string]interface{}{
		"event":     event,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	goroutine.SafeGo(func() {
		if err := c.send(payload); err != nil {
			logrus.Warnf("Webhook %s не доставлен: %v", event, err)
		}
	})
}

func (c *Client) send(payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("неожиданный статус ответа: %s", resp.Status)
	}

	return nil
}
