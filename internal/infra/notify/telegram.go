package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vietddude/nodewatch/internal/core/config"
)

// Telegram messages are capped at 4096 characters.
const telegramMaxMessage = 4096

// Telegram sends alerts through the Bot API sendMessage method.
type Telegram struct {
	apiURL     string
	token      string
	chatID     string
	httpClient *http.Client
}

func NewTelegram(cfg config.TelegramConfig) *Telegram {
	return &Telegram{
		apiURL:     cfg.APIURL,
		token:      cfg.Token,
		chatID:     cfg.ChatID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Report sends message, split into several messages when it is too long.
func (t *Telegram) Report(ctx context.Context, message string) error {
	for _, chunk := range splitMessage(message, telegramMaxMessage) {
		if err := t.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (t *Telegram) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	if !result.OK {
		return fmt.Errorf("telegram api error (http %d): %s", resp.StatusCode, result.Description)
	}
	return nil
}

// splitMessage cuts message into chunks of at most limit bytes, preferring
// line boundaries and never splitting a UTF-8 sequence.
func splitMessage(message string, limit int) []string {
	var chunks []string
	for len(message) > limit {
		cut := strings.LastIndexByte(message[:limit], '\n')
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(message[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		} else {
			cut++
		}
		chunks = append(chunks, message[:cut])
		message = message[cut:]
	}
	if message != "" {
		chunks = append(chunks, message)
	}
	return chunks
}
