package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// BotIdentity is the subset of the Telegram getMe response the health
// surface cares about.
type BotIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// TelegramProber performs the outbound bot identity check. It holds its own
// http.Client with a hard timeout so a wedged remote endpoint cannot block
// health reporting.
type TelegramProber struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewTelegramProber builds a prober for the given bot token. timeout bounds
// the whole request; zero means 30 seconds.
func NewTelegramProber(token string, timeout time.Duration) *TelegramProber {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TelegramProber{
		token:   token,
		baseURL: defaultAPIBase,
		client:  &http.Client{Timeout: timeout},
	}
}

// SetBaseURL overrides the Telegram API base URL. Used by tests.
func (p *TelegramProber) SetBaseURL(u string) { p.baseURL = u }

type getMeResponse struct {
	OK          bool        `json:"ok"`
	Description string      `json:"description"`
	Result      BotIdentity `json:"result"`
}

// CheckIdentity calls getMe and returns the bot identity. Any failure
// (transport, non-2xx, ok=false) comes back as an error value; it never
// panics.
func (p *TelegramProber) CheckIdentity(ctx context.Context) (BotIdentity, error) {
	url := fmt.Sprintf("%s/bot%s/getMe", p.baseURL, p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return BotIdentity{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return BotIdentity{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var body getMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return BotIdentity{}, fmt.Errorf("decode getMe response: %w", err)
	}
	if !body.OK {
		desc := body.Description
		if desc == "" {
			desc = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return BotIdentity{}, fmt.Errorf("getMe failed: %s", desc)
	}
	return body.Result, nil
}
