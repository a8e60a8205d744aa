package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	dservice "github.com/Vitek192/sola-sub000/internal/domain/service"
	xhttp "github.com/Vitek192/sola-sub000/pkg/http"
)

// Notifier forwards escalated alerts to a Telegram chat via the Bot API.
type Notifier struct {
	botToken string
	chatID   string
	http     *xhttp.Client
}

// New creates a Telegram notifier.
func New(botToken, chatID string) dservice.Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		http:     xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify posts one message to the configured chat.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	var resp sendMessageResponse
	err := n.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken),
		Body: map[string]string{
			"chat_id": n.chatID,
			"text":    text,
		},
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram send rejected: %s", resp.Description)
	}
	return nil
}
