package reporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-headline-sync/internal/config"
	"go-headline-sync/internal/workflow"
)

// Sender delivers one formatted message.
type Sender interface {
	SendMessage(text string) error
}

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// SendResult posts the outcome of a run.
func SendResult(s Sender, headline string, res workflow.Result, runErr error) error {
	return s.SendMessage(FormatResult(headline, res, runErr))
}

// FormatResult renders a run outcome as Telegram HTML. Only the headline, the
// stage and the error are included, never credentials.
func FormatResult(headline string, res workflow.Result, runErr error) string {
	var b strings.Builder
	if runErr == nil {
		b.WriteString("✅ <b>Resume headline updated</b>\n")
	} else {
		b.WriteString("❌ <b>Resume headline update failed</b>\n")
	}
	fmt.Fprintf(&b, "📝 %s\n", html.EscapeString(headline))
	fmt.Fprintf(&b, "📍 Reached: %s\n", res.Reached)

	if runErr == nil {
		verified := "no (dialog closed, text not confirmed)"
		if res.Verified {
			verified = "yes"
		}
		fmt.Fprintf(&b, "🔍 Verified: %s\n", verified)
	} else {
		kind := workflow.KindOf(runErr)
		if kind == "" {
			kind = "unknown"
		}
		fmt.Fprintf(&b, "⚠️ %s: %s\n", kind, html.EscapeString(runErr.Error()))
	}
	fmt.Fprintf(&b, "⏱ %s", res.Duration().Round(100*time.Millisecond))
	return b.String()
}
