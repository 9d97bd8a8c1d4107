package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-linkedin-applicants/internal/scraper"
)

// Summary describes one finished (or failed) run.
type Summary struct {
	RunID      string
	JobURL     string
	Records    int
	Degraded   int
	NoEmail    int
	NoPhone    int
	OutputPath string
	Duration   time.Duration
	Err        error
}

// Summarize counts records and the fields that fell back to sentinels.
func Summarize(runID, jobURL string, records []scraper.ApplicantRecord) Summary {
	s := Summary{RunID: runID, JobURL: jobURL, Records: len(records)}
	for _, r := range records {
		if r.Degraded() > 0 {
			s.Degraded++
		}
		if r.Email == scraper.EmailNotFound {
			s.NoEmail++
		}
		if r.Phone == scraper.PhoneNotFound {
			s.NoPhone++
		}
	}
	return s
}

type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// Nop is used when no bot token is configured.
type Nop struct{}

func (Nop) Notify(context.Context, Summary) error { return nil }

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	api    sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, s Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatSummary(s))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send summary: %w", err)
	}
	log.Println("📨 Run summary sent to Telegram")
	return nil
}

// FormatSummary renders s as a MarkdownV2 message.
func FormatSummary(s Summary) string {
	var b strings.Builder
	if s.Err != nil {
		b.WriteString("❌ *LinkedIn applicants run failed*\n")
	} else {
		b.WriteString("✅ *LinkedIn applicants run finished*\n")
	}
	fmt.Fprintf(&b, "🆔 %s\n", escapeMarkdown(s.RunID))
	if s.JobURL != "" {
		fmt.Fprintf(&b, "🔗 [Job posting](%s)\n", escapeLink(s.JobURL))
	}
	fmt.Fprintf(&b, "👥 Applicants: %d\n", s.Records)
	if s.Degraded > 0 {
		fmt.Fprintf(&b, "⚠️ Incomplete: %d \\(no email: %d, no phone: %d\\)\n", s.Degraded, s.NoEmail, s.NoPhone)
	}
	if s.OutputPath != "" {
		fmt.Fprintf(&b, "💾 %s\n", escapeMarkdown(s.OutputPath))
	}
	if s.Duration > 0 {
		fmt.Fprintf(&b, "⏱ %s\n", escapeMarkdown(s.Duration.Round(time.Second).String()))
	}
	if s.Err != nil {
		fmt.Fprintf(&b, "🧨 %s\n", escapeMarkdown(s.Err.Error()))
	}
	return b.String()
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!", "\\", "\\\\",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// inside (...) only ")" and "\" need escaping
func escapeLink(url string) string {
	return strings.NewReplacer(")", "\\)", "\\", "\\\\").Replace(url)
}
