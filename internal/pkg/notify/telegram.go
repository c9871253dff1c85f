// Package notify delivers run summaries and failure alerts to operators.
package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Min interval between messages to the same chat; Telegram throttles
// around 30 messages per minute per chat.
const sendInterval = 2 * time.Second

// TelegramNotifier sends run completion and failure messages. A nil
// notifier is valid and silently drops everything, so callers don't need
// to branch on whether notifications are configured.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier connects the bot and verifies the token. Returns
// nil (disabled) on any setup failure: notifications are best-effort and
// must never block a scrape.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to verify telegram bot", "error", err)
		return nil
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// RunCompleted sends the run's final counters.
func (n *TelegramNotifier) RunCompleted(run *models.ScrapeRun) {
	if n == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Scrape run completed: %s\n", run.ScraperName)
	fmt.Fprintf(&b, "Seasons: %s\n", strings.Join(run.Seasons, ", "))
	fmt.Fprintf(&b, "Scraped: %d, inserted: %d, updated: %d, failed: %d",
		run.GamesScraped, run.GamesInserted, run.GamesUpdated, run.GamesFailed)
	n.send(b.String())
}

// RunFailed alerts on a run-level failure.
func (n *TelegramNotifier) RunFailed(run *models.ScrapeRun) {
	if n == nil {
		return
	}
	n.send(fmt.Sprintf("Scrape run FAILED: %s\nSeasons: %s\nError: %s",
		run.ScraperName, strings.Join(run.Seasons, ", "), run.ErrorMessage))
}

func (n *TelegramNotifier) send(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram notification", "error", err)
		return
	}
	n.lastSend = time.Now()
}
