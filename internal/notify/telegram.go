// Package notify pushes group and room events to a Telegram chat.
package notify

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/logger"
)

// Sender is the part of tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const queueSize = 64

// Telegram delivers notifications from a single background worker so callers
// never wait on the network. Events beyond the queue capacity are dropped.
type Telegram struct {
	sender Sender
	chatID int64

	mu     sync.Mutex
	closed bool
	queue  chan string
	wg     sync.WaitGroup

	retryDelay time.Duration
}

// NewTelegramBot authorizes against the Bot API with token.
func NewTelegramBot(token string, chatID int64, debug bool) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug
	logger.Info("Authorized on account", "username", api.Self.UserName)
	return NewTelegram(api, chatID), nil
}

func NewTelegram(sender Sender, chatID int64) *Telegram {
	t := &Telegram{
		sender:     sender,
		chatID:     chatID,
		queue:      make(chan string, queueSize),
		retryDelay: time.Second,
	}
	t.wg.Add(1)
	go t.run()
	return t
}

func (t *Telegram) GroupFormed(group *models.Group) {
	t.enqueue(FormatGroup(group))
}

func (t *Telegram) RoomFull(room *models.Room) {
	t.enqueue(FormatRoom(room))
}

// Close stops accepting events and waits for queued ones to be sent.
func (t *Telegram) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Telegram) enqueue(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		logger.Warn("Notification dropped after close")
		return
	}
	select {
	case t.queue <- text:
	default:
		logger.Warn("Notification queue full, dropping message")
	}
}

func (t *Telegram) run() {
	defer t.wg.Done()
	for text := range t.queue {
		t.send(text)
	}
}

func (t *Telegram) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err := t.sender.Send(msg)
		if err == nil {
			return
		}
		logger.Error("Failed to send notification", "error", err, "chat_id", t.chatID, "attempt", i+1)

		if !isTransient(err) {
			return
		}
		time.Sleep(time.Duration(i+1) * t.retryDelay)
	}
}

func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network is unreachable")
}

var menuLabels = map[models.Menu]string{
	models.MenuKorean:   "한식",
	models.MenuJapanese: "일식",
	models.MenuChinese:  "중식",
	models.MenuWestern:  "양식",
	models.MenuSalad:    "샐러드",
	models.MenuSnack:    "분식",
}

func menuLabel(m models.Menu) string {
	if label, ok := menuLabels[m]; ok {
		return label
	}
	return string(m)
}

// FormatGroup renders a formed group as a Telegram HTML message.
func FormatGroup(group *models.Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍱 <b>점심 그룹 매칭 완료!</b> (%d명)\n", len(group.Members))
	fmt.Fprintf(&b, "🕐 %s · %s · %s\n", group.TimeSlot, menuLabel(group.Menu), group.PriceRange)
	if group.Restaurant.Name != "" {
		fmt.Fprintf(&b, "📍 %s (도보 %d분, ⭐ %.1f)\n", html.EscapeString(group.Restaurant.Name), group.Restaurant.Distance, group.Restaurant.Rating)
	}
	b.WriteString("👥 ")
	names := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		names = append(names, fmt.Sprintf("%s(%s)", html.EscapeString(m.DisplayName), html.EscapeString(m.Department)))
	}
	b.WriteString(strings.Join(names, ", "))
	return b.String()
}

// FormatRoom renders a room that just filled up.
func FormatRoom(room *models.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 <b>%s</b> 모집 완료! (%d/%d)\n", html.EscapeString(room.Title), len(room.Members), room.MaxCount)
	fmt.Fprintf(&b, "🕐 %s · %s\n", room.TimeSlot, menuLabel(room.Menu))
	if room.Restaurant != nil {
		fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(room.Restaurant.Name))
	}
	names := make([]string, 0, len(room.Members))
	for _, m := range room.Members {
		name := html.EscapeString(m.Name)
		if m.IsCreator {
			name += " 👑"
		}
		names = append(names, name)
	}
	b.WriteString("👥 " + strings.Join(names, ", "))
	return b.String()
}
