package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/interview-bot/internal/dialog"
	"github.com/xaenox/interview-bot/internal/menu"
	"go.uber.org/zap"
)

// maxMessageLength is Telegram's limit for one text message, in characters.
const maxMessageLength = 4096

// Handler produces replies for a user.
type Handler interface {
	HandleMessage(ctx context.Context, userID, text string) dialog.Reply
	Welcome(ctx context.Context, userID string) dialog.Reply
}

type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func New(token string, handler Handler, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:     api,
		handler: handler,
		logger:  logger,
	}, nil
}

// Start polls updates until ctx is done, handling each message in its own goroutine.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			if update.Message == nil {
				continue
			}

			b.wg.Add(1)
			go func(message *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, message)
			}(update.Message)
		}
	}
}

func userID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if len(message.NewChatMembers) > 0 {
		for _, member := range message.NewChatMembers {
			if member.IsBot {
				continue
			}
			b.sendReply(message.Chat.ID, b.handler.Welcome(ctx, userID(member.ID)))
		}
		return
	}

	if message.From == nil {
		return
	}

	// Handle commands
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	if content == "" {
		b.sendMessage(message.Chat.ID, "Je ne peux lire que des messages texte.")
		return
	}

	b.sendReply(message.Chat.ID, b.handler.HandleMessage(ctx, userID(message.From.ID), content))
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.handleHelp(message)
	case "menu":
		b.sendReply(message.Chat.ID, b.handler.HandleMessage(ctx, userID(message.From.ID), "🏠"))
	default:
		b.sendMessage(message.Chat.ID, "Commande inconnue. Utilisez /help pour voir les commandes disponibles.")
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	b.sendReply(message.Chat.ID, b.handler.Welcome(ctx, userID(message.From.ID)))
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Commandes disponibles :
/start - Démarrer l'assistant
/menu - Afficher le menu principal
/help - Afficher cette aide

Vous pouvez aussi utiliser les boutons proposés ou m'écrire librement :
je vous aide à préparer vos entretiens, simuler un recrutement et suivre vos progrès.`

	b.sendMessage(message.Chat.ID, help)
}

// sendReply sends the reply text, then the menu prompt carrying the keyboard.
func (b *Bot) sendReply(chatID int64, reply dialog.Reply) {
	chunks := splitText(reply.Text, maxMessageLength)
	if reply.Menu == nil || len(reply.Menu.Options) == 0 {
		for _, chunk := range chunks {
			b.sendMessage(chatID, chunk)
		}
		return
	}

	prompt := reply.Menu.Prompt
	if prompt == "" && len(chunks) > 0 {
		prompt = chunks[len(chunks)-1]
		chunks = chunks[:len(chunks)-1]
	}
	for _, chunk := range chunks {
		b.sendMessage(chatID, chunk)
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = keyboard(reply.Menu)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send menu",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func keyboard(m *menu.Menu) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Options))
	for _, o := range m.Options {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(o.Value)))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// splitText cuts text into chunks of at most limit characters.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(chunks, string(runes))
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
