package bot

import (
	"context"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) startLogin(chatID int64, session *models.Session) {
	session.ClearPending()
	session.Step = models.StepLoginUsername
	b.sendMessage(chatID, msgLoginUsername)
}

func (b *Bot) startRegister(chatID int64, session *models.Session) {
	session.ClearPending()
	session.Step = models.StepRegisterUser
	b.sendMessage(chatID, msgRegisterUsername)
}

// handleAuthInput collects the login or registration fields one message at
// a time. Password messages are deleted from the chat once read.
func (b *Bot) handleAuthInput(ctx context.Context, message *tgbotapi.Message, session *models.Session, text string) *models.Session {
	chatID := message.Chat.ID

	if session.Authenticated {
		session.Step = models.StepNone
		session.ClearPending()
		b.render(ctx, chatID, session)
		return session
	}

	switch session.Step {
	case models.StepLoginUsername:
		session.PendingUser = text
		session.Step = models.StepLoginPassword
		b.sendMessage(chatID, msgLoginPassword)

	case models.StepLoginPassword:
		b.deleteMessage(ctx, message)
		if err := b.gate.Login(session, session.PendingUser, text); err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			b.startLogin(chatID, session)
			return session
		}
		session.Step = models.StepNone
		b.sendMessage(chatID, msgLoggedIn)
		b.render(ctx, chatID, session)

	case models.StepRegisterUser:
		session.PendingUser = text
		session.Step = models.StepRegisterPass
		b.sendMessage(chatID, msgRegisterPassword)

	case models.StepRegisterPass:
		b.deleteMessage(ctx, message)
		session.PendingPassword = text
		session.Step = models.StepRegisterConfirm
		b.sendMessage(chatID, msgRegisterConfirm)

	case models.StepRegisterConfirm:
		b.deleteMessage(ctx, message)
		if err := b.gate.Register(session, session.PendingUser, session.PendingPassword, text); err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			session.PendingPassword = ""
			session.Step = models.StepRegisterPass
			b.sendMessage(chatID, msgRegisterPassword)
			return session
		}
		session.Step = models.StepNone
		b.sendMessage(chatID, msgRegistered)
		b.render(ctx, chatID, session)
	}

	return session
}

func (b *Bot) deleteMessage(ctx context.Context, message *tgbotapi.Message) {
	if _, err := b.tgService.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Could not delete credential message")
	}
}
