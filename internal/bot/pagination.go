package bot

import (
	"fmt"
	"strings"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type PaginationParams struct {
	ChatID     int64
	MessageID  int // 0 if new message
	Page       int
	Title      string
	PagePrefix string
	// ExtraRows are appended below the navigation buttons.
	ExtraRows [][]tgbotapi.InlineKeyboardButton
}

// pageBounds clamps page into range and returns the slice bounds for it.
func pageBounds(page, totalCount, perPage int) (clamped, startIdx, endIdx, totalPages int) {
	totalPages = (totalCount + perPage - 1) / perPage
	if page >= totalPages && totalPages > 0 {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}
	startIdx = page * perPage
	endIdx = startIdx + perPage
	if endIdx > totalCount {
		endIdx = totalCount
	}
	return page, startIdx, endIdx, totalPages
}

// renderPaginatedList draws one page of a list, editing the message in place
// when params.MessageID is set.
func (b *Bot) renderPaginatedList(params PaginationParams, totalCount int, itemsPerPage int, renderer func(startIdx, endIdx int) string) {
	if itemsPerPage <= 0 {
		itemsPerPage = b.config.Bot.PaginationSize
	}
	if itemsPerPage <= 0 {
		itemsPerPage = models.DefaultPaginationSize
	}

	page, startIdx, endIdx, totalPages := pageBounds(params.Page, totalCount, itemsPerPage)

	var message strings.Builder
	message.WriteString(fmt.Sprintf("%s\n\n", params.Title))
	if totalPages > 1 {
		message.WriteString(fmt.Sprintf("Page %d of %d\n\n", page+1, totalPages))
	}
	message.WriteString(renderer(startIdx, endIdx))

	var keyboard [][]tgbotapi.InlineKeyboardButton
	var navButtons []tgbotapi.InlineKeyboardButton
	if page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", fmt.Sprintf("%s%d", params.PagePrefix, page-1)))
	}
	if endIdx < totalCount {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("%s%d", params.PagePrefix, page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}
	keyboard = append(keyboard, params.ExtraRows...)

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	if params.MessageID != 0 {
		if _, err := b.tgService.EditMessage(params.ChatID, params.MessageID, message.String(), &markup); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to edit page")
		}
		return
	}

	msg := tgbotapi.NewMessage(params.ChatID, message.String())
	msg.ReplyMarkup = markup
	msg.ParseMode = models.ParseModeMarkdown
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send page")
	}
}
