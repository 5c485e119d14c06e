package bot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"travelbook/internal/export"
	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func md(s string) string {
	return tgbotapi.EscapeText(models.ParseModeMarkdown, s)
}

// showAdminPage lists every stored booking, oldest first.
func (b *Bot) showAdminPage(ctx context.Context, chatID int64, messageID, page int) {
	bookings, err := b.bookingService.ListBookings(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list bookings")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(bookings) == 0 {
		b.sendMessage(chatID, msgNoBookings)
		return
	}

	params := PaginationParams{
		ChatID:     chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      md(msgAdminTitle) + fmt.Sprintf(" (%d)", len(bookings)),
		PagePrefix: cbAdminPage,
		ExtraRows: [][]tgbotapi.InlineKeyboardButton{{
			tgbotapi.NewInlineKeyboardButtonData("📥 Export to Excel", cbAdminExport),
		}},
	}

	b.renderPaginatedList(params, len(bookings), 0, func(startIdx, endIdx int) string {
		var content strings.Builder
		for _, bk := range bookings[startIdx:endIdx] {
			content.WriteString(formatAdminRow(bk))
		}
		return content.String()
	})
}

func formatAdminRow(bk *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*#%d %s*: %s → %s\n", bk.ID, md(string(bk.Type)), md(bk.Departure), md(bk.Arrival))
	fmt.Fprintf(&sb, "   📅 %s · 👥 %d\n", bk.TravelDate.Format(models.DateLayout), bk.Passengers)
	fmt.Fprintf(&sb, "   👤 %s, %s\n", md(bk.FullName), md(bk.Email))
	fmt.Fprintf(&sb, "   💳 %s\n\n", md(string(bk.PaymentStatus)))
	return sb.String()
}

// exportBookings sends the full listing as an XLSX file and keeps a copy in
// the exports directory.
func (b *Bot) exportBookings(ctx context.Context, chatID int64) {
	l := zerolog.Ctx(ctx)

	bookings, err := b.bookingService.ListBookings(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookingsXLSX(&buf, bookings); err != nil {
		l.Error().Err(err).Msg("Failed to build export")
		b.sendMessage(chatID, msgExportFailed)
		return
	}

	name := fmt.Sprintf("bookings_%s.xlsx", b.now().Format("20060102_150405"))
	if dir := b.config.Exports.Path; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
				l.Warn().Err(err).Str("dir", dir).Msg("Failed to keep export copy")
			}
		}
	}

	if _, err := b.tgService.SendDocument(chatID, name, buf.Bytes(), msgExportCaption); err != nil {
		l.Error().Err(err).Msg("Failed to send export")
		b.sendMessage(chatID, msgExportFailed)
		return
	}
	l.Info().Int("bookings", len(bookings)).Str("file", name).Msg("Bookings exported")
}
