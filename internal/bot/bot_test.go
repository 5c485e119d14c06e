package bot

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"travelbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countBookings(t *testing.T, m *testMocks) int {
	t.Helper()
	n, err := m.db.CountBookings(context.Background())
	require.NoError(t, err)
	return n
}

func csvLines(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestBotStart(t *testing.T) {
	b, mocks := setupTestBot(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Start(ctx)
		close(done)
	}()

	mocks.tg.updatesChan <- textUpdate("/start")

	require.Eventually(t, func() bool {
		return mocks.tg.sawText(msgWelcome)
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestStart_CreatesAnonymousSession(t *testing.T) {
	b, mocks := setupTestBot(t)
	login(b)
	require.True(t, mocks.session(t).Authenticated)

	b.feed(textUpdate("/start"))
	assert.False(t, mocks.session(t).Authenticated)
}

func TestLoginFlow(t *testing.T) {
	b, mocks := setupTestBot(t)

	b.feed(textUpdate("/start"), textUpdate(menuButtonText(models.MenuAuth)))
	assert.Equal(t, msgAuthPrompt, mocks.tg.lastText())

	b.feed(callbackUpdate(cbAuthLogin), textUpdate("user"))
	assert.Equal(t, msgLoginPassword, mocks.tg.lastText())

	b.feed(textUpdate("password"))
	sess := mocks.session(t)
	assert.True(t, sess.Authenticated)
	assert.Empty(t, sess.PendingUser)
	assert.True(t, mocks.tg.sawText(msgLoggedIn))
	assert.Equal(t, 1, mocks.tg.deleted)

	catalog := mocks.tg.lastText()
	assert.Contains(t, catalog, msgAlreadyLoggedIn)
	assert.Contains(t, catalog, "Hyderabad")
	assert.Contains(t, catalog, "Taj Hotel (Hyderabad)")
	assert.Contains(t, catalog, "The Imperial (Delhi)")
}

func TestLoginFlow_WrongPassword(t *testing.T) {
	b, mocks := setupTestBot(t)

	b.feed(
		textUpdate(string(models.MenuAuth)),
		callbackUpdate(cbAuthLogin),
		textUpdate("user"),
		textUpdate("letmein"),
	)

	sess := mocks.session(t)
	assert.False(t, sess.Authenticated)
	assert.Equal(t, models.StepLoginUsername, sess.Step)
	assert.True(t, mocks.tg.sawText("Invalid username or password"))
}

func TestRegisterFlow(t *testing.T) {
	b, mocks := setupTestBot(t)

	b.feed(
		textUpdate(string(models.MenuAuth)),
		callbackUpdate(cbAuthRegister),
		textUpdate("newbie"),
		textUpdate("secret"),
		textUpdate("different"),
	)
	assert.True(t, mocks.tg.sawText("Passwords do not match"))
	assert.False(t, mocks.session(t).Authenticated)
	assert.Equal(t, models.StepRegisterPass, mocks.session(t).Step)

	b.feed(textUpdate("secret"), textUpdate("secret"))
	sess := mocks.session(t)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "newbie", sess.Username)
	assert.True(t, mocks.tg.sawText(msgRegistered))
}

func TestSearchAndBook_LockedWhenAnonymous(t *testing.T) {
	b, mocks := setupTestBot(t)

	b.feed(textUpdate(string(models.MenuBooking)))
	assert.Equal(t, msgBookingLocked, mocks.tg.lastText())

	// stale form buttons are rejected too
	b.feed(callbackUpdate(cbType + "Train"))
	assert.Equal(t, msgBookingLocked, mocks.tg.lastText())
	assert.Empty(t, mocks.session(t).Draft.Type)
}

func fillTrainBooking(b *Bot) {
	b.feed(
		textUpdate(string(models.MenuBooking)),
		callbackUpdate(cbType+"Train"),
		callbackUpdate(cbCity+"Hyderabad"),
		textUpdate("Chennai"),
		textUpdate("2025-01-02"),
		callbackUpdate(cbPassengers+"3"),
		textUpdate("Asha Rao"),
		textUpdate("asha@example.com"),
		callbackUpdate(cbPayment+"Completed"),
	)
}

func TestBookingFlow(t *testing.T) {
	b, mocks := setupTestBot(t)
	login(b)

	fillTrainBooking(b)
	sess := mocks.session(t)
	require.Equal(t, models.StepSummary, sess.Step)
	assert.Contains(t, mocks.tg.lastText(), "From: Hyderabad")
	assert.Contains(t, mocks.tg.lastText(), "To: Chennai")

	b.feed(callbackUpdate(cbBook))
	assert.Contains(t, mocks.tg.lastText(), "Your Train booking from Hyderabad to Chennai is confirmed!")
	assert.Equal(t, 1, countBookings(t, mocks))

	rows := csvLines(t, mocks.csvPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Train", "Hyderabad", "Chennai", "2025-01-02", "3", "Asha Rao", "asha@example.com", "Completed"}, rows[1])

	sess = mocks.session(t)
	assert.Equal(t, models.StepNone, sess.Step)
	assert.Empty(t, sess.Draft.Type)
}

func TestBookingFlow_HotelSkipsArrival(t *testing.T) {
	b, mocks := setupTestBot(t)
	login(b)

	b.feed(
		textUpdate(string(models.MenuBooking)),
		callbackUpdate(cbType+"Hotel"),
	)
	b.feed(textUpdate("Mumbai"))
	assert.Equal(t, "Location:", mocks.tg.lastText())

	b.feed(
		callbackUpdate(cbSkipArrival),
		callbackUpdate(cbDateToday),
		callbackUpdate(cbPassengers+"1"),
		textUpdate("Ravi"),
		textUpdate("ravi@example.in"),
		callbackUpdate(cbPayment+"Pending"),
		callbackUpdate(cbBook),
	)

	assert.True(t, mocks.tg.sawText("Your Hotel booking from Mumbai to  is confirmed!"))
	all, err := mocks.db.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Arrival)
	assert.Equal(t, "2025-06-01", all[0].TravelDate.Format(models.DateLayout))
}

func TestBookingFlow_InvalidEmailKeepsDraft(t *testing.T) {
	b, mocks := setupTestBot(t)
	login(b)

	b.feed(
		textUpdate(string(models.MenuBooking)),
		callbackUpdate(cbType+"Bus"),
		textUpdate("Vizag"),
		textUpdate("Delhi"),
		textUpdate("2025-02-03"),
		textUpdate("2"),
		textUpdate("Kiran"),
		textUpdate("kiran-at-example"),
		callbackUpdate(cbPayment+"Pending"),
		callbackUpdate(cbBook),
	)

	assert.True(t, mocks.tg.sawText("Invalid email address"))
	assert.Equal(t, 0, countBookings(t, mocks))
	_, err := os.Stat(mocks.csvPath)
	assert.True(t, os.IsNotExist(err))

	sess := mocks.session(t)
	assert.Equal(t, "Vizag", sess.Draft.Departure)

	// correct only the email from the summary
	b.feed(callbackUpdate(cbEdit+models.StepEmail), textUpdate("kiran@example.com"))
	assert.Equal(t, models.StepSummary, mocks.session(t).Step)
	b.feed(callbackUpdate(cbBook))

	assert.Equal(t, 1, countBookings(t, mocks))
	assert.Contains(t, mocks.tg.lastText(), "Your Bus booking from Vizag to Delhi is confirmed!")
}

func TestBookingFlow_InputValidation(t *testing.T) {
	b, mocks := setupTestBot(t)
	login(b)

	b.feed(textUpdate(string(models.MenuBooking)), textUpdate("Ship"))
	assert.Equal(t, msgInvalidType, mocks.tg.lastText())

	b.feed(textUpdate("flight"), textUpdate("Delhi"), textUpdate("Mumbai"), textUpdate("31/01/2025"))
	assert.Equal(t, msgInvalidDate, mocks.tg.lastText())

	b.feed(textUpdate("2025-01-31"), textUpdate("11"))
	assert.Contains(t, mocks.tg.lastText(), "between 1 and 10")

	sess := mocks.session(t)
	assert.Equal(t, models.BookingFlight, sess.Draft.Type)
	assert.Equal(t, models.StepPassengers, sess.Step)
}

func TestBookingForm_ResumesDraft(t *testing.T) {
	b, mocks := setupTestBot(t)
	login(b)

	b.feed(textUpdate(string(models.MenuBooking)), callbackUpdate(cbType+"Train"), textUpdate("Chennai"))
	b.feed(textUpdate(string(models.MenuAdmin)), textUpdate(string(models.MenuBooking)))

	assert.Contains(t, mocks.tg.lastText(), msgBookingSummary)
	assert.Equal(t, "Chennai", mocks.session(t).Draft.Departure)
}

func TestAdminPanel(t *testing.T) {
	b, mocks := setupTestBot(t)

	b.feed(textUpdate(string(models.MenuAdmin)))
	assert.Equal(t, msgNoBookings, mocks.tg.lastText())

	login(b)
	for i := 0; i < 3; i++ {
		fillTrainBooking(b)
		b.feed(callbackUpdate(cbBook))
	}
	require.Equal(t, 3, countBookings(t, mocks))

	mocks.tg.reset()
	b.feed(textUpdate(string(models.MenuAdmin)))
	page := mocks.tg.lastText()
	assert.Contains(t, page, "Page 1 of 2")
	assert.Contains(t, page, "#1")
	assert.NotContains(t, page, "#3")

	b.feed(callbackUpdate(cbAdminPage + "1"))
	assert.Contains(t, mocks.tg.lastText(), "#3")

	b.feed(callbackUpdate(cbAdminExport))
	require.Len(t, mocks.tg.documents, 1)
	assert.Contains(t, mocks.tg.documents[0].name, ".xlsx")
	assert.NotEmpty(t, mocks.tg.documents[0].data)

	entries, err := os.ReadDir(b.config.Exports.Path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdminPanel_OpenToAnonymousByDefault(t *testing.T) {
	b, mocks := setupTestBot(t)

	b.feed(textUpdate("/start"), textUpdate(string(models.MenuAdmin)))
	assert.Equal(t, msgNoBookings, mocks.tg.lastText())
}

func TestAdminPanel_RequiresAuthWhenConfigured(t *testing.T) {
	b, mocks := setupTestBot(t, withAdminAuth())

	b.feed(textUpdate(string(models.MenuAdmin)))
	assert.Equal(t, msgAdminLocked, mocks.tg.lastText())

	b.feed(callbackUpdate(cbAdminExport))
	assert.Empty(t, mocks.tg.documents)

	login(b)
	b.feed(textUpdate(string(models.MenuAdmin)))
	assert.Equal(t, msgNoBookings, mocks.tg.lastText())
}

func TestDegradedMode_NoDatabase(t *testing.T) {
	b, mocks := setupTestBot(t, withoutDB())

	b.feed(textUpdate("/start"))
	assert.True(t, mocks.tg.sawText(msgNoPersistence))

	login(b)
	fillTrainBooking(b)
	b.feed(callbackUpdate(cbBook))

	assert.True(t, mocks.tg.sawText("no persistence available"))
	assert.Contains(t, mocks.tg.lastText(), "is confirmed!")
	assert.Len(t, csvLines(t, mocks.csvPath), 2)

	b.feed(textUpdate(string(models.MenuAdmin)))
	assert.Equal(t, msgNoPersistence, mocks.tg.lastText())
}

func TestRateLimit(t *testing.T) {
	b, mocks := setupTestBot(t)
	b.config.Bot.RateLimitMessages = 1

	b.feed(textUpdate("/start"), textUpdate("/start"))
	assert.Equal(t, msgRateLimited, mocks.tg.lastText())
}

func TestProcessUpdate_IgnoresEmptyUpdates(t *testing.T) {
	b, mocks := setupTestBot(t)
	b.feed(tgbotapi.Update{})
	assert.Empty(t, mocks.tg.allTexts())
}

func TestWithRecovery(t *testing.T) {
	b, _ := setupTestBot(t)
	assert.NotPanics(t, func() {
		b.withRecovery(func() { panic("boom") })
	})
}

func TestUnknownTextShowsMenu(t *testing.T) {
	b, mocks := setupTestBot(t)
	b.feed(textUpdate("hello"))
	assert.Equal(t, msgChooseOption, mocks.tg.lastText())
}
