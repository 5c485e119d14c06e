package bot

import "travelbook/internal/models"

// View is the single screen shown for a menu choice.
type View int

const (
	ViewAuth View = iota + 1
	ViewCatalog
	ViewBookingForm
	ViewLocked
	ViewAdmin
)

func (v View) String() string {
	switch v {
	case ViewAuth:
		return "auth"
	case ViewCatalog:
		return "catalog"
	case ViewBookingForm:
		return "booking_form"
	case ViewLocked:
		return "locked"
	case ViewAdmin:
		return "admin"
	}
	return "unknown"
}

type RouteOptions struct {
	// AdminRequiresAuth locks the admin panel for anonymous sessions.
	AdminRequiresAuth bool
}

// Route picks exactly one view for the menu choice and session. An unknown
// or empty menu choice falls back to Login/Register and a nil session is
// treated as anonymous.
func Route(menu models.MenuChoice, session *models.Session, opts RouteOptions) View {
	authenticated := session != nil && session.Authenticated

	switch menu {
	case models.MenuBooking:
		if authenticated {
			return ViewBookingForm
		}
		return ViewLocked
	case models.MenuAdmin:
		if opts.AdminRequiresAuth && !authenticated {
			return ViewLocked
		}
		return ViewAdmin
	default:
		if authenticated {
			return ViewCatalog
		}
		return ViewAuth
	}
}

// ParseMenuChoice matches the text of a main menu button.
func ParseMenuChoice(text string) (models.MenuChoice, bool) {
	for _, choice := range models.MenuChoices {
		if text == string(choice) || text == menuButtonText(choice) {
			return choice, true
		}
	}
	return "", false
}
