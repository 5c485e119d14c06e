package bot

import "travelbook/internal/models"

const (
	msgWelcome           = "Welcome to the travel booking service! Choose an option from the menu."
	msgChooseOption      = "Please choose an option from the menu."
	msgNoPersistence     = "⚠️ No persistence available. Bookings cannot be saved to the database right now."
	msgAuthPrompt        = "Login or register to start booking."
	msgLoginUsername     = "Username:"
	msgLoginPassword     = "Password:"
	msgRegisterUsername  = "Choose a username:"
	msgRegisterPassword  = "Choose a password:"
	msgRegisterConfirm   = "Confirm password:"
	msgLoggedIn          = "✅ Logged in successfully!"
	msgRegistered        = "✅ Registration successful!"
	msgAlreadyLoggedIn   = "You are logged in!"
	msgBookingLocked     = "🔒 Please log in to search and book."
	msgAdminLocked       = "🔒 Please log in to open the admin panel."
	msgChooseType        = "Select booking type:"
	msgFrom              = "From:"
	msgTravelDate        = "Travel Date (YYYY-MM-DD):"
	msgPassengers        = "Passengers:"
	msgFullName          = "Full Name:"
	msgEmail             = "Email:"
	msgPayment           = "Payment Status:"
	msgInvalidDate       = "⚠️ Invalid date. Use the format YYYY-MM-DD, for example 2025-01-31."
	msgInvalidType       = "⚠️ Please choose one of the booking types."
	msgInvalidPayment    = "⚠️ Please choose Pending or Completed."
	msgNoBookings        = "No bookings available."
	msgAdminTitle        = "📋 Admin Panel: all bookings"
	msgAvailableCities   = "Available Cities:"
	msgAvailableHotels   = "Available Hotels:"
	msgExportFailed      = "❌ Failed to export bookings."
	msgExportCaption     = "All bookings"
	msgRateLimited       = "⚠️ You are sending messages too often. Please wait a moment."
	msgSessionExpired    = "This action is no longer available. Please use the menu."
	msgBookingSummary    = "Booking summary"
	msgFixAndResubmit    = "Correct the highlighted field and press Book Now again."
	msgResubmitAfterFail = "Nothing was saved. Press Book Now to try again."
)

func arrivalPrompt(t models.BookingType) string {
	return t.ArrivalLabel() + ":"
}
