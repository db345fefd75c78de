package templates

import "fmt"

// RenderBookingConfirmation generates the email sent to a client right after a
// consultation is booked.
func RenderBookingConfirmation(clientName, lawyerName, date, timeSlot string, durationMinutes int) string {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour consultation with %s is booked.\n\nDate: %s\nTime: %s\nDuration: %d minutes\n\nOnce your payment is confirmed, a chat session with your lawyer will open automatically.\n\nThe LexLink Team",
		clientName, lawyerName, date, timeSlot, durationMinutes)
	return RenderGenericEmail("Consultation Booked", body)
}

// RenderConsultationReminder generates the reminder email sent the day before
// a scheduled consultation.
func RenderConsultationReminder(clientName, lawyerName, date, timeSlot string) string {
	body := fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder that your consultation with %s is coming up.\n\nDate: %s\nTime: %s\n\nYou can join the chat from your dashboard once the session is active.\n\nThe LexLink Team",
		clientName, lawyerName, date, timeSlot)
	return RenderGenericEmail("Upcoming Consultation Reminder", body)
}

// RenderAdminPasswordReset generates the password reset email for admin accounts
func RenderAdminPasswordReset(resetLink string) string {
	body := fmt.Sprintf(
		"A password reset was requested for your LexLink admin account.\n\nReset your password using this link:\n%s\n\nThis link expires in one hour. If you did not request a reset, you can ignore this email.",
		resetLink)
	return RenderGenericEmail("Admin Password Reset", body)
}
