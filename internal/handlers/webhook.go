package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// HandleCallStatus receives Twilio voice status callbacks. The dialer's
// in-call lifecycle is the collaborator's concern; we only record terminal
// statuses for operator visibility.
func HandleCallStatus(c *fiber.Ctx) error {
	callSID := c.FormValue("CallSid")
	status := c.FormValue("CallStatus")
	duration := c.FormValue("CallDuration")
	to := c.FormValue("To")

	if callSID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing CallSid",
		})
	}

	switch status {
	case "completed":
		log.Printf("📞 Call %s to %s completed (%ss)", callSID, to, duration)
	case "no-answer", "busy", "failed", "canceled":
		log.Printf("📞 Call %s to %s ended without connecting: %s", callSID, to, status)
	default:
		log.Printf("📞 Call %s status: %s", callSID, status)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
