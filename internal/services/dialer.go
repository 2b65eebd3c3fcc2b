package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// DialRequest carries everything the telephony collaborator needs to place
// an outbound call
type DialRequest struct {
	PhoneNumber string `json:"phone_number"`
	ContactName string `json:"contact_name"`
	CompanyName string `json:"company_name"`
	LeadID      string `json:"lead_id"`
}

// DialResult reports the collaborator's outcome
type DialResult struct {
	Success bool   `json:"success"`
	CallSID string `json:"call_sid"`
}

// Dialer is the telephony boundary. Implementations place the call and
// report success; hang-up and in-call state are the collaborator's concern.
type Dialer interface {
	Place(ctx context.Context, req DialRequest) (*DialResult, error)
}

// TwilioDialer places calls through the Twilio Voice API
type TwilioDialer struct {
	client         *twilio.RestClient
	from           string
	voiceURL       string // TwiML endpoint controlling the connected call
	statusCallback string
}

// NewTwilioDialer creates a dialer from TWILIO_* environment variables
func NewTwilioDialer() (*TwilioDialer, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_VOICE_FROM") // E.164, e.g. "+14155550100"

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioDialer{
		client:         client,
		from:           from,
		voiceURL:       os.Getenv("TWILIO_VOICE_URL"),
		statusCallback: os.Getenv("TWILIO_STATUS_CALLBACK_URL"),
	}, nil
}

// Place initiates the outbound call. The Twilio client has no context
// support; callers impose their own timeout around this boundary.
func (d *TwilioDialer) Place(ctx context.Context, req DialRequest) (*DialResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(req.PhoneNumber)
	params.SetFrom(d.from)

	if d.voiceURL != "" {
		params.SetUrl(d.voiceURL)
	} else {
		// No bridge endpoint configured - announce and hold
		params.SetTwiml(fmt.Sprintf(
			"<Response><Say>Connecting you to %s at %s.</Say><Pause length=\"60\"/></Response>",
			req.ContactName, req.CompanyName))
	}

	if d.statusCallback != "" {
		params.SetStatusCallback(d.statusCallback)
		params.SetStatusCallbackEvent([]string{"completed", "no-answer", "busy", "failed"})
	}

	resp, err := d.client.Api.CreateCall(params)
	if err != nil {
		log.Printf("❌ Failed to place call to %s: %v", req.PhoneNumber, err)
		return nil, err
	}

	result := &DialResult{Success: true}
	if resp.Sid != nil {
		result.CallSID = *resp.Sid
	}
	if resp.Status != nil && (*resp.Status == "failed" || *resp.Status == "canceled") {
		result.Success = false
	}

	log.Printf("✅ Call placed to %s (%s), SID: %s", req.ContactName, req.PhoneNumber, result.CallSID)
	return result, nil
}
