package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
	"wowzie/models"
)

const resendEndpoint = "https://api.resend.com/emails"

var mailClient = &http.Client{Timeout: 10 * time.Second}

// sendShareEmail delivers the invite link through the Resend API.
func sendShareEmail(ctx context.Context, sh models.CalendarShare) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not set")
	}

	html := fmt.Sprintf(
		"<p>You have been invited to view a Wowzie calendar.</p><p>%s</p><p><a href=%q>Open calendar</a></p>",
		sh.Message, sh.ShareURL,
	)

	body, err := json.Marshal(map[string]any{
		"from":    "Wowzie <invites@wowzie.app>",
		"to":      []string{sh.RecipientEmail},
		"subject": "A calendar was shared with you",
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := mailClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend returned %d", resp.StatusCode)
	}
	return nil
}
