package share

import (
	"testing"
	"wowzie/models"
)

func TestEvaluateAccept(t *testing.T) {
	pending := models.CalendarShare{
		SenderID: "sender",
		Status:   models.ShareSent,
	}
	accepted := models.CalendarShare{
		SenderID:        "sender",
		Status:          models.ShareAccepted,
		RecipientUserID: "alice",
	}

	cases := []struct {
		name   string
		share  models.CalendarShare
		userID string
		want   acceptOutcome
	}{
		{"fresh accept", pending, "alice", acceptProceed},
		{"created state also accepts", models.CalendarShare{SenderID: "sender", Status: models.ShareCreated}, "alice", acceptProceed},
		{"email_failed still redeemable", models.CalendarShare{SenderID: "sender", Status: models.ShareEmailFailed}, "alice", acceptProceed},
		{"sender cannot accept own", pending, "sender", acceptOwnShare},
		{"same recipient twice is idempotent", accepted, "alice", acceptIdempotent},
		{"different recipient conflicts", accepted, "bob", acceptConflict},
	}
	for _, tc := range cases {
		if got := evaluateAccept(tc.share, tc.userID); got != tc.want {
			t.Errorf("%s: evaluateAccept = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateAcceptDoesNotMutate(t *testing.T) {
	sh := models.CalendarShare{
		SenderID:        "sender",
		Status:          models.ShareAccepted,
		RecipientUserID: "alice",
	}
	evaluateAccept(sh, "bob")
	if sh.RecipientUserID != "alice" || sh.Status != models.ShareAccepted {
		t.Error("evaluateAccept must not change the share")
	}
}
