package convo

import (
	"errors"
	"strings"
	"testing"
	"time"
	"wowzie/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildMessagePairMirrors(t *testing.T) {
	now := time.Now()
	mine, theirs := buildMessagePair("convo-a", "convo-b", "hello", "", now)

	if mine.ConvoID != "convo-a" || theirs.ConvoID != "convo-b" {
		t.Errorf("convo ids not routed: %q / %q", mine.ConvoID, theirs.ConvoID)
	}
	if mine.Sender != models.MessageFromUser {
		t.Errorf("sender copy should be %q, got %q", models.MessageFromUser, mine.Sender)
	}
	if theirs.Sender != models.MessageFromThem {
		t.Errorf("recipient copy should be %q, got %q", models.MessageFromThem, theirs.Sender)
	}
	if !mine.CreatedAt.Equal(theirs.CreatedAt) {
		t.Error("both copies must share created_at")
	}
	if mine.PairID == "" || mine.PairID != theirs.PairID {
		t.Errorf("both copies must share a pair id: %q / %q", mine.PairID, theirs.PairID)
	}
	if mine.MessageID == theirs.MessageID {
		t.Error("each copy needs its own message id")
	}
	if mine.Body != "hello" || theirs.Body != "hello" {
		t.Error("body must be identical on both sides")
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := preview(long); len(got) != previewLen {
		t.Errorf("preview length = %d, want %d", len(got), previewLen)
	}
	if got := preview("short"); got != "short" {
		t.Errorf("preview(short) = %q", got)
	}
}

func TestBlastFanOutContinuesPastFailures(t *testing.T) {
	failing := map[string]bool{"bob": true}
	var attempted []string

	summary := blastFanOut([]string{"alice", "bob", "carol"}, func(to string) error {
		attempted = append(attempted, to)
		if failing[to] {
			return errors.New("insert failed")
		}
		return nil
	})

	if len(attempted) != 3 {
		t.Fatalf("expected all 3 recipients attempted, got %d", len(attempted))
	}
	if summary.Sent != 2 || summary.Failed != 1 {
		t.Errorf("summary = sent:%d failed:%d, want sent:2 failed:1", summary.Sent, summary.Failed)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].UserID != "bob" {
		t.Errorf("failures = %+v, want one entry for bob", summary.Failures)
	}
}

func TestBlastFanOutEmpty(t *testing.T) {
	summary := blastFanOut(nil, func(string) error { return nil })
	if summary.Sent != 0 || summary.Failed != 0 || summary.Failures == nil {
		t.Errorf("empty fan-out should report zeros with non-nil failures, got %+v", summary)
	}
}

func TestDedupeRecipients(t *testing.T) {
	got := dedupeRecipients([]string{"a", "host", "b", "a", "", "c", "b"}, "host")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupe = %v, want %v", got, want)
		}
	}
}

func TestBlastBookingFilterDefaultsExcludeClosed(t *testing.T) {
	filter := blastBookingFilter("camp1", "")
	if filter["campid"] != "camp1" {
		t.Error("filter must scope to the camp")
	}
	if _, ok := filter["childid"]; !ok {
		t.Error("default filter must require a registered child")
	}

	status, ok := filter["status"].(bson.M)
	if !ok {
		t.Fatalf("default status filter should be a $nin clause, got %T", filter["status"])
	}
	excluded, ok := status["$nin"].([]string)
	if !ok {
		t.Fatalf("expected $nin list, got %v", status)
	}
	for _, want := range []string{models.BookingDeclined, models.BookingCancelled} {
		found := false
		for _, s := range excluded {
			if s == want {
				found = true
			}
		}
		if !found {
			t.Errorf("default filter must exclude %q", want)
		}
	}
}

func TestBlastBookingFilterExplicitStatus(t *testing.T) {
	filter := blastBookingFilter("camp1", models.BookingConfirmed)
	if filter["status"] != models.BookingConfirmed {
		t.Errorf("explicit status filter not applied: %v", filter["status"])
	}
}
