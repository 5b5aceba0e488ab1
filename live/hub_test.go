package live

import (
	"testing"
	"time"
)

func TestHubRegisterPushUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "user1",
	}

	hub.register <- client

	payload := []byte(`{"type":"notification"}`)
	hub.PushToUser("user1", payload)

	select {
	case got := <-client.Send:
		if string(got) != string(payload) {
			t.Fatalf("expected %s, got %s", payload, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for push")
	}

	hub.unregister <- client
}

func TestHubPushToDisconnectedUserDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.PushToUser("nobody", []byte("x"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("push to absent user blocked")
	}
}

func TestHubMultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 1), UserID: "user2"}
	b := &Client{Send: make(chan []byte, 1), UserID: "user2"}
	hub.register <- a
	hub.register <- b

	hub.PushToUser("user2", []byte("hello"))

	for _, c := range []*Client{a, b} {
		select {
		case got := <-c.Send:
			if string(got) != "hello" {
				t.Fatalf("expected hello, got %s", got)
			}
		case <-time.After(1 * time.Second):
			t.Fatal("timeout waiting for fan-out")
		}
	}
}
