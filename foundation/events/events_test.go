package events_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1, err := evts.Acquire("one")
	if err != nil {
		t.Fatalf("Should be able to acquire a channel: %s", err)
	}
	ch2, err := evts.Acquire("two")
	if err != nil {
		t.Fatalf("Should be able to acquire a channel: %s", err)
	}

	if evts.Subscribers() != 2 {
		t.Fatalf("Should have two subscribers: got %d", evts.Subscribers())
	}

	evts.Send("ledger: NewBlock: blk[2]")

	for _, ch := range []<-chan string{ch1, ch2} {
		if msg := <-ch; msg != "ledger: NewBlock: blk[2]" {
			t.Fatalf("Should receive the message: got %q", msg)
		}
	}

	if err := evts.Release("one"); err != nil {
		t.Fatalf("Should be able to release a channel: %s", err)
	}
	if _, open := <-ch1; open {
		t.Fatal("Should close a released channel.")
	}
	if err := evts.Release("one"); err == nil {
		t.Fatal("Should not release a channel twice.")
	}

	evts.Shutdown()
	if _, open := <-ch2; open {
		t.Fatal("Should close every channel on shutdown.")
	}
	if _, err := evts.Acquire("three"); !errors.Is(err, events.ErrShutdown) {
		t.Fatalf("Should refuse new subscribers after shutdown: got %v", err)
	}
}

func Test_SendDoesNotBlock(t *testing.T) {
	evts := events.New()
	defer evts.Shutdown()

	if _, err := evts.Acquire("slow"); err != nil {
		t.Fatalf("Should be able to acquire a channel: %s", err)
	}

	for range 1000 {
		evts.Send("event")
	}
}
