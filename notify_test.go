package main

import (
	"testing"

	"go.uber.org/zap"
)

func TestBroadcastOnNilNotifier(t *testing.T) {
	var n *Notifier
	if err := n.Broadcast(EventScreeningComplete, nil); err != nil {
		t.Fatalf("nil notifier must drop the event without error, got %v", err)
	}
}

func TestBroadcastWithoutConnection(t *testing.T) {
	n := &Notifier{log: zap.NewNop()}
	if err := n.Broadcast(EventScreeningComplete, nil); err != nil {
		t.Fatalf("uninitialized notifier must drop the event without error, got %v", err)
	}
}
