package usecase

import (
	"errors"
	"testing"

	"TradeMind/internal/domain/models"
)

func TestConnectivityStartsOnline(t *testing.T) {
	conn := NewConnectivity(nil)
	if !conn.Online() {
		t.Fatalf("connectivity must start online")
	}
}

func TestConnectivityOfflineOnlyOnTransportFailure(t *testing.T) {
	conn := NewConnectivity(nil)

	conn.Observe(models.BackendReported("invalid symbol"))
	if !conn.Online() {
		t.Fatalf("a backend-reported error must not flip to offline")
	}

	conn.Observe(models.NetworkUnreachable(errors.New("connection refused")))
	if conn.Online() {
		t.Fatalf("a transport failure must flip to offline")
	}

	// A domain error means the backend answered, so reachability recovers.
	conn.Observe(models.BackendReported("invalid symbol"))
	if !conn.Online() {
		t.Fatalf("a backend answer while offline must restore online")
	}

	conn.Observe(models.NetworkUnreachable(nil))
	conn.Observe(nil)
	if !conn.Online() {
		t.Fatalf("a successful fetch must restore online")
	}
}
