package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"diagbot/internal/fetch"
)

func TestProbeOrigin_Reachable(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
	}))
	defer origin.Close()

	client := fetch.SharedHTTPClient(statusProbeTimeout)
	if err := probeOrigin(context.Background(), client, origin.URL); err != nil {
		t.Fatalf("origin should be reachable: %v", err)
	}
}

func TestProbeOrigin_AnyResponseCounts(t *testing.T) {
	// A CDN answering 403 to a bare HEAD is still up.
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer origin.Close()

	client := fetch.SharedHTTPClient(statusProbeTimeout)
	if err := probeOrigin(context.Background(), client, origin.URL); err != nil {
		t.Fatalf("a responding origin counts as reachable: %v", err)
	}
}

func TestProbeOrigin_Unreachable(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin.Close() // connection refused from here on

	client := fetch.SharedHTTPClient(statusProbeTimeout)
	if err := probeOrigin(context.Background(), client, origin.URL); err == nil {
		t.Fatal("expected an error for a closed origin")
	}
}
