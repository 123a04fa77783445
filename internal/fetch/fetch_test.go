package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestText_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "diagbot/test" {
			t.Errorf("expected identifying user agent, got %q", ua)
		}
		w.Write([]byte("log contents"))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "diagbot/test")
	text, err := c.Text(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if text != "log contents" {
		t.Errorf("got %q", text)
	}
}

func TestText_NonSuccessStatus_IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "")
	if _, err := c.Text(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestText_Unreachable_IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(nil, "")
	if _, err := c.Text(context.Background(), url); err == nil {
		t.Fatal("expected an error for an unreachable host")
	}
}

func TestText_CancelledContext_IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("too late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.Client(), "")
	if _, err := c.Text(ctx, srv.URL); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
