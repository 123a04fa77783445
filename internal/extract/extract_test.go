package extract

import (
	"testing"

	"diagbot/internal/domain"
)

func TestPasteLink_Found(t *testing.T) {
	raw, ok := PasteLink("check this log https://paste.ee/p/AbC123 please")
	if !ok {
		t.Fatal("expected a paste link")
	}
	if raw != "https://paste.ee/r/AbC123" {
		t.Errorf("expected raw rewrite, got %q", raw)
	}
}

func TestPasteLink_StopsAtPathSeparator(t *testing.T) {
	raw, ok := PasteLink("https://paste.ee/p/AbC123/extra")
	if !ok {
		t.Fatal("expected a paste link")
	}
	if raw != "https://paste.ee/r/AbC123" {
		t.Errorf("trailing path should not be part of the link, got %q", raw)
	}
}

func TestPasteLink_NotFound(t *testing.T) {
	for _, content := range []string{
		"",
		"no links here",
		"https://paste.ee/r/AbC123",   // already raw
		"http://paste.ee/p/AbC123",    // not https
		"https://pastebin.com/AbC123", // different service
	} {
		if _, ok := PasteLink(content); ok {
			t.Errorf("unexpected match in %q", content)
		}
	}
}

func TestIsUTF8Text(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/plain; charset=utf-8", true},
		{"text/plain; CHARSET=UTF-8", true},
		{"application/json; charset=utf-8", true},
		{"text/plain", false},
		{"application/octet-stream", false},
		{"image/png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsUTF8Text(tt.contentType); got != tt.want {
			t.Errorf("IsUTF8Text(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestDiagnosable_AbsentTypeIsInspected(t *testing.T) {
	if !Diagnosable(domain.Attachment{Filename: "latest.log"}) {
		t.Error("attachment without a declared type should be inspected")
	}
	if Diagnosable(domain.Attachment{ContentType: "image/png"}) {
		t.Error("explicitly non-text attachment should be skipped")
	}
	if !Diagnosable(domain.Attachment{ContentType: "text/plain; charset=utf-8"}) {
		t.Error("utf-8 text attachment should be inspected")
	}
}

func TestViewTargets_RequiresExplicitTextType(t *testing.T) {
	attachments := []domain.Attachment{
		{ID: "1", ContentType: "text/plain; charset=utf-8"},
		{ID: "2", ContentType: "image/png"},
		{ID: "3"}, // absent type: diagnosable, but not viewable
		{ID: "4", ContentType: "text/x-log; charset=utf-8"},
	}
	targets := ViewTargets(attachments)
	if len(targets) != 2 {
		t.Fatalf("expected 2 view targets, got %d", len(targets))
	}
	if targets[0].ID != "1" || targets[1].ID != "4" {
		t.Errorf("order not preserved: %v, %v", targets[0].ID, targets[1].ID)
	}
}
