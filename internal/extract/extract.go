// Package extract locates candidate log sources in a message: recognized
// paste-service links in the text, and attachments whose declared content
// type makes them usable as log text.
package extract

import (
	"regexp"
	"strings"

	"diagbot/internal/domain"
)

// pasteePattern matches a paste.ee paste link. The path segment after /p/
// is the paste id; trailing path components are not part of the link.
var pasteePattern = regexp.MustCompile(`https://paste\.ee/p/[^\s/]+`)

// PasteLink scans content for the first recognized paste link and rewrites
// it to its raw-content endpoint (/p/ -> /r/). The second return value
// reports whether a link was found.
func PasteLink(content string) (string, bool) {
	link := pasteePattern.FindString(content)
	if link == "" {
		return "", false
	}
	return strings.Replace(link, "/p/", "/r/", 1), true
}

// IsUTF8Text reports whether a declared content type indicates UTF-8 text.
// The check is a case-insensitive substring match on the charset parameter;
// an empty type does not indicate text.
func IsUTF8Text(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "charset=utf-8")
}

// Diagnosable reports whether an attachment should be inspected by the
// rule engine. An attachment is skipped only when it explicitly declares a
// content type that does not indicate UTF-8 text; an absent declaration is
// inspected.
func Diagnosable(a domain.Attachment) bool {
	return a.ContentType == "" || IsUTF8Text(a.ContentType)
}

// ViewTargets returns the attachments eligible as rendering-proxy view
// targets, in their original order. Unlike Diagnosable, a view target must
// explicitly declare a UTF-8 text content type.
func ViewTargets(attachments []domain.Attachment) []domain.Attachment {
	var targets []domain.Attachment
	for _, a := range attachments {
		if IsUTF8Text(a.ContentType) {
			targets = append(targets, a)
		}
	}
	return targets
}
