package proxy

import (
	"bytes"
	"net/http"
)

// errorKind is the proxy's failure taxonomy. Every request ends in a
// well-formed HTTP response; the kind picks the status and page detail.
type errorKind int

const (
	errOriginFailure errorKind = iota
	errNotFound
	errTemplating
)

type pageError struct {
	kind   errorKind
	detail string
}

func originFailure(detail string) pageError {
	return pageError{kind: errOriginFailure, detail: detail}
}

func notFound() pageError {
	return pageError{kind: errNotFound, detail: "404 paste not found"}
}

func templatingFailure(detail string) pageError {
	return pageError{kind: errTemplating, detail: detail}
}

func (e pageError) status() int {
	if e.kind == errNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// errorData is the input contract of the error template.
type errorData struct {
	Status int
	Detail string
}

// renderError writes the typed error page, falling back to a static body
// if the error template itself cannot render.
func (s *Server) renderError(w http.ResponseWriter, e pageError) {
	status := e.status()
	s.logger.Warn("request failed", "status", status, "detail", e.detail)

	var buf bytes.Buffer
	body := fallbackPage
	if err := s.tmpl.ExecuteTemplate(&buf, "error.html", errorData{Status: status, Detail: e.detail}); err == nil {
		body = buf.String()
	} else {
		s.logger.Error("error template failed", "err", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
