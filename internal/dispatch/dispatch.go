// Package dispatch decides, per incoming message, whether it contains a
// candidate log source and what to do about it. It only decides; sending
// replies is the channel's job.
package dispatch

import (
	"context"
	"log/slog"

	"diagbot/internal/domain"
	"diagbot/internal/extract"
)

// Dispatcher orchestrates extraction, fetching and the rule engine for one
// message at a time. Safe for concurrent use across messages: it holds no
// per-message state.
type Dispatcher struct {
	fetcher  domain.Fetcher
	engine   domain.RuleEngine
	viewBase string // rendering-proxy base URL; empty disables attachment views
	logger   *slog.Logger
}

// Config wires a Dispatcher.
type Config struct {
	Fetcher  domain.Fetcher
	Engine   domain.RuleEngine
	ViewBase string
	Logger   *slog.Logger
}

func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		fetcher:  cfg.Fetcher,
		engine:   cfg.Engine,
		viewBase: cfg.ViewBase,
		logger:   logger,
	}
}

// Process evaluates the candidate branches in strict order and returns the
// first branch that produces an outcome:
//
//  1. bot-authored messages are never processed;
//  2. a recognized paste link is fetched and analyzed; a fetch failure
//     ends processing for the whole message (logged, no partial data);
//  3. attachments are analyzed in order, first non-empty finding set wins
//     and the remaining attachments are left untouched;
//  4. with no findings, a message with viewable attachments becomes an
//     attachment-view candidate when a proxy base URL is configured.
func (d *Dispatcher) Process(ctx context.Context, msg domain.Message) domain.Outcome {
	if msg.AuthorBot {
		return domain.Outcome{Kind: domain.NoAction}
	}

	if rawURL, ok := extract.PasteLink(msg.Content); ok {
		d.logger.Info("paste link found", "url", rawURL, "message_id", msg.ID)
		text, err := d.fetcher.Text(ctx, rawURL)
		if err != nil {
			d.logger.Warn("paste fetch failed", "url", rawURL, "err", err)
			return domain.Outcome{Kind: domain.NoAction}
		}
		if findings := d.engine.Analyze(text); len(findings) > 0 {
			return domain.Outcome{Kind: domain.Diagnosed, Findings: findings}
		}
		d.logger.Info("no findings in paste", "url", rawURL)
	}

	for _, a := range msg.Attachments {
		if !extract.Diagnosable(a) {
			continue
		}
		text, err := d.fetcher.Text(ctx, a.URL)
		if err != nil {
			d.logger.Warn("attachment fetch failed", "filename", a.Filename, "err", err)
			return domain.Outcome{Kind: domain.NoAction}
		}
		if findings := d.engine.Analyze(text); len(findings) > 0 {
			return domain.Outcome{Kind: domain.Diagnosed, Findings: findings}
		}
		d.logger.Info("no findings in attachment", "filename", a.Filename)
	}

	if d.viewBase != "" && len(extract.ViewTargets(msg.Attachments)) > 0 {
		return domain.Outcome{Kind: domain.AttachmentsOnly}
	}

	return domain.Outcome{Kind: domain.NoAction}
}
