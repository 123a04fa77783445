package domain

import "context"

// Finding is one named diagnostic result produced by the rule engine for
// a given log text. Findings are opaque to the rest of the pipeline:
// ordering and deduplication are the engine's responsibility.
type Finding struct {
	Title string
	Body  string
}

// OutcomeKind tags the result of dispatching one message.
type OutcomeKind int

const (
	// NoAction means the message produced nothing to send.
	NoAction OutcomeKind = iota
	// Diagnosed means a log source yielded at least one finding.
	Diagnosed
	// AttachmentsOnly means no findings were produced but the message
	// carries attachments viewable through the rendering proxy.
	AttachmentsOnly
)

func (k OutcomeKind) String() string {
	switch k {
	case Diagnosed:
		return "diagnosed"
	case AttachmentsOnly:
		return "attachments_only"
	default:
		return "no_action"
	}
}

// Outcome is the dispatcher's decision for one message. Findings is
// non-empty exactly when Kind is Diagnosed.
type Outcome struct {
	Kind     OutcomeKind
	Findings []Finding
}

// RuleEngine maps raw log text to an ordered set of findings. An empty
// result means the text is unremarkable.
type RuleEngine interface {
	Analyze(text string) []Finding
}

// Fetcher retrieves the textual content behind a URL. Implementations are
// a pure I/O boundary with no decision logic.
type Fetcher interface {
	Text(ctx context.Context, url string) (string, error)
}
