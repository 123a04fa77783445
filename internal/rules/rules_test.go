package rules

import "testing"

func TestNewEngine_CompilesEmbeddedRuleset(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	if e.Len() == 0 {
		t.Fatal("embedded ruleset should not be empty")
	}
}

func TestAnalyze_KnownSignature(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	log := `Caused by: org.lwjgl.LWJGLException: Pixel format not accelerated
	at org.lwjgl.opengl.WindowsPeerInfo.nChoosePixelFormat(Native Method)`

	findings := e.Analyze(log)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Title != "Outdated video drivers" {
		t.Errorf("unexpected title %q", findings[0].Title)
	}
	if findings[0].Body == "" {
		t.Error("finding body should carry advice")
	}
}

func TestAnalyze_CleanLog_NoFindings(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	if findings := e.Analyze("[12:00:00] [main/INFO]: Loaded 7 recipes"); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestAnalyze_MultipleMatches_RulesetOrder(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	// Two signatures, intentionally in the opposite order of the ruleset.
	log := `java.lang.OutOfMemoryError: Java heap space
java.lang.UnsupportedClassVersionError: net/example/Mod`

	findings := e.Analyze(log)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Title != "Wrong Java version" || findings[1].Title != "Out of memory" {
		t.Errorf("findings must follow ruleset order, got %q then %q", findings[0].Title, findings[1].Title)
	}
}

func TestAnalyze_RepeatedSignature_SingleFinding(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	log := `java.lang.OutOfMemoryError: Java heap space
java.lang.OutOfMemoryError: GC overhead limit exceeded`

	if findings := e.Analyze(log); len(findings) != 1 {
		t.Errorf("expected a single deduplicated finding, got %d", len(findings))
	}
}
