package platform

import (
	"strings"
	"testing"
)

func TestPlainTextStripsFormatting(t *testing.T) {
	t.Parallel()

	in := "# Hours\n\nWe are open **9 to 5** on weekdays.\n\n- Monday\n- Tuesday\n"
	got := PlainText(in)

	if strings.ContainsAny(got, "#*") {
		t.Fatalf("formatting survived: %q", got)
	}
	for _, want := range []string{"Hours", "We are open 9 to 5 on weekdays.", "Monday", "Tuesday"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestPlainTextKeepsLinkText(t *testing.T) {
	t.Parallel()

	got := PlainText("See [our docs](https://example.com/docs) for details.")
	if !strings.Contains(got, "our docs") {
		t.Fatalf("link text lost: %q", got)
	}
	if strings.Contains(got, "](") {
		t.Fatalf("markdown link syntax survived: %q", got)
	}
}

func TestPlainTextKeepsCodeBlocks(t *testing.T) {
	t.Parallel()

	got := PlainText("Run this:\n\n```\nkubectl get pods\n```\n")
	if !strings.Contains(got, "kubectl get pods") {
		t.Fatalf("code block content lost: %q", got)
	}
	if strings.Contains(got, "```") {
		t.Fatalf("code fence survived: %q", got)
	}
}

func TestPlainTextPlainInputUnchanged(t *testing.T) {
	t.Parallel()

	if got := PlainText("just a sentence"); got != "just a sentence" {
		t.Fatalf("got %q", got)
	}
}
