package summarize

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildPrompt(t *testing.T) {
	transcript := "Dana: We need the runbook by Friday.\nPriya Sharma: Agreed."
	prompt := BuildPrompt(transcript)

	if !strings.Contains(prompt, transcript) {
		t.Error("prompt does not embed the transcript")
	}
	if !strings.Contains(prompt, "Dana, Priya Sharma") {
		t.Errorf("prompt missing participant hint: %q", prompt[:200])
	}
	for _, section := range []string{"SUMMARY", "KEY TAKEAWAYS", "DECISIONS MADE", "ACTION ITEMS", "PARTICIPANTS"} {
		if !strings.Contains(prompt, section) {
			t.Errorf("prompt missing %s instructions", section)
		}
	}
}

func TestBuildPromptNoNames(t *testing.T) {
	prompt := BuildPrompt("so we talked about the thing and agreed to move on")
	if !strings.Contains(prompt, "Unknown participants") {
		t.Error("prompt should fall back to unknown participants")
	}
}

func TestExtractParticipantNames(t *testing.T) {
	transcript := "Dana: hello\nPriya Sharma: hi\nDana: again\nnot a name: x\n"
	got := ExtractParticipantNames(transcript)
	want := []string{"Dana", "Priya Sharma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestTruncateTranscript(t *testing.T) {
	short := "a short transcript"
	if got, truncated := TruncateTranscript(short, 100); truncated || got != short {
		t.Errorf("short transcript altered: %q truncated=%v", got, truncated)
	}

	long := strings.Repeat("x", 5000) + strings.Repeat("y", 5000)
	got, truncated := TruncateTranscript(long, 1000)
	if !truncated {
		t.Fatal("long transcript not truncated")
	}
	if EstimateTokens(got) > 1000 {
		t.Errorf("truncated transcript still over budget: %d tokens", EstimateTokens(got))
	}
	if strings.Count(got, strings.TrimSpace(truncationMarker)) != 1 {
		t.Errorf("expected exactly one truncation marker in %q", got)
	}
	if !strings.HasPrefix(got, "x") || !strings.HasSuffix(got, "y") {
		t.Error("truncation did not keep head and tail")
	}

	again, _ := TruncateTranscript(long, 1000)
	if got != again {
		t.Error("truncation is not deterministic")
	}
}

func TestTruncateTranscriptKeepsRunesIntact(t *testing.T) {
	// Multi-byte runes on both sides of the cut points.
	long := strings.Repeat("日本語の議事録", 500) + strings.Repeat("café discussion ", 500)
	got, truncated := TruncateTranscript(long, 1000)
	if !truncated {
		t.Fatal("long transcript not truncated")
	}
	if !utf8.ValidString(got) {
		t.Error("truncated transcript contains invalid UTF-8")
	}
	if EstimateTokens(got) > 1000 {
		t.Errorf("truncated transcript over budget: %d tokens", EstimateTokens(got))
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
