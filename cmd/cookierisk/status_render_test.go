package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"cookierisk/internal/dispatch"
	"cookierisk/internal/pipeline"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Endpoint", statusWarn, "API URL not defined", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Endpoint:", "[WARN] API URL not defined")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Cookies", statusOK, "2 stored", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	got := renderStatusLine("Source", statusError, "", false)
	if !strings.HasSuffix(got, "[ERROR]") {
		t.Fatalf("expected bare label, got %q", got)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader(" cookierisk ", false)
	if len(lines) != 2 || lines[0] != "== cookierisk ==" || lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestPhaseKind(t *testing.T) {
	cases := []struct {
		phase   pipeline.Phase
		pending int
		want    statusKind
	}{
		{pipeline.PhaseIdle, 0, statusInfo},
		{pipeline.PhaseExtracting, 0, statusInfo},
		{pipeline.PhaseReady, 0, statusWarn},
		{pipeline.PhaseReady, 3, statusOK},
		{pipeline.PhasePredicting, 3, statusInfo},
		{pipeline.PhaseDisplayed, 3, statusOK},
	}
	for _, tc := range cases {
		if got := phaseKind(tc.phase, tc.pending); got != tc.want {
			t.Fatalf("phaseKind(%s, %d) = %s, want %s", tc.phase, tc.pending, got.tag(), tc.want.tag())
		}
	}
}

func TestSessionStatusLines(t *testing.T) {
	lines := sessionStatusLines(pipeline.Snapshot{
		Phase:    pipeline.PhaseDisplayed,
		Pending:  2,
		Endpoint: "http://scorer.test/predict",
		Outcomes: []dispatch.Outcome{dispatch.Failure("sid", "boom"), dispatch.Failure("theme", "boom")},
	}, false)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"[OK] displayed, 2 outcomes",
		"[OK] http://scorer.test/predict",
		"[OK] 2 stored",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "Source:") || strings.Contains(joined, "Extracted:") {
		t.Fatalf("expected source lines to be omitted:\n%s", joined)
	}

	lines = sessionStatusLines(pipeline.Snapshot{Phase: pipeline.PhaseReady}, false)
	joined = strings.Join(lines, "\n")
	for _, want := range []string{"[WARN] ready, 0 cookies pending", "[WARN] " + pipeline.StatusNoEndpoint, "[INFO] none stored"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in\n%s", want, joined)
		}
	}
}
