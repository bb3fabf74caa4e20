package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"cookierisk/internal/pipeline"
)

// statusKind picks the tag and colour of one status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 16
	statusIndent     = "  "
)

func (k statusKind) tag() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

// phaseKind tags the session phase. Ready without cookies is a warning:
// predict has nothing to send until the next extraction.
func phaseKind(phase pipeline.Phase, pending int) statusKind {
	switch phase {
	case pipeline.PhaseReady:
		if pending == 0 {
			return statusWarn
		}
		return statusOK
	case pipeline.PhaseDisplayed:
		return statusOK
	default:
		return statusInfo
	}
}

func phaseMessage(snap pipeline.Snapshot) string {
	switch snap.Phase {
	case pipeline.PhaseReady:
		return fmt.Sprintf("%s, %d cookies pending", snap.Phase, snap.Pending)
	case pipeline.PhaseDisplayed:
		return fmt.Sprintf("%s, %d outcomes", snap.Phase, len(snap.Outcomes))
	default:
		return snap.Phase.String()
	}
}

// sessionStatusLines renders the orchestrator snapshot for `status`.
func sessionStatusLines(snap pipeline.Snapshot, colorize bool) []string {
	lines := []string{renderStatusLine("Phase", phaseKind(snap.Phase, snap.Pending), phaseMessage(snap), colorize)}

	if snap.Endpoint == "" {
		lines = append(lines, renderStatusLine("Endpoint", statusWarn, pipeline.StatusNoEndpoint, colorize))
	} else {
		lines = append(lines, renderStatusLine("Endpoint", statusOK, snap.Endpoint, colorize))
	}

	if snap.Pending == 0 {
		lines = append(lines, renderStatusLine("Cookies", statusInfo, "none stored", colorize))
	} else {
		lines = append(lines, renderStatusLine("Cookies", statusOK, fmt.Sprintf("%d stored", snap.Pending), colorize))
	}
	if snap.SourceURL != "" {
		lines = append(lines, renderStatusLine("Source", statusInfo, snap.SourceURL, colorize))
	}
	if !snap.ExtractedAt.IsZero() {
		lines = append(lines, renderStatusLine("Extracted", statusInfo, snap.ExtractedAt.Local().Format(time.RFC1123), colorize))
	}
	return lines
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := "[" + kind.tag() + "]"
	if message != "" {
		tag += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", tag)
	if colorize {
		return kind.color() + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
