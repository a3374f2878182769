package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"reelpreview/internal/batch"
	"reelpreview/internal/deps"
)

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
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
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

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len([]rune(line)))
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

// outcomeMarker maps a batch outcome to its progress marker and colour.
func outcomeMarker(outcome batch.Outcome) (string, statusKind) {
	switch outcome {
	case batch.OutcomeGenerated:
		return "OK", statusOK
	case batch.OutcomeSkipped:
		return "SKIP", statusWarn
	default:
		return "FAIL", statusError
	}
}

// renderResultLine formats one progress line: "[i/n] [OK] source -> target".
// Paths are shown relative to root when possible.
func renderResultLine(index, total int, res batch.Result, root string, colorize bool) string {
	marker, kind := outcomeMarker(res.Outcome)
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d] [%s] %s", index, total, marker, displayPath(root, res.Source))
	switch res.Outcome {
	case batch.OutcomeGenerated:
		if res.Target != "" {
			fmt.Fprintf(&b, " -> %s", displayTargets(root, res.Target))
		}
		fmt.Fprintf(&b, " (%s)", res.Elapsed.Round(100*time.Millisecond))
	case batch.OutcomeSkipped:
		if res.Reason != "" {
			fmt.Fprintf(&b, " (%s)", res.Reason)
		}
	case batch.OutcomeFailed:
		if res.Err != nil {
			fmt.Fprintf(&b, ": %v", res.Err)
		}
	}
	line := b.String()
	if colorize {
		return statusKindColor(kind) + line + ansiReset
	}
	return line
}

func displayPath(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func displayTargets(root, joined string) string {
	parts := strings.Split(joined, ", ")
	for i, part := range parts {
		parts[i] = displayPath(root, part)
	}
	return strings.Join(parts, ", ")
}

func renderSummaryLine(summary batch.Summary) string {
	return fmt.Sprintf("Done: %d generated, %d skipped, %d failed in %s",
		summary.Generated, summary.Skipped, summary.Failed, summary.Elapsed.Round(time.Second))
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses))
	for _, status := range statuses {
		switch {
		case status.Available:
			detail := "Ready (command: " + status.Command + ")"
			if status.Version != "" {
				detail += " " + status.Version
			}
			lines = append(lines, renderStatusLine(status.Name, statusOK, detail, colorize))
		case status.Optional:
			lines = append(lines, renderStatusLine(status.Name, statusWarn, status.Detail, colorize))
		default:
			lines = append(lines, renderStatusLine(status.Name, statusError, status.Detail, colorize))
		}
	}
	return lines
}
