package repl

import (
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// envNames returns the sorted names of all defined environment variables.
func envNames() []string {
	environ := os.Environ()
	names := make([]string, 0, len(environ))

	for _, kv := range environ {
		if name, _, ok := strings.Cut(kv, "="); ok && name != "" {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// pendingPlaceholder reports whether text ends inside an unterminated
// placeholder. It returns the partial name typed so far and the byte offset
// of the opening "${". A placeholder is pending when its body has no closing
// brace, no nested opening brace, and does not span a line break.
func pendingPlaceholder(text string) (prefix string, start int, ok bool) {
	start = strings.LastIndex(text, "${")
	if start < 0 {
		return "", 0, false
	}

	body := text[start+2:]
	if strings.ContainsAny(body, "{}\n") {
		return "", 0, false
	}

	return body, start, true
}

// computeMatches calculates the fuzzy match results for the placeholder name
// under construction. An empty name lists every candidate so the user can
// browse the environment.
func (m model) computeMatches() fuzzy.Matches {
	prefix, _, ok := pendingPlaceholder(m.input.Value())
	if !ok || len(m.names) == 0 {
		return nil
	}

	if prefix == "" {
		matches := make(fuzzy.Matches, len(m.names))
		for i, name := range m.names {
			matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return matches
	}

	return fuzzy.Find(prefix, m.names)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when cycling) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	cycling bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := cycling && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}
