package assist

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
)

// MaxParagraphSentences caps the length of an improved paragraph.
const MaxParagraphSentences = 4

// minParagraphLength is the size below which an extracted quote is not trusted.
const minParagraphLength = 50

var (
	boldQuotePattern    = regexp.MustCompile(`(?s)>\s*\*\*(.*?)\*\*`)
	labelLinePattern    = regexp.MustCompile(`(?i)^(option|version|alternative|choice|here'?s?|why|key|ranging)`)
	headingPattern      = regexp.MustCompile(`(?m)(^|\s)#{1,6}\s+`)
	bulletPattern       = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedPattern     = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	fencedBlockPattern  = regexp.MustCompile("(?s)```.*?```")
	quoteMarkerPattern  = regexp.MustCompile(`(?m)^\s*>\s*`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	sentenceBreakRegexp = regexp.MustCompile(`\.\s+`)
)

// NormalizeParagraph reduces a model reply to a single plain paragraph. Replies that offer
// several quoted options are cut down to the first one. The result carries no markdown, ends
// with a period and has at most MaxParagraphSentences sentences. It returns "" when nothing is left.
func NormalizeParagraph(text string) string {
	text = llm.UnwrapCodeBlock(text)

	content := text
	if m := boldQuotePattern.FindStringSubmatch(text); m != nil {
		content = strings.TrimSpace(m[1])
	} else if quote := firstBlockquote(text); quote != "" {
		content = quote
	}

	if len(content) < minParagraphLength {
		if line := firstParagraphLine(text); line != "" {
			content = line
		}
	}

	content = stripMarkdown(content)
	if content == "" {
		return ""
	}
	if !strings.HasSuffix(content, ".") {
		content += "."
	}
	return capSentences(content, MaxParagraphSentences)
}

// firstBlockquote returns the first "> ..." paragraph, continuing over following lines until a
// blank line or the next quote.
func firstBlockquote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, ">") {
			continue
		}
		first := strings.TrimSpace(strings.TrimLeft(trimmed, ">"))
		if first == "" {
			continue
		}
		parts := []string{first}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" || strings.HasPrefix(next, ">") {
				break
			}
			parts = append(parts, next)
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// firstParagraphLine returns the first long, sentence-bearing line that is not an option label
// or a horizontal rule.
func firstParagraphLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 30 {
			continue
		}
		if labelLinePattern.MatchString(line) || strings.HasPrefix(line, "---") {
			continue
		}
		if strings.Contains(line, ".") && len(line) > minParagraphLength {
			return line
		}
	}
	return ""
}

// stripMarkdown removes markdown syntax. Line markers are stripped until none are left, so a
// bullet hiding behind a list number ("1. - item") goes too.
func stripMarkdown(text string) string {
	text = fencedBlockPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "`", "")
	for {
		stripped := stripLineMarkers(text)
		if stripped == text {
			break
		}
		text = stripped
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripLineMarkers makes one pass over headings, bullets, list numbers and quote markers.
// Headings are also removed mid-line; "C#" is kept because the marker must follow whitespace.
func stripLineMarkers(text string) string {
	text = headingPattern.ReplaceAllString(text, "$1")
	text = bulletPattern.ReplaceAllString(text, "")
	text = numberedPattern.ReplaceAllString(text, "")
	return quoteMarkerPattern.ReplaceAllString(text, "")
}

// capSentences keeps the first limit sentences when text has more periods than that.
func capSentences(text string, limit int) string {
	if strings.Count(text, ".") <= limit {
		return text
	}

	var sentences []string
	for _, s := range sentenceBreakRegexp.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) < 3 {
		return text
	}
	if len(sentences) > limit {
		sentences = sentences[:limit]
	}
	last := len(sentences) - 1
	sentences[last] = strings.TrimRight(sentences[last], ".")
	return strings.Join(sentences, ". ") + "."
}
