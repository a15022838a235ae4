package llm

import (
	"strings"
	"unicode/utf8"
)

// Character budgets per request kind. The oracle sees at most this much
// document text; anything beyond is cut head-biased so the opening of the
// document (parties, address, rent) always survives.
const (
	ExtractCharBudget   = 12000
	AnswerCharBudget    = 12000
	ValuationCharBudget = 4000
)

const tableMarker = "\n\n[Detected tables]\n"

// TruncateForPrompt fits text plus optional table context into budget
// characters. Head-biased: the document head is kept, and up to a quarter of
// the budget is reserved for detected table regions so tabular fee data is
// not lost to truncation. Deterministic for identical inputs.
func TruncateForPrompt(text string, tableText string, budget int) string {
	if budget <= 0 {
		return ""
	}
	text = strings.TrimSpace(text)
	tableText = strings.TrimSpace(tableText)

	if tableText == "" {
		return cutAtRune(text, budget)
	}

	reserve := len(tableText) + len(tableMarker)
	if max := budget / 4; reserve > max {
		reserve = max
	}
	headBudget := budget - reserve
	head := cutAtRune(text, headBudget)

	tableBudget := budget - len(head) - len(tableMarker)
	if tableBudget <= 0 {
		return head
	}
	return head + tableMarker + cutAtRune(tableText, tableBudget)
}

// cutAtRune truncates s to at most n bytes without splitting a rune.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
