package chat

import (
	"strings"
	"unicode/utf8"
)

var bannedTerms = []string{"해킹", "불법", "폭력", "욕설"}

const (
	filterBanned     = "건전한 전공 상담을 위해 적절한 질문을 부탁드려요."
	filterRepetition = "의미 있는 질문을 해주세요."
	filterTooShort   = "좀 더 구체적인 질문을 해주세요."
)

// maxRun is the longest allowed run of one repeated character.
const maxRun = 15

// checkContent returns a canned reply when message should not reach the
// generator, or "" when it may.
func checkContent(message string) string {
	lower := strings.ToLower(message)
	for _, term := range bannedTerms {
		if strings.Contains(lower, term) {
			return filterBanned
		}
	}
	if longestRun(message) > maxRun {
		return filterRepetition
	}
	if utf8.RuneCountInString(strings.TrimSpace(message)) < 2 {
		return filterTooShort
	}
	return ""
}

func longestRun(s string) int {
	best, run := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
