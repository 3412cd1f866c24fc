package guard

import "strings"

// RelevanceChecker decides whether a generated answer plausibly came from a
// topic's context document. It guards against scope drift after the model
// already accepted a question.
type RelevanceChecker interface {
	Relevant(contextDoc, answer string) bool
}

// TokenSampleChecker is a substring heuristic, not a semantic check: it
// samples the first SampleSize distinct lower-cased tokens of the context
// document and accepts the answer if at least one appears in it. Kept
// behind the interface so a semantic checker can replace it without
// touching the state machine.
type TokenSampleChecker struct {
	SampleSize int
}

const defaultSampleSize = 50

func (c TokenSampleChecker) Relevant(contextDoc, answer string) bool {
	size := c.SampleSize
	if size <= 0 {
		size = defaultSampleSize
	}

	answerLower := strings.ToLower(answer)
	seen := make(map[string]bool, size)
	for _, token := range strings.Fields(strings.ToLower(contextDoc)) {
		if seen[token] {
			continue
		}
		seen[token] = true
		if strings.Contains(answerLower, token) {
			return true
		}
		if len(seen) >= size {
			break
		}
	}
	return false
}
