// Package eval provides deterministic scoring of student answers and the
// mapping from score averages to proficiency levels.
package eval

import "strings"

// Rubric holds the thresholds of the free-text scoring rubric.
// The defaults are the reference values the curriculum team calibrated
// against; they are exposed for tuning, not derived from anything.
type Rubric struct {
	// MinConceptualLen is the minimum answer length (in bytes) that earns
	// conceptual-understanding credit when no expected point matched.
	MinConceptualLen int
	// PartialRatio is the coverage ratio at which a partial answer is
	// upgraded from score 3 to score 4.
	PartialRatio float64
	// StrongRatio is the coverage ratio at which an answer scores 5.
	StrongRatio float64
}

// DefaultRubric returns the reference rubric thresholds.
func DefaultRubric() Rubric {
	return Rubric{
		MinConceptualLen: 20,
		PartialRatio:     0.4,
		StrongRatio:      0.7,
	}
}

// ExerciseResult is the outcome of scoring a free-text exercise answer.
type ExerciseResult struct {
	Score         int      `json:"score_5"`
	IsCorrect     bool     `json:"is_correct"`
	CoveredPoints []string `json:"covered_points"`
	MissingPoints []string `json:"missing_points"`
}

// EvaluateExercise scores a free-text answer against an expected-points
// checklist using the default rubric.
func EvaluateExercise(answer string, expectedPoints []string) ExerciseResult {
	return DefaultRubric().EvaluateExercise(answer, expectedPoints)
}

// EvaluateExercise scores a free-text answer by case-insensitive substring
// coverage of the expected points. This is a lenient keyword heuristic, not
// a semantic match: an answer that restates a point in different words gets
// no credit for it, and a long answer with zero matches still earns the
// conceptual-understanding score.
func (r Rubric) EvaluateExercise(answer string, expectedPoints []string) ExerciseResult {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return ExerciseResult{
			Score:         0,
			IsCorrect:     false,
			CoveredPoints: []string{},
			MissingPoints: append([]string{}, expectedPoints...),
		}
	}

	answerLower := strings.ToLower(answer)
	covered := []string{}
	missing := []string{}
	for _, point := range expectedPoints {
		if strings.TrimSpace(point) == "" {
			continue
		}
		if strings.Contains(answerLower, strings.ToLower(point)) {
			covered = append(covered, point)
		} else {
			missing = append(missing, point)
		}
	}

	// Blank points are skipped above but still count in the denominator.
	total := len(expectedPoints)
	if total < 1 {
		total = 1
	}
	ratio := float64(len(covered)) / float64(total)

	var score int
	switch {
	case ratio == 0 && len(trimmed) > r.MinConceptualLen:
		// The student wrote a real attempt without the exact terms:
		// credit conceptual understanding.
		score = 3
	case ratio == 0:
		score = 1
	case ratio < r.PartialRatio:
		score = 3
	case ratio < r.StrongRatio:
		score = 4
	default:
		score = 5
	}

	return ExerciseResult{
		Score:         score,
		IsCorrect:     score >= 3,
		CoveredPoints: covered,
		MissingPoints: missing,
	}
}
