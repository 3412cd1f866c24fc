package tutor

import (
	"context"
	"strings"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/eval"
)

// exerciseFeedback composes a short comment on the student's answer,
// restricted to this answer only. Generation trouble falls back to fixed
// phrases derived from the coverage result.
func (s *Service) exerciseFeedback(ctx context.Context, answer string, result eval.ExerciseResult) string {
	text, err := s.generate.Generate(ctx, feedbackPrompt(answer, result.CoveredPoints, result.MissingPoints))
	if err == nil && text != "" {
		return text
	}
	return fallbackFeedback(result)
}

func fallbackFeedback(result eval.ExerciseResult) string {
	if len(result.MissingPoints) == 0 {
		return "إجابتك جيدة وتغطي جميع النقاط المطلوبة لهذا السؤال."
	}
	if len(result.CoveredPoints) > 0 {
		return "إجابتك صحيحة جزئيًا، لكن تحتاج إلى توضيح: " + strings.Join(result.MissingPoints, "، ")
	}
	return "إجابتك غير كافية لهذا السؤال، حاول التركيز على النقاط الأساسية المطلوبة."
}

// remedialTutor composes a focused re-teaching message for the concepts the
// student just missed. It never reveals solutions or scores, and its output
// is always marked non-counted by the caller.
func (s *Service) remedialTutor(ctx context.Context, topic, key, level string, missing []string) string {
	focus := joinFocus(missing)
	text, err := s.generate.Generate(ctx, tutorPrompt(topic, level, focus, s.store.Context(key)))
	if err == nil && text != "" {
		return text
	}
	return "شرح مبسط حول: " + focus + "."
}
