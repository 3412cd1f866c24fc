// Package tutor orchestrates the learning operations: explanations,
// exercises, quizzes, chat and level calculation, built on the content
// store, the generation gateway, the guard router and the evaluators.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/ai"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/content"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/eval"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/guard"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/platform/cache"
)

// PassThreshold is the exercise score below which remediation kicks in:
// the failure is recorded and a tutor message is composed.
const PassThreshold = 4

// Item payload sources.
const (
	SourceBank = "bank"
	SourceAI   = "ai"
	SourceNone = "none"
)

// Evaluation outcome tags.
const (
	StatusScored   = "scored"
	StatusNotFound = "not_found"
)

const exerciseInstruction = "أجب عن السؤال التالي إجابة وصفية كاملة بأسلوبك."

// Generator produces text for a prompt. *ai.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ExercisePayload is the caller-facing shape of one practice exercise.
// Counted is false for AI-generated items: they are practice only and must
// not feed the student's level.
type ExercisePayload struct {
	ID          int    `json:"id,omitempty"`
	Question    string `json:"question,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	Source      string `json:"source"`
	Counted     bool   `json:"counted"`
}

// QuizPayload is the caller-facing shape of one quiz question. The correct
// index never leaves the server.
type QuizPayload struct {
	ID       int      `json:"id,omitempty"`
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Source   string   `json:"source"`
}

// TutorMessage is remediation content. Counted is always false.
type TutorMessage struct {
	Text    string `json:"text"`
	Counted bool   `json:"counted"`
}

// ExerciseEvaluation is the tagged outcome of scoring an exercise answer.
type ExerciseEvaluation struct {
	Status   string              `json:"status"`
	Result   eval.ExerciseResult `json:"result,omitzero"`
	Feedback string              `json:"feedback,omitempty"`
	Tutor    *TutorMessage       `json:"tutor,omitempty"`
}

// QuizEvaluation is the tagged outcome of scoring a quiz answer.
type QuizEvaluation struct {
	Status string          `json:"status"`
	Result eval.QuizResult `json:"result,omitzero"`
}

// Config holds the dependencies of a Service.
type Config struct {
	Store    *content.Store
	Generate Generator
	Router   *guard.Router
	Cache    cache.Cache // nil disables explanation caching
	CacheTTL time.Duration
	Levels   *eval.LevelCalculator
	Rubric   eval.Rubric // zero value selects the default rubric
}

// Service implements the learning operations.
type Service struct {
	store    *content.Store
	generate Generator
	router   *guard.Router
	cache    cache.Cache
	cacheTTL time.Duration
	levels   *eval.LevelCalculator
	rubric   eval.Rubric
	progress *Progress
	bank     *ephemeralBank
}

// New creates a Service.
func New(cfg Config) *Service {
	rubric := cfg.Rubric
	if rubric == (eval.Rubric{}) {
		rubric = eval.DefaultRubric()
	}
	return &Service{
		store:    cfg.Store,
		generate: cfg.Generate,
		router:   cfg.Router,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		levels:   cfg.Levels,
		rubric:   rubric,
		progress: NewProgress(),
		bank:     newEphemeralBank(),
	}
}

// Explain generates a level-styled lesson explanation for a topic,
// constrained to its context document. Successful answers are cached per
// topic and level; there is no deterministic fallback, so generation
// failure surfaces as ai.ErrUnavailable.
func (s *Service) Explain(ctx context.Context, topic, level string) (string, error) {
	key, err := s.store.Resolve(topic)
	if err != nil {
		return "", err
	}
	level = normalizeLevel(level)

	cacheKey := "explain:" + key + ":" + level
	if s.cache != nil {
		if answer, ok := s.cache.Get(ctx, cacheKey); ok {
			return answer, nil
		}
	}

	answer, err := s.generate.Generate(ctx, explainPrompt(topic, level, s.store.Context(key)))
	if err != nil {
		return "", fmt.Errorf("explaining %q: %w", topic, err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, answer, s.cacheTTL)
	}
	return answer, nil
}

// Exercise returns a practice exercise: a random authored item for the
// requested level, or with useAI an AI-generated question focused on what
// the student last missed. An empty bank yields a Source of "none".
func (s *Service) Exercise(ctx context.Context, topic, level string, useAI bool) (ExercisePayload, error) {
	key, err := s.store.Resolve(topic)
	if err != nil {
		return ExercisePayload{}, err
	}
	level = normalizeLevel(level)

	if useAI {
		return s.aiExercise(ctx, key, topic, level), nil
	}

	item, ok := s.store.PickExercise(topic, level)
	if !ok {
		return ExercisePayload{Source: SourceNone}, nil
	}
	return ExercisePayload{
		ID:          item.ID,
		Question:    item.Question,
		Instruction: exerciseInstruction,
		Source:      SourceBank,
		Counted:     true,
	}, nil
}

// aiExercise generates a descriptive practice question focused on the
// topic's last missed points and registers it so it can be evaluated.
// Generation failure degrades to a deterministic question on the same
// focus; either way the item is practice only.
func (s *Service) aiExercise(ctx context.Context, key, topic, level string) ExercisePayload {
	var focusPoints []string
	if f, ok := s.progress.Last(topic); ok {
		focusPoints = f.MissingPoints
	}
	focus := joinFocus(focusPoints)

	question, err := s.generate.Generate(ctx, exercisePrompt(topic, level, focus, s.store.Context(key)))
	if err != nil || question == "" {
		if err != nil {
			slog.Warn("exercise generation failed, using fallback", "topic", topic, "error", err)
		}
		question = "اشرح مفهوم " + focus + " مع مثال بسيط."
	}

	id := s.bank.addExercise(topic, content.ExerciseItem{
		Question:       question,
		ExpectedPoints: focusPoints,
		Level:          level,
	})
	return ExercisePayload{
		ID:          id,
		Question:    question,
		Instruction: exerciseInstruction,
		Source:      SourceAI,
		Counted:     false,
	}
}

// EvaluateExercise scores a free-text answer against the identified item.
// A below-pass score records the failure for the topic and attaches a
// remedial tutor message; a passing score clears any stored failure.
func (s *Service) EvaluateExercise(ctx context.Context, topic string, id int, answer string) (ExerciseEvaluation, error) {
	key, err := s.store.Resolve(topic)
	if err != nil {
		return ExerciseEvaluation{}, err
	}

	item, ok := s.store.FindExercise(topic, id)
	if !ok {
		item, ok = s.bank.findExercise(topic, id)
	}
	if !ok {
		return ExerciseEvaluation{Status: StatusNotFound}, nil
	}

	result := s.rubric.EvaluateExercise(answer, item.ExpectedPoints)
	out := ExerciseEvaluation{
		Status:   StatusScored,
		Result:   result,
		Feedback: s.exerciseFeedback(ctx, answer, result),
	}

	if result.Score < PassThreshold {
		s.progress.Record(topic, Failure{ItemID: id, MissingPoints: result.MissingPoints})
		out.Tutor = &TutorMessage{
			Text:    s.remedialTutor(ctx, topic, key, normalizeLevel(item.Level), result.MissingPoints),
			Counted: false,
		}
	} else {
		s.progress.Clear(topic)
	}
	return out, nil
}

// Quiz returns a quiz question: a random authored item, or with useAI a
// generated MCQ validated against the quiz schema. Invalid or unavailable
// generation degrades to a deterministic fallback item; both are registered
// so they can be evaluated.
func (s *Service) Quiz(ctx context.Context, topic, level string, useAI bool) (QuizPayload, error) {
	key, err := s.store.Resolve(topic)
	if err != nil {
		return QuizPayload{}, err
	}
	level = normalizeLevel(level)

	if useAI {
		return s.aiQuiz(ctx, key, topic, level), nil
	}

	item, ok := s.store.PickQuiz(topic, level)
	if !ok {
		return QuizPayload{Source: SourceNone}, nil
	}
	return QuizPayload{ID: item.ID, Question: item.Question, Options: item.Options, Source: SourceBank}, nil
}

func (s *Service) aiQuiz(ctx context.Context, key, topic, level string) QuizPayload {
	item := fallbackQuizItem()

	text, err := s.generate.Generate(ctx, quizPrompt(topic, level, s.store.Context(key)))
	if err != nil {
		slog.Warn("quiz generation failed, using fallback", "topic", topic, "error", err)
	} else if gen, perr := ai.ExtractQuizItem(text); perr != nil {
		slog.Warn("generated quiz rejected, using fallback", "topic", topic, "error", perr)
	} else {
		item = content.QuizItem{
			Question:     gen.Question,
			Options:      gen.Options,
			CorrectIndex: gen.CorrectIndex,
		}
	}

	id := s.bank.addQuiz(topic, item)
	return QuizPayload{ID: id, Question: item.Question, Options: item.Options, Source: SourceAI}
}

// fallbackQuizItem is the deterministic MCQ served when generation fails.
func fallbackQuizItem() content.QuizItem {
	return content.QuizItem{
		Question: "ما هو المفهوم الأساسي في هذا الدرس؟",
		Options: []string{
			"مفهوم غير متعلق",
			"مفهوم أساسي في الموضوع",
			"مفهوم من درس آخر",
			"إجابة غير صحيحة",
		},
		CorrectIndex: 1,
	}
}

// EvaluateQuiz scores a multiple-choice answer against the identified item.
func (s *Service) EvaluateQuiz(topic string, id, choiceIndex int) (QuizEvaluation, error) {
	if _, err := s.store.Resolve(topic); err != nil {
		return QuizEvaluation{}, err
	}

	item, ok := s.store.FindQuiz(topic, id)
	if !ok {
		item, ok = s.bank.findQuiz(topic, id)
	}
	if !ok {
		return QuizEvaluation{Status: StatusNotFound}, nil
	}

	return QuizEvaluation{
		Status: StatusScored,
		Result: eval.EvaluateQuiz(item.Options, choiceIndex, item.CorrectIndex, item.Explain),
	}, nil
}

// Chat answers a student question through the topic guard.
func (s *Service) Chat(ctx context.Context, topic, question string) (string, error) {
	reply, err := s.router.Chat(ctx, topic, question)
	if err != nil {
		return "", err
	}
	return reply.Answer, nil
}

// StudentLevel averages a score history and maps it to a proficiency tier.
// An empty history averages to 0.
func (s *Service) StudentLevel(scores []float64) (float64, string) {
	var sum float64
	for _, v := range scores {
		sum += v
	}
	avg := 0.0
	if len(scores) > 0 {
		avg = sum / float64(len(scores))
	}
	return avg, s.levels.Level(avg)
}

func normalizeLevel(level string) string {
	if level == "" {
		return content.DefaultLevel
	}
	return level
}
