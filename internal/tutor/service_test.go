package tutor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/ai"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/content"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/eval"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/guard"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/platform/cache"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/tutor"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var failingGenerator = generatorFunc(func(context.Context, string) (string, error) {
	return "", ai.ErrUnavailable
})

const topicEvents = "Event-Driven Programming"

func fixtureStore(t *testing.T) *content.Store {
	t.Helper()
	dir := t.TempDir()

	write := func(name, data string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("event_driven.txt", "An event driven program reacts to events. A handler runs when a trigger fires.")
	write("exercises.json", `{
		"Event-Driven Programming": {
			"Beginner": [
				{"id": 1, "question": "ما هو الحدث في البرمجة؟", "expected_points": ["event", "handler", "trigger"], "level": "Beginner"}
			]
		}
	}`)
	write("quizzes.json", `{
		"Event-Driven Programming": {
			"Beginner": [
				{"id": 1, "question": "أي مما يلي يصف الحدث؟", "options": ["متغير", "دالة", "إشارة يستجيب لها البرنامج", "ملف"], "correct_index": 2, "explain": "الحدث إشارة يستجيب لها البرنامج."}
			]
		}
	}`)

	store, err := content.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func newService(t *testing.T, gen tutor.Generator) *tutor.Service {
	t.Helper()
	store := fixtureStore(t)

	levels, err := eval.NewLevelCalculator(eval.DefaultBands())
	if err != nil {
		t.Fatalf("NewLevelCalculator() error = %v", err)
	}

	return tutor.New(tutor.Config{
		Store:    store,
		Generate: gen,
		Router:   guard.NewRouter(store, gen, nil),
		Cache:    cache.NewMemory(),
		CacheTTL: time.Hour,
		Levels:   levels,
	})
}

func TestExplain_CachesPerTopicAndLevel(t *testing.T) {
	ctx := t.Context()
	calls := 0
	svc := newService(t, generatorFunc(func(context.Context, string) (string, error) {
		calls++
		return "شرح الدرس", nil
	}))

	for range 2 {
		answer, err := svc.Explain(ctx, topicEvents, "Beginner")
		if err != nil {
			t.Fatalf("Explain() error = %v", err)
		}
		if answer != "شرح الدرس" {
			t.Errorf("Explain() = %q", answer)
		}
	}
	if calls != 1 {
		t.Errorf("generator called %d times for a cached explanation, want 1", calls)
	}

	if _, err := svc.Explain(ctx, topicEvents, "Advanced"); err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("generator called %d times, want 2 (one per level)", calls)
	}
}

func TestExplain_UnsupportedTopic(t *testing.T) {
	svc := newService(t, failingGenerator)

	_, err := svc.Explain(t.Context(), "Basket Weaving", "")
	if !errors.Is(err, content.ErrUnsupportedTopic) {
		t.Errorf("Explain() error = %v, want ErrUnsupportedTopic", err)
	}
}

func TestExplain_GenerationUnavailable(t *testing.T) {
	svc := newService(t, failingGenerator)

	_, err := svc.Explain(t.Context(), topicEvents, "")
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Errorf("Explain() error = %v, want ErrUnavailable", err)
	}
}

func TestExercise_Bank(t *testing.T) {
	svc := newService(t, failingGenerator)

	payload, err := svc.Exercise(t.Context(), topicEvents, "Beginner", false)
	if err != nil {
		t.Fatalf("Exercise() error = %v", err)
	}
	if payload.Source != tutor.SourceBank || payload.ID != 1 || !payload.Counted {
		t.Errorf("Exercise() = %+v, want counted bank item 1", payload)
	}
	if payload.Instruction == "" {
		t.Error("bank exercise has no instruction")
	}
}

func TestExercise_EmptyBank(t *testing.T) {
	svc := newService(t, failingGenerator)

	payload, err := svc.Exercise(t.Context(), "Procedural Programming", "Beginner", false)
	if err != nil {
		t.Fatalf("Exercise() error = %v", err)
	}
	if payload.Source != tutor.SourceNone {
		t.Errorf("Exercise() source = %q, want %q", payload.Source, tutor.SourceNone)
	}
}

func TestEvaluateExercise_FailureThenRemediation(t *testing.T) {
	ctx := t.Context()
	svc := newService(t, failingGenerator)

	// A real attempt that names none of the expected points.
	out, err := svc.EvaluateExercise(ctx, topicEvents, 1, "البرنامج ينتظر ثم يستجيب لما يحدث حوله بطريقة ما")
	if err != nil {
		t.Fatalf("EvaluateExercise() error = %v", err)
	}
	if out.Status != tutor.StatusScored {
		t.Fatalf("status = %q", out.Status)
	}
	if out.Result.Score != 3 {
		t.Errorf("score = %d, want 3 (conceptual credit)", out.Result.Score)
	}
	if out.Feedback != "إجابتك غير كافية لهذا السؤال، حاول التركيز على النقاط الأساسية المطلوبة." {
		t.Errorf("feedback fallback = %q", out.Feedback)
	}
	if out.Tutor == nil {
		t.Fatal("below-pass score produced no tutor message")
	}
	if out.Tutor.Counted {
		t.Error("tutor message must never be counted")
	}
	if out.Tutor.Text != "شرح مبسط حول: event، handler، trigger." {
		t.Errorf("tutor fallback = %q", out.Tutor.Text)
	}

	// The recorded failure drives the next AI exercise's focus.
	payload, err := svc.Exercise(ctx, topicEvents, "Beginner", true)
	if err != nil {
		t.Fatalf("Exercise(useAI) error = %v", err)
	}
	if payload.Source != tutor.SourceAI || payload.Counted {
		t.Errorf("Exercise(useAI) = %+v, want non-counted ai item", payload)
	}
	if payload.ID < 100000 {
		t.Errorf("generated item id = %d, collides with the authored bank", payload.ID)
	}
	if !strings.Contains(payload.Question, "event، handler، trigger") {
		t.Errorf("generated question %q does not focus on the missed points", payload.Question)
	}

	// The generated item is evaluable by id, and a full-coverage answer
	// clears the stored failure.
	out, err = svc.EvaluateExercise(ctx, topicEvents, payload.ID, "كل event يصل إلى handler بعد أن يطلقه trigger")
	if err != nil {
		t.Fatalf("EvaluateExercise(generated) error = %v", err)
	}
	if out.Result.Score != 5 || out.Tutor != nil {
		t.Errorf("full coverage = %+v, want score 5 and no tutor", out)
	}

	payload, err = svc.Exercise(ctx, topicEvents, "Beginner", true)
	if err != nil {
		t.Fatalf("Exercise(useAI) error = %v", err)
	}
	if !strings.Contains(payload.Question, "المفهوم الأساسي في هذا الدرس") {
		t.Errorf("after a pass the focus should reset, got %q", payload.Question)
	}
}

func TestEvaluateExercise_PartialFeedbackEnumeratesMissing(t *testing.T) {
	svc := newService(t, failingGenerator)

	out, err := svc.EvaluateExercise(t.Context(), topicEvents, 1, "الحدث event هو الأساس")
	if err != nil {
		t.Fatalf("EvaluateExercise() error = %v", err)
	}
	want := "إجابتك صحيحة جزئيًا، لكن تحتاج إلى توضيح: handler، trigger"
	if out.Feedback != want {
		t.Errorf("feedback = %q, want %q", out.Feedback, want)
	}
}

func TestEvaluateExercise_NotFound(t *testing.T) {
	svc := newService(t, failingGenerator)

	out, err := svc.EvaluateExercise(t.Context(), topicEvents, 999, "إجابة")
	if err != nil {
		t.Fatalf("EvaluateExercise() error = %v", err)
	}
	if out.Status != tutor.StatusNotFound {
		t.Errorf("status = %q, want %q", out.Status, tutor.StatusNotFound)
	}
}

func TestQuiz_Bank(t *testing.T) {
	svc := newService(t, failingGenerator)

	payload, err := svc.Quiz(t.Context(), topicEvents, "Beginner", false)
	if err != nil {
		t.Fatalf("Quiz() error = %v", err)
	}
	if payload.Source != tutor.SourceBank || payload.ID != 1 || len(payload.Options) != 4 {
		t.Errorf("Quiz() = %+v", payload)
	}
}

func TestQuiz_AIGeneratedAndEvaluable(t *testing.T) {
	ctx := t.Context()
	svc := newService(t, generatorFunc(func(context.Context, string) (string, error) {
		return "```json\n{\"question\": \"ما هو المعالج؟\", \"options\": [\"أ\", \"ب\", \"ج\", \"د\"], \"correct_index\": 3}\n```", nil
	}))

	payload, err := svc.Quiz(ctx, topicEvents, "Beginner", true)
	if err != nil {
		t.Fatalf("Quiz(useAI) error = %v", err)
	}
	if payload.Source != tutor.SourceAI || payload.Question != "ما هو المعالج؟" {
		t.Errorf("Quiz(useAI) = %+v", payload)
	}

	out, err := svc.EvaluateQuiz(topicEvents, payload.ID, 3)
	if err != nil {
		t.Fatalf("EvaluateQuiz() error = %v", err)
	}
	if out.Status != tutor.StatusScored || out.Result.Score != 5 {
		t.Errorf("correct choice = %+v", out)
	}

	out, err = svc.EvaluateQuiz(topicEvents, payload.ID, 0)
	if err != nil {
		t.Fatalf("EvaluateQuiz() error = %v", err)
	}
	if out.Result.Score != 0 {
		t.Errorf("wrong choice score = %d, want 0", out.Result.Score)
	}
	if !strings.HasPrefix(out.Result.Explanation, "الإجابة الصحيحة هي: د") {
		t.Errorf("explanation = %q, want the correct option leading it", out.Result.Explanation)
	}
}

func TestQuiz_FallbackOnUnusableOutput(t *testing.T) {
	for name, gen := range map[string]tutor.Generator{
		"generation failed": failingGenerator,
		"invalid json": generatorFunc(func(context.Context, string) (string, error) {
			return "هذا ليس JSON", nil
		}),
	} {
		t.Run(name, func(t *testing.T) {
			svc := newService(t, gen)

			payload, err := svc.Quiz(t.Context(), topicEvents, "Beginner", true)
			if err != nil {
				t.Fatalf("Quiz(useAI) error = %v", err)
			}
			if payload.Question != "ما هو المفهوم الأساسي في هذا الدرس؟" {
				t.Errorf("fallback question = %q", payload.Question)
			}

			out, err := svc.EvaluateQuiz(topicEvents, payload.ID, 1)
			if err != nil {
				t.Fatalf("EvaluateQuiz() error = %v", err)
			}
			if !out.Result.IsCorrect {
				t.Error("fallback item's correct choice scored incorrect")
			}
		})
	}
}

func TestEvaluateQuiz_NotFound(t *testing.T) {
	svc := newService(t, failingGenerator)

	out, err := svc.EvaluateQuiz(topicEvents, 999, 0)
	if err != nil {
		t.Fatalf("EvaluateQuiz() error = %v", err)
	}
	if out.Status != tutor.StatusNotFound {
		t.Errorf("status = %q, want %q", out.Status, tutor.StatusNotFound)
	}
}

func TestChat_Delegates(t *testing.T) {
	svc := newService(t, generatorFunc(func(context.Context, string) (string, error) {
		return "يستجيب البرنامج لكل event عبر handler مخصص.", nil
	}))

	answer, err := svc.Chat(t.Context(), topicEvents, "كيف يستجيب البرنامج للأحداث؟")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(answer, "handler") {
		t.Errorf("Chat() = %q", answer)
	}
}

func TestStudentLevel(t *testing.T) {
	svc := newService(t, failingGenerator)

	tests := []struct {
		name    string
		scores  []float64
		wantAvg float64
		want    string
	}{
		{"empty history", nil, 0, "Beginner"},
		{"mid scores", []float64{1, 2, 3}, 2, "Intermediate"},
		{"perfect", []float64{5, 5}, 5, "Advanced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, level := svc.StudentLevel(tt.scores)
			if avg != tt.wantAvg || level != tt.want {
				t.Errorf("StudentLevel(%v) = %v, %q; want %v, %q", tt.scores, avg, level, tt.wantAvg, tt.want)
			}
		})
	}
}
