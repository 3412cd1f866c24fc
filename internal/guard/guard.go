// Package guard classifies chat questions and keeps generated answers
// inside the active topic and curriculum.
package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/content"
)

// RefusalMessage is the one canonical refusal string. Every rejection path
// returns exactly this value so downstream consumers can pattern-match on
// it; the same literal is embedded in the content-flow prompt so the model
// self-rejects with it too.
const RefusalMessage = "عذرًا، هذا السؤال خارج نطاق هذا التوبك. يرجى طرح سؤال متعلق بالموضوع الحالي."

// ReplyKind tags how a chat reply was produced.
type ReplyKind int

const (
	// ReplyAnswer is a generated, relevance-checked answer.
	ReplyAnswer ReplyKind = iota
	// ReplyCriteria is a deterministic criteria listing; no generation involved.
	ReplyCriteria
	// ReplyRefusal carries the canonical refusal string.
	ReplyRefusal
)

// Reply is the outcome of routing one chat question.
type Reply struct {
	Kind   ReplyKind
	Answer string
}

func refusal() Reply {
	return Reply{Kind: ReplyRefusal, Answer: RefusalMessage}
}

// Generator produces text for a prompt. *ai.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// criteriaKeywords route a question into the deterministic criteria flow.
// English first, then the transliterations students actually type.
var criteriaKeywords = []string{
	"criteria", "pass", "merit", "distinction",
	"معايير", "باس", "ميريت", "ديستنكشن",
}

// topicHints detect a question that names a topic other than the active
// one. Checked in order; the hint resolves through the topic map so aliases
// of the active topic do not trigger a rejection.
var topicHints = []struct {
	hint  string
	topic string
}{
	{"event", "Event-Driven Programming"},
	{"object-oriented", "Object-Oriented Programming"},
	{"object oriented", "Object-Oriented Programming"},
	{"oop", "OOP"},
	{"procedural", "Procedural Programming"},
}

// Router is the topic guard state machine: it classifies a question as a
// curriculum-criteria query, an in-scope content question, or out of scope,
// and dispatches accordingly.
type Router struct {
	store    *content.Store
	generate Generator
	checker  RelevanceChecker
}

// NewRouter creates a Router. A nil checker gets the token-sample default.
func NewRouter(store *content.Store, generate Generator, checker RelevanceChecker) *Router {
	if checker == nil {
		checker = TokenSampleChecker{}
	}
	return &Router{store: store, generate: generate, checker: checker}
}

// Chat answers a student question scoped to the active topic. The error is
// non-nil only for an unsupported topic or when generation is unavailable;
// out-of-scope questions come back as a refusal Reply, never as an error.
func (r *Router) Chat(ctx context.Context, topic, question string) (Reply, error) {
	key, err := r.store.Resolve(topic)
	if err != nil {
		return Reply{}, err
	}

	if containsAny(strings.ToLower(question), criteriaKeywords) {
		return r.criteriaFlow(key, topic, question), nil
	}
	return r.contentFlow(ctx, key, topic, question)
}

// criteriaFlow answers curriculum-criteria questions deterministically from
// the topic's CriteriaRecord. It never calls the generator: identical input
// produces byte-identical output.
func (r *Router) criteriaFlow(activeKey, topic, question string) Reply {
	questionLower := strings.ToLower(question)

	// A criteria question about some other topic is out of scope here.
	for _, h := range topicHints {
		if !strings.Contains(questionLower, h.hint) {
			continue
		}
		hintKey, err := r.store.Resolve(h.topic)
		if err != nil || hintKey != activeKey {
			return refusal()
		}
	}

	record, ok := r.store.Criteria(topic)
	if !ok {
		return refusal()
	}

	pass, merit, distinction := detectBands(questionLower)
	return Reply{
		Kind:   ReplyCriteria,
		Answer: renderCriteria(record, pass, merit, distinction),
	}
}

// detectBands returns the criteria bands the question asks for, or all
// three when it names none.
func detectBands(questionLower string) (pass, merit, distinction bool) {
	if containsAny(questionLower, []string{"merit", "ميريت"}) {
		merit = true
	}
	if containsAny(questionLower, []string{"distinction", "ديستنكشن"}) {
		distinction = true
	}
	if containsAny(questionLower, []string{"pass", "باس"}) {
		pass = true
	}
	if !pass && !merit && !distinction {
		return true, true, true
	}
	return pass, merit, distinction
}

func renderCriteria(record content.CriteriaRecord, pass, merit, distinction bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "الوحدة: %s\n", record.Unit)
	fmt.Fprintf(&b, "هدف التعلم: %s\n", record.LearningAim)

	writeBand := func(header string, items []string) {
		fmt.Fprintf(&b, "\n%s:\n", header)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	if pass {
		writeBand("Pass", record.Criteria.Pass)
	}
	if merit {
		writeBand("Merit", record.Criteria.Merit)
	}
	if distinction {
		writeBand("Distinction", record.Criteria.Distinction)
	}
	return strings.TrimRight(b.String(), "\n")
}

// contentFlow asks the generator, confined to the topic's context document,
// and post-checks the reply: a self-rejection collapses to the canonical
// refusal, and an answer sharing no vocabulary with the context is treated
// as probable hallucination and refused.
func (r *Router) contentFlow(ctx context.Context, key, topic, question string) (Reply, error) {
	contextDoc := r.store.Context(key)

	answer, err := r.generate.Generate(ctx, contentPrompt(topic, contextDoc, question))
	if err != nil {
		// Distinguishable from a refusal: the service is down, the
		// question was not out of scope.
		return Reply{}, fmt.Errorf("chat generation for %q: %w", topic, err)
	}

	if strings.Contains(answer, RefusalMessage) {
		return refusal(), nil
	}
	if !r.checker.Relevant(contextDoc, answer) {
		return refusal(), nil
	}
	return Reply{Kind: ReplyAnswer, Answer: answer}, nil
}

func contentPrompt(topic, contextDoc, question string) string {
	return fmt.Sprintf(`أنت مدرس BTEC IT صارم جداً.

مهمتك:
- تحديد هل السؤال متعلق بالموضوع أم لا.

القواعد (مهمة جداً):
- إذا كان السؤال غير متعلق بالموضوع التالي:
  "%s"
  يجب أن يكون الرد حرفياً فقط:
  "%s"

- إذا كان السؤال متعلق بالموضوع:
  أجب عليه باستخدام المعلومات من الـ Context فقط.
  لا تضف معلومات من خارج السياق.

قواعد اللغة:
- أجب بالعربية الفصحى المبسطة.
- لا تستخدم الإنجليزية إلا للمصطلحات التقنية فقط.

Context:
%s

سؤال الطالب:
%s`, topic, RefusalMessage, contextDoc, question)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
