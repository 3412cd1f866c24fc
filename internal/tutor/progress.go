package tutor

import "sync"

// Failure records the most recent below-pass exercise for a topic: which
// item it was and which expected points the answer missed. The remedial
// tutor and AI exercise generation focus on these points.
type Failure struct {
	ItemID        int
	MissingPoints []string
}

// Progress holds per-topic student state in process memory. It is ephemeral
// by design: a restart resets all history. Mutation is topic-keyed and
// guarded so concurrent evaluations of the same topic cannot lose updates.
type Progress struct {
	mu       sync.Mutex
	failures map[string]Failure
}

// NewProgress creates an empty progress store.
func NewProgress() *Progress {
	return &Progress{failures: make(map[string]Failure)}
}

// Record stores the latest failure for a topic, replacing any earlier one.
func (p *Progress) Record(topic string, f Failure) {
	p.mu.Lock()
	p.failures[topic] = f
	p.mu.Unlock()
}

// Clear removes the stored failure after a passing answer.
func (p *Progress) Clear(topic string) {
	p.mu.Lock()
	delete(p.failures, topic)
	p.mu.Unlock()
}

// Last returns the stored failure for a topic, if any.
func (p *Progress) Last(topic string) (Failure, bool) {
	p.mu.Lock()
	f, ok := p.failures[topic]
	p.mu.Unlock()
	return f, ok
}
