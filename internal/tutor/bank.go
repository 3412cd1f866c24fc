package tutor

import (
	"sync"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/content"
)

// generatedIDFloor keeps synthetic ids clear of the authored banks, whose
// ids are small hand-assigned integers.
const generatedIDFloor = 100000

// ephemeralBank holds AI-generated exercise and quiz items for the lifetime
// of the process so they can be evaluated by id like authored ones. Like
// Progress it is deliberately not durable.
type ephemeralBank struct {
	mu        sync.Mutex
	nextID    int
	exercises map[string]map[int]content.ExerciseItem
	quizzes   map[string]map[int]content.QuizItem
}

func newEphemeralBank() *ephemeralBank {
	return &ephemeralBank{
		nextID:    generatedIDFloor,
		exercises: make(map[string]map[int]content.ExerciseItem),
		quizzes:   make(map[string]map[int]content.QuizItem),
	}
}

func (b *ephemeralBank) addExercise(topic string, item content.ExerciseItem) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	item.ID = b.nextID
	b.nextID++
	if b.exercises[topic] == nil {
		b.exercises[topic] = make(map[int]content.ExerciseItem)
	}
	b.exercises[topic][item.ID] = item
	return item.ID
}

func (b *ephemeralBank) addQuiz(topic string, item content.QuizItem) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	item.ID = b.nextID
	b.nextID++
	if b.quizzes[topic] == nil {
		b.quizzes[topic] = make(map[int]content.QuizItem)
	}
	b.quizzes[topic][item.ID] = item
	return item.ID
}

func (b *ephemeralBank) findExercise(topic string, id int) (content.ExerciseItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.exercises[topic][id]
	return item, ok
}

func (b *ephemeralBank) findQuiz(topic string, id int) (content.QuizItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.quizzes[topic][id]
	return item, ok
}
