// Package content provides read-only access to the curriculum: the topic
// map, per-topic context documents, criteria records and item banks.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedTopic is returned when a topic display name is not in the
// topic map. It is surfaced to the caller, never silently defaulted.
var ErrUnsupportedTopic = errors.New("unsupported topic")

// Store resolves topics and serves curriculum content loaded from a flat
// directory: topics.yaml, <key>.txt context documents, criteria.json,
// exercises.json and quizzes.json. All data is read-only after load except
// the lazily filled context cache.
type Store struct {
	dir       string
	topics    map[string]string // display name -> internal key
	criteria  map[string]CriteriaRecord
	exercises map[string]map[string][]ExerciseItem // topic -> level -> items
	quizzes   map[string]map[string][]QuizItem

	mu       sync.RWMutex
	contexts map[string]string // key -> document text
}

// NewStore loads the curriculum from dir. Missing criteria or bank files
// degrade to empty data with a warning; context documents are read lazily.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		dir:       dir,
		topics:    defaultTopics(),
		criteria:  make(map[string]CriteriaRecord),
		exercises: make(map[string]map[string][]ExerciseItem),
		quizzes:   make(map[string]map[string][]QuizItem),
		contexts:  make(map[string]string),
	}

	if err := s.loadTopics(); err != nil {
		return nil, err
	}
	loadJSON(filepath.Join(dir, "criteria.json"), &s.criteria)
	loadJSON(filepath.Join(dir, "exercises.json"), &s.exercises)
	loadJSON(filepath.Join(dir, "quizzes.json"), &s.quizzes)

	slog.Info("curriculum loaded",
		"dir", dir,
		"topics", len(s.topics),
		"criteria", len(s.criteria),
		"exercise_topics", len(s.exercises),
		"quiz_topics", len(s.quizzes),
	)
	return s, nil
}

func (s *Store) loadTopics() error {
	path := filepath.Join(s.dir, "topics.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("no topics.yaml, using built-in topic map", "path", path)
			return nil
		}
		return fmt.Errorf("reading topic map: %w", err)
	}

	var file topicsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Topics) == 0 {
		return fmt.Errorf("%s defines no topics", path)
	}
	s.topics = file.Topics
	return nil
}

// loadJSON fills dst from an optional JSON document, degrading to empty data
// when the file is absent or malformed.
func loadJSON(path string, dst any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("skipping unreadable curriculum file", "path", path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("skipping invalid curriculum file", "path", path, "error", err)
	}
}

// Resolve maps a topic display name to its internal key.
func (s *Store) Resolve(name string) (string, error) {
	key, ok := s.topics[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTopic, name)
	}
	return key, nil
}

// Topics returns the display names of all supported topics.
func (s *Store) Topics() []string {
	names := make([]string, 0, len(s.topics))
	for name := range s.topics {
		names = append(names, name)
	}
	return names
}

// Context returns the context document for an internal topic key. A missing
// document degrades to an empty string; the generator then simply has no
// ground truth to draw on and the guard rejects everything.
func (s *Store) Context(key string) string {
	s.mu.RLock()
	text, ok := s.contexts[key]
	s.mu.RUnlock()
	if ok {
		return text
	}

	path := filepath.Join(s.dir, key+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("context document missing", "topic_key", key, "path", path)
		data = nil
	}

	s.mu.Lock()
	s.contexts[key] = string(data)
	s.mu.Unlock()
	return string(data)
}

// Criteria returns the criteria record for a topic display name, if any.
func (s *Store) Criteria(topic string) (CriteriaRecord, bool) {
	rec, ok := s.criteria[topic]
	return rec, ok
}

// PickExercise returns a random exercise for the topic and level, falling
// back to the Beginner bucket when the requested level is empty. The second
// return is false when the bank has no items at any usable level.
func (s *Store) PickExercise(topic, level string) (ExerciseItem, bool) {
	items := pickBucket(s.exercises[topic], level)
	if len(items) == 0 {
		return ExerciseItem{}, false
	}
	return items[rand.IntN(len(items))], true
}

// PickQuiz returns a random quiz item for the topic and level with the same
// fallback behaviour as PickExercise.
func (s *Store) PickQuiz(topic, level string) (QuizItem, bool) {
	items := pickBucket(s.quizzes[topic], level)
	if len(items) == 0 {
		return QuizItem{}, false
	}
	return items[rand.IntN(len(items))], true
}

// FindExercise looks up an exercise by id across all levels of a topic.
func (s *Store) FindExercise(topic string, id int) (ExerciseItem, bool) {
	for _, items := range s.exercises[topic] {
		for _, item := range items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return ExerciseItem{}, false
}

// FindQuiz looks up a quiz item by id across all levels of a topic.
func (s *Store) FindQuiz(topic string, id int) (QuizItem, bool) {
	for _, items := range s.quizzes[topic] {
		for _, item := range items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return QuizItem{}, false
}

func pickBucket[T any](buckets map[string][]T, level string) []T {
	if buckets == nil {
		return nil
	}
	if items := buckets[level]; len(items) > 0 {
		return items
	}
	return buckets[DefaultLevel]
}
