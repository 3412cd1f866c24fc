package content

// DefaultLevel is the bank bucket used when a requested level has no items.
const DefaultLevel = "Beginner"

// CriteriaRecord holds the assessment criteria for one curriculum unit.
type CriteriaRecord struct {
	Unit        string        `json:"unit"`
	LearningAim string        `json:"learning_aim"`
	Criteria    CriteriaBands `json:"criteria"`
}

// CriteriaBands groups criteria by Pass/Merit/Distinction band.
type CriteriaBands struct {
	Pass        []string `json:"P"`
	Merit       []string `json:"M"`
	Distinction []string `json:"D"`
}

// ExerciseItem is a pre-authored free-text exercise.
type ExerciseItem struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	ExpectedPoints []string `json:"expected_points"`
	Level          string   `json:"level"`
}

// QuizItem is a pre-authored multiple-choice question with exactly four
// options and the authored rationale for the correct one.
type QuizItem struct {
	ID           int      `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explain      string   `json:"explain"`
}

// topicsFile is the on-disk shape of topics.yaml.
type topicsFile struct {
	Topics map[string]string `yaml:"topics"`
}

// defaultTopics is the built-in topic map used when no topics.yaml exists.
// Display names must match the frontend exactly, including capitalisation.
func defaultTopics() map[string]string {
	return map[string]string{
		"Event-Driven Programming":    "event_driven",
		"Object-Oriented Programming": "oop",
		"OOP":                         "oop",
		"Procedural Programming":      "procedural",
	}
}
