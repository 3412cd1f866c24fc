package eval

// QuizResult is the outcome of scoring a multiple-choice answer.
// StudentChoice and CorrectAnswer hold the literal option texts; an
// out-of-range index leaves the corresponding field nil (JSON null).
type QuizResult struct {
	Score          int     `json:"score_5"`
	IsCorrect      bool    `json:"is_correct"`
	StudentChoice  *string `json:"student_choice"`
	CorrectAnswer  *string `json:"correct_answer"`
	FeedbackSymbol string  `json:"feedback_symbol"`
	Explanation    string  `json:"explanation"`
}

// EvaluateQuiz scores a multiple-choice answer by strict index equality.
// On a wrong answer the explanation leads with the correct option's text
// before the authored rationale, so the student sees the right answer even
// when the rationale alone does not repeat it.
func EvaluateQuiz(options []string, choiceIndex, correctIndex int, explain string) QuizResult {
	isCorrect := choiceIndex == correctIndex

	result := QuizResult{
		IsCorrect:     isCorrect,
		StudentChoice: optionText(options, choiceIndex),
		CorrectAnswer: optionText(options, correctIndex),
	}

	if isCorrect {
		result.Score = 5
		result.FeedbackSymbol = "✅"
		result.Explanation = explain
		return result
	}

	result.Score = 0
	result.FeedbackSymbol = "❌"
	if result.CorrectAnswer != nil {
		result.Explanation = "الإجابة الصحيحة هي: " + *result.CorrectAnswer
		if explain != "" {
			result.Explanation += "\n" + explain
		}
	} else {
		result.Explanation = explain
	}
	return result
}

func optionText(options []string, index int) *string {
	if index < 0 || index >= len(options) {
		return nil
	}
	text := options[index]
	return &text
}
