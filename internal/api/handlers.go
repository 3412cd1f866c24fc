package api

import (
	"net/http"

	"github.com/fabuabedbl-oss/askora-ai-service/internal/eval"
	"github.com/fabuabedbl-oss/askora-ai-service/internal/tutor"
)

// Request bodies keep the field names the frontend has always sent.

type topicRequest struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
	UseAI bool   `json:"use_ai"`
}

type exerciseEvalRequest struct {
	Topic         string `json:"topic"`
	ExerciseID    int    `json:"exercise_id"`
	StudentAnswer string `json:"student_answer"`
}

type quizEvalRequest struct {
	Topic              string `json:"topic"`
	QuizID             int    `json:"quiz_id"`
	StudentChoiceIndex int    `json:"student_choice_index"`
}

type chatRequest struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
}

type levelRequest struct {
	Scores []float64 `json:"scores"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// exerciseEvalResponse flattens the evaluation result next to the outcome
// tag, matching the shape the original service returned.
type exerciseEvalResponse struct {
	Status string `json:"status"`
	eval.ExerciseResult
	Feedback string              `json:"feedback"`
	Tutor    *tutor.TutorMessage `json:"tutor,omitempty"`
}

type quizEvalResponse struct {
	Status string `json:"status"`
	eval.QuizResult
}

type levelResponse struct {
	AverageScore float64 `json:"average_score"`
	Level        string  `json:"level"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}

	answer, err := s.svc.Explain(r.Context(), req.Topic, req.Level)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}

	payload, err := s.svc.Exercise(r.Context(), req.Topic, req.Level, req.UseAI)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleExerciseEvaluate(w http.ResponseWriter, r *http.Request) {
	var req exerciseEvalRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := s.svc.EvaluateExercise(r.Context(), req.Topic, req.ExerciseID, req.StudentAnswer)
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Status != tutor.StatusScored {
		writeJSON(w, http.StatusOK, map[string]string{"status": out.Status})
		return
	}
	writeJSON(w, http.StatusOK, exerciseEvalResponse{
		Status:         out.Status,
		ExerciseResult: out.Result,
		Feedback:       out.Feedback,
		Tutor:          out.Tutor,
	})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}

	payload, err := s.svc.Quiz(r.Context(), req.Topic, req.Level, req.UseAI)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleQuizEvaluate(w http.ResponseWriter, r *http.Request) {
	var req quizEvalRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := s.svc.EvaluateQuiz(req.Topic, req.QuizID, req.StudentChoiceIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	if out.Status != tutor.StatusScored {
		writeJSON(w, http.StatusOK, map[string]string{"status": out.Status})
		return
	}
	writeJSON(w, http.StatusOK, quizEvalResponse{Status: out.Status, QuizResult: out.Result})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}

	answer, err := s.svc.Chat(r.Context(), req.Topic, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

func (s *Server) handleStudentLevel(w http.ResponseWriter, r *http.Request) {
	var req levelRequest
	if !decode(w, r, &req) {
		return
	}

	avg, level := s.svc.StudentLevel(req.Scores)
	writeJSON(w, http.StatusOK, levelResponse{AverageScore: avg, Level: level})
}
