package api

import (
	"net/http"
	"strings"

	"codebrush/internal/question"
)

type questionSummary struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Difficulty     question.Difficulty `json:"difficulty"`
	Topics         []question.Topic    `json:"topics"`
	AverageTimeMin int                 `json:"averageTimeMin"`
	TestCaseCount  int                 `json:"testCaseCount"`
}

type questionsResponse struct {
	Questions []questionSummary `json:"questions"`
}

type solutionResponse struct {
	ID       string `json:"id"`
	Solution string `json:"solution"`
}

func (h *handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	query := r.URL.Query()
	filters := question.Filters{
		Difficulty: question.Difficulty(strings.ToLower(strings.TrimSpace(query.Get("difficulty")))),
		Topic:      question.Topic(strings.TrimSpace(query.Get("topic"))),
		Search:     query.Get("q"),
	}
	matches := h.catalog.Filter(filters)
	resp := questionsResponse{Questions: make([]questionSummary, 0, len(matches))}
	for _, q := range matches {
		resp.Questions = append(resp.Questions, questionSummary{
			ID:             q.ID,
			Title:          q.Title,
			Difficulty:     q.Difficulty,
			Topics:         q.Topics,
			AverageTimeMin: q.AverageTimeMin,
			TestCaseCount:  len(q.TestCases),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleQuestionByID(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/questions/")
	id, suffix, _ := strings.Cut(rest, "/")
	id = strings.TrimSpace(id)
	if id == "" {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	q, ok := h.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	switch suffix {
	case "":
		writeJSON(w, http.StatusOK, q)
	case "solution":
		writeJSON(w, http.StatusOK, solutionResponse{ID: q.ID, Solution: q.Solution})
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}
