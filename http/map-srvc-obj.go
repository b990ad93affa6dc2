package http

import (
	"github.com/gapeval/backend/domain"
	"github.com/gapeval/backend/subm"
)

func mapQuestion(q domain.Question) Question {
	return Question{
		ID:                   q.ID,
		ProjectStatement:     q.ProjectStatement,
		ProjectDescription:   q.ProjectDescription,
		EvaluatorStatement:   q.EvaluatorStatement,
		EvaluatorDescription: q.EvaluatorDescription,
		Section:              q.Section,
		Order:                q.Order,
	}
}

func mapQuestions(qs []domain.Question) []Question {
	res := make([]Question, 0, len(qs))
	for _, q := range qs {
		res = append(res, mapQuestion(q))
	}
	return res
}

func mapCategory(c domain.Category) Category {
	evaluators := c.Evaluators
	if evaluators == nil {
		evaluators = []string{}
	}
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Slug:        c.Slug,
		Evaluators:  evaluators,
	}
}

func mapCategories(cs []domain.Category) []Category {
	res := make([]Category, 0, len(cs))
	for _, c := range cs {
		res = append(res, mapCategory(c))
	}
	return res
}

func mapAnswers(answers []subm.AnsweredQuestion) []Answer {
	res := make([]Answer, 0, len(answers))
	for _, a := range answers {
		res = append(res, Answer{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			Question:   mapQuestion(a.Question),
		})
	}
	return res
}

// mapSubmissionSummary takes the category separately since summaries are
// listed under the category that was requested.
func mapSubmissionSummary(s subm.SubmissionSummary, c domain.Category) SubmissionSummary {
	return SubmissionSummary{
		ID:                 s.ID,
		ProjectID:          s.ProjectID,
		ProjectName:        s.ProjectName,
		KarmaGapID:         s.KarmaGapID,
		Owner:              s.Owner,
		DateCompleted:      s.DateCompleted,
		Score:              s.Score,
		Category:           mapCategory(c),
		LastEvaluationDate: s.LastEvaluationDate,
		EvaluationCount:    s.EvaluationCount,
	}
}

func mapSubmission(s *subm.SubmissionView) Submission {
	return Submission{
		SubmissionSummary: SubmissionSummary{
			ID:                 s.ID,
			ProjectID:          s.ProjectID,
			ProjectName:        s.ProjectName,
			KarmaGapID:         s.KarmaGapID,
			Owner:              s.Owner,
			DateCompleted:      s.DateCompleted,
			Score:              s.Score,
			Category:           mapCategory(s.Category),
			LastEvaluationDate: s.LastEvaluationDate,
			EvaluationCount:    s.EvaluationCount,
		},
		Answers:   mapAnswers(s.Answers),
		KarmaData: s.KarmaData,
	}
}

func mapEvaluation(e *subm.EvaluationView) Evaluation {
	return Evaluation{
		ID:            e.ID,
		Evaluator:     e.Evaluator,
		SubmissionID:  e.SubmissionID,
		DateCompleted: e.DateCompleted,
		Score:         e.Score,
		Answers:       mapAnswers(e.Answers),
	}
}
