package domain

import "time"

type Evaluation struct {
	ID            string             `json:"id" bson:"id" dynamo:"id,hash"`
	Evaluator     string             `json:"evaluator" bson:"evaluator" dynamo:"evaluator"`
	SubmissionID  string             `json:"submission_id" bson:"submission_id" dynamo:"submission_id"`
	DateCompleted time.Time          `json:"date_completed" bson:"date_completed" dynamo:"date_completed"`
	Score         *float64           `json:"score" bson:"score" dynamo:"score"`
	Answers       []EvaluationAnswer `json:"answers" bson:"answers" dynamo:"answers"`
}

// EvaluationAnswer holds an answer code: "1" agree, "2" disagree,
// "3" neither.
type EvaluationAnswer struct {
	ID         string `json:"id" bson:"id" dynamo:"id"`
	QuestionID string `json:"question_id" bson:"question_id" dynamo:"question_id"`
	Answer     string `json:"answer" bson:"answer" dynamo:"answer"`
}

func (e *Evaluation) AnswerCodes() []string {
	codes := make([]string, 0, len(e.Answers))
	for _, a := range e.Answers {
		codes = append(codes, a.Answer)
	}
	return codes
}
