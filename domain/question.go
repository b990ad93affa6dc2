package domain

// Question is an entry of the fixed questionnaire. Questions are seeded
// once and never changed through the API.
type Question struct {
	ID                   string  `json:"id" bson:"id" dynamo:"id,hash"`
	ProjectStatement     string  `json:"project_statement" bson:"project_statement" dynamo:"project_statement"`
	ProjectDescription   *string `json:"project_description" bson:"project_description" dynamo:"project_description"`
	EvaluatorStatement   string  `json:"evaluator_statement" bson:"evaluator_statement" dynamo:"evaluator_statement"`
	EvaluatorDescription *string `json:"evaluator_description" bson:"evaluator_description" dynamo:"evaluator_description"`
	Section              string  `json:"section" bson:"section" dynamo:"section"`
	Order                int     `json:"order" bson:"order" dynamo:"order"`
}
