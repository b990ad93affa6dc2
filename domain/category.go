package domain

import "slices"

type Category struct {
	ID          string   `json:"id" bson:"id" dynamo:"id"`
	Name        string   `json:"name" bson:"name" dynamo:"name"`
	Description *string  `json:"description" bson:"description" dynamo:"description"`
	Slug        string   `json:"slug" bson:"slug" dynamo:"slug,hash"`
	Evaluators  []string `json:"evaluators" bson:"evaluators" dynamo:"evaluators"`
}

// Snapshot returns a copy of the category that shares no memory with c.
// Submissions embed a snapshot, so later edits of the category never reach
// them.
func (c Category) Snapshot() Category {
	cp := c
	cp.Evaluators = slices.Clone(c.Evaluators)
	if c.Description != nil {
		desc := *c.Description
		cp.Description = &desc
	}
	return cp
}

func (c Category) HasEvaluator(address string) bool {
	return slices.Contains(c.Evaluators, address)
}
