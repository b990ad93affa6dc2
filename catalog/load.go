package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gapeval/backend/domain"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

type questionRecord struct {
	ID                   string  `json:"id" toml:"id"`
	ProjectStatement     string  `json:"project_statement" toml:"project_statement"`
	ProjectDescription   *string `json:"project_description" toml:"project_description"`
	EvaluatorStatement   string  `json:"evaluator_statement" toml:"evaluator_statement"`
	EvaluatorDescription *string `json:"evaluator_description" toml:"evaluator_description"`
	Section              string  `json:"section" toml:"section"`
	Order                int     `json:"order" toml:"order"`
}

type tomlDataset struct {
	Questions []questionRecord `toml:"questions"`
}

// LoadFile reads a questionnaire from a .json file (an array of questions)
// or a .toml file (a [[questions]] table array). Questions without an id
// get a fresh one.
func LoadFile(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	var records []questionRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".toml":
		var ds tomlDataset
		err = toml.Unmarshal(data, &ds)
		records = ds.Questions
	default:
		return nil, fmt.Errorf("unsupported questions file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	qs := make([]domain.Question, 0, len(records))
	for i, r := range records {
		if r.ProjectStatement == "" || r.EvaluatorStatement == "" || r.Section == "" {
			return nil, fmt.Errorf("question %d in %s: statements and section are required", i, path)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		qs = append(qs, domain.Question{
			ID:                   r.ID,
			ProjectStatement:     r.ProjectStatement,
			ProjectDescription:   r.ProjectDescription,
			EvaluatorStatement:   r.EvaluatorStatement,
			EvaluatorDescription: r.EvaluatorDescription,
			Section:              r.Section,
			Order:                r.Order,
		})
	}
	return qs, nil
}
