package extractorsvc

import (
	"context"

	"github.com/trezcool/sgpa/core/result"
)

// Disabled is used when no extraction service is configured.
type Disabled struct{}

var _ result.Extractor = Disabled{}

func (Disabled) ExtractResult(context.Context, result.Document) (result.StudentResult, error) {
	return result.StudentResult{}, result.ErrExtractionDisabled
}

func (Disabled) FetchSyllabus(context.Context, result.SyllabusRequest) ([]result.Subject, error) {
	return nil, result.ErrExtractionDisabled
}
