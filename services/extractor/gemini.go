package extractorsvc

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type (
	subjectPayload struct {
		Code        string   `json:"code"`
		Name        string   `json:"name"`
		Credits     float64  `json:"credits"`
		Marks       *float64 `json:"marks"`
		GradePoints *float64 `json:"grade_points"`
		GradeLetter string   `json:"grade_letter"`
	}

	resultPayload struct {
		Name     string           `json:"name"`
		USN      string           `json:"usn"`
		Semester float64          `json:"semester"`
		SGPA     float64          `json:"sgpa"`
		Subjects []subjectPayload `json:"subjects"`
	}
)

func (p subjectPayload) toSubject() result.Subject {
	s := result.Subject{
		Code:        p.Code,
		Name:        p.Name,
		Credits:     p.Credits,
		GradePoints: p.GradePoints,
		GradeLetter: p.GradeLetter,
	}
	if p.Marks != nil {
		marks := int(math.Round(*p.Marks))
		s.Marks = &marks
	}
	return s
}

// Gemini extracts results and syllabi with the Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
	logger core.Logger
}

var _ result.Extractor = (*Gemini)(nil)

// New returns a Gemini extractor, or a Disabled one when no API key is configured.
func New(ctx context.Context, conf *core.Config, logger core.Logger) (result.Extractor, error) {
	if conf.Extractor.APIKey == "" {
		return Disabled{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.Extractor.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}
	return newGemini(client.Models, conf.Extractor.Model, logger), nil
}

func newGemini(models contentGenerator, model string, logger core.Logger) *Gemini {
	return &Gemini{models: models, model: model, logger: logger}
}

func (g *Gemini) ExtractResult(ctx context.Context, doc result.Document) (result.StudentResult, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: doc.Data, MIMEType: doc.MIMEType}},
			{Text: resultPrompt},
		},
	}}

	var payload resultPayload
	if err := g.generate(ctx, contents, resultSchema, &payload); err != nil {
		return result.StudentResult{}, err
	}

	res := result.StudentResult{
		Name:     payload.Name,
		USN:      payload.USN,
		Semester: int(math.Round(payload.Semester)),
		SGPA:     payload.SGPA,
		Subjects: make([]result.Subject, 0, len(payload.Subjects)),
	}
	for _, s := range payload.Subjects {
		res.Subjects = append(res.Subjects, s.toSubject())
	}
	return res, nil
}

func (g *Gemini) FetchSyllabus(ctx context.Context, req result.SyllabusRequest) ([]result.Subject, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: syllabusPromptFor(req)}},
	}}

	var payload []subjectPayload
	if err := g.generate(ctx, contents, syllabusSchema, &payload); err != nil {
		return nil, err
	}

	subjects := make([]result.Subject, 0, len(payload))
	for _, s := range payload {
		subjects = append(subjects, result.Subject{Code: s.Code, Name: s.Name, Credits: s.Credits})
	}
	return subjects, nil
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, schema *genai.Schema, dest interface{}) error {
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return errors.Wrap(err, "generating content")
	}

	text := responseText(resp)
	if text == "" {
		return result.ErrUnreadableDocument
	}
	if err = json.Unmarshal([]byte(text), dest); err != nil {
		g.logger.Warn("extractor: undecodable response", err, map[string]interface{}{"response": text})
		return errors.Wrap(result.ErrUnreadableDocument, err.Error())
	}
	return nil
}

// responseText joins the text parts of the first candidate, without markdown code fences.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
