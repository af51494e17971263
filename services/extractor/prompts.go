package extractorsvc

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/trezcool/sgpa/core/result"
)

const resultPrompt = `Analyze this VTU result document (or marks card).
Extract the following information:
1. Student Name (if visible, else empty)
2. USN (University Seat Number) (if visible, else empty)
3. Semester (number)
4. List of subjects with their Codes, Names, Credits, Marks (if shown), Grade Letter (if shown) and Grade Points obtained.

If the document shows Marks (e.g., 85) but not Grade Points, calculate Grade Points based on VTU 2018/2021 standard:
90-100=10, 80-89=9, 70-79=8, 60-69=7, 50-59=6, 45-49=5, 40-44=4, <40=0.

If the document shows Grade Letter (S, A, B, etc.), map to:
O/S+=10, S/A+=9, A=8, B=7, C=6, D=5, E=4, F=0.

Calculate the SGPA if not explicitly present.`

const syllabusPrompt = `Act as a database for Visvesvaraya Technological University (VTU).
Provide the list of subjects for the %s branch, semester %d, under the %s.

Return a JSON array where each object represents a subject with:
- 'code' (string): Subject code (e.g., 18CS51)
- 'name' (string): Subject name
- 'credits' (number): Number of credits (Usually 1, 2, 3, or 4)

Do not include electives unless they are common core. Provide roughly 6-9 subjects common for this semester.`

func syllabusPromptFor(req result.SyllabusRequest) string {
	scheme := req.Scheme
	for _, s := range result.Schemes {
		if s.Year == req.Scheme || s.Label == req.Scheme {
			scheme = s.Label
			break
		}
	}
	return fmt.Sprintf(syllabusPrompt, req.Branch, req.Semester, scheme)
}

var (
	syllabusSchema = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"code":    {Type: genai.TypeString},
				"name":    {Type: genai.TypeString},
				"credits": {Type: genai.TypeNumber},
			},
			Required: []string{"code", "name", "credits"},
		},
	}

	resultSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString},
			"usn":      {Type: genai.TypeString},
			"semester": {Type: genai.TypeNumber},
			"sgpa":     {Type: genai.TypeNumber},
			"subjects": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"code":         {Type: genai.TypeString},
						"name":         {Type: genai.TypeString},
						"credits":      {Type: genai.TypeNumber},
						"marks":        {Type: genai.TypeNumber},
						"grade_points": {Type: genai.TypeNumber},
						"grade_letter": {Type: genai.TypeString},
					},
					Required: []string{"code", "credits", "grade_points"},
				},
			},
		},
		Required: []string{"sgpa", "subjects"},
	}
)
