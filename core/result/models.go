package result

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sgpa/core"
)

type Scheme struct {
	Year  string `json:"year"`
	Label string `json:"label"`
}

var (
	Schemes = []Scheme{
		{Year: "2022", Label: "2022 Scheme"},
		{Year: "2021", Label: "2021 Scheme"},
		{Year: "2018", Label: "2018 Scheme"},
		{Year: "2017", Label: "2017 Scheme"},
		{Year: "2015", Label: "2015 Scheme"},
	}

	Branches = []string{
		"Computer Science (CSE)",
		"Information Science (ISE)",
		"Electronics & Comm (ECE)",
		"Mechanical (ME)",
		"Civil (CV)",
		"Artificial Intelligence (AIML)",
	}
)

// Subject is one line of a marks card.
// Either Marks or GradePoints is authoritative; GradePoints wins when both are set.
type Subject struct {
	Code        string   `json:"code" validate:"max=32"`
	Name        string   `json:"name" validate:"max=256"`
	Credits     float64  `json:"credits" validate:"min=0"`
	Marks       *int     `json:"marks,omitempty" validate:"omitempty,min=0,max=100"`
	GradePoints *float64 `json:"grade_points,omitempty" validate:"omitempty,min=0,max=10"`
	GradeLetter string   `json:"grade_letter,omitempty" validate:"max=4"`
}

type StudentResult struct {
	Name         string    `json:"name,omitempty"`
	USN          string    `json:"usn,omitempty"`
	Semester     int       `json:"semester,omitempty"`
	Scheme       string    `json:"scheme,omitempty"`
	SGPA         float64   `json:"sgpa"`
	TotalCredits float64   `json:"total_credits"`
	Subjects     []Subject `json:"subjects"`
	Date         string    `json:"date,omitempty"` // RFC3339, UTC
}

// ManualEntry contains the subjects a student typed in.
type ManualEntry struct {
	Name     string    `json:"name" validate:"max=128"`
	USN      string    `json:"usn" validate:"omitempty,usn"`
	Semester int       `json:"semester" validate:"min=0,max=8"`
	Scheme   string    `json:"scheme" validate:"omitempty,scheme"`
	Subjects []Subject `json:"subjects" validate:"required,min=1,dive"`
}

func (me *ManualEntry) Validate(validate *validator.Validate) error {
	me.Name = core.CleanString(me.Name)
	me.USN = core.CleanString(me.USN)
	me.Scheme = core.CleanString(me.Scheme)
	for i := range me.Subjects {
		me.Subjects[i].Code = core.CleanString(me.Subjects[i].Code)
		me.Subjects[i].Name = core.CleanString(me.Subjects[i].Name)
		me.Subjects[i].GradeLetter = core.CleanString(me.Subjects[i].GradeLetter)
	}
	return validate.Struct(me)
}

type SyllabusRequest struct {
	Scheme   string `json:"scheme" validate:"required,scheme"`
	Branch   string `json:"branch" validate:"required,branch"`
	Semester int    `json:"semester" validate:"required,min=1,max=8"`
}

func (sr *SyllabusRequest) Validate(validate *validator.Validate) error {
	sr.Scheme = core.CleanString(sr.Scheme)
	sr.Branch = core.CleanString(sr.Branch)
	return validate.Struct(sr)
}

// Document is an uploaded marks card (PDF or image), passed as is to the Extractor.
type Document struct {
	Filename string
	MIMEType string
	Data     []byte
}
