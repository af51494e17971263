package result

import (
	"context"
	"math"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/sgpa/core"
)

var (
	// errors
	ErrExtractionDisabled  = errors.New("document extraction is not configured")
	ErrUnreadableDocument  = errors.New("no result could be read from the document")
	ErrEmptyDocument       = errors.New("the document is empty")
	ErrDocumentTooLarge    = errors.New("the document is too large")
	ErrUnsupportedDocument = errors.New("only PDF, PNG, JPEG and WEBP documents are supported")

	supportedMIMETypes = map[string]bool{
		"application/pdf": true,
		"image/png":       true,
		"image/jpeg":      true,
		"image/webp":      true,
	}

	NowFunc = time.Now // mockable
)

// Extractor reads results and syllabi through a document understanding service.
type Extractor interface {
	// ExtractResult reads a marks card. Returned subjects may carry marks, grade points or grade letters.
	ExtractResult(ctx context.Context, doc Document) (StudentResult, error)
	FetchSyllabus(ctx context.Context, req SyllabusRequest) ([]Subject, error)
}

type (
	ServiceInterface interface {
		Calculate(ctx context.Context, entry ManualEntry) (StudentResult, error)
		ParseDocument(ctx context.Context, doc Document) (StudentResult, error)
		FetchSyllabus(ctx context.Context, req SyllabusRequest) ([]Subject, error)
	}

	Service struct {
		extractor     Extractor
		validate      *validator.Validate
		timeout       time.Duration
		maxUploadSize int64
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(extractor Extractor, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		extractor:     extractor,
		validate:      validate,
		timeout:       conf.Extractor.Timeout,
		maxUploadSize: conf.Extractor.MaxUploadSize,
	}
}

// Calculate computes the SGPA of manually entered subjects.
func (svc *Service) Calculate(_ context.Context, entry ManualEntry) (StudentResult, error) {
	if err := entry.Validate(svc.validate); err != nil {
		return StudentResult{}, err
	}
	return StudentResult{
		Name:         entry.Name,
		USN:          entry.USN,
		Semester:     entry.Semester,
		Scheme:       entry.Scheme,
		SGPA:         ComputeSGPA(entry.Subjects),
		TotalCredits: IncludedCredits(entry.Subjects),
		Subjects:     entry.Subjects,
		Date:         NowFunc().UTC().Format(time.RFC3339),
	}, nil
}

// ParseDocument extracts a result from a marks card and recomputes its SGPA and total credits.
func (svc *Service) ParseDocument(ctx context.Context, doc Document) (StudentResult, error) {
	if err := svc.cleanDocument(&doc); err != nil {
		return StudentResult{}, err
	}

	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	res, err := svc.extractor.ExtractResult(ctx, doc)
	if err != nil {
		return StudentResult{}, errors.Wrap(err, "extracting result")
	}
	if len(res.Subjects) == 0 {
		return StudentResult{}, ErrUnreadableDocument
	}
	return normalizeResult(res), nil
}

// FetchSyllabus returns the subjects of a semester.
func (svc *Service) FetchSyllabus(ctx context.Context, req SyllabusRequest) ([]Subject, error) {
	if err := req.Validate(svc.validate); err != nil {
		return nil, err
	}

	ctx, cancel := svc.withTimeout(ctx)
	defer cancel()

	subjects, err := svc.extractor.FetchSyllabus(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching syllabus")
	}

	cleaned := make([]Subject, 0, len(subjects))
	for _, s := range subjects {
		s.Code = core.CleanString(s.Code)
		s.Name = core.CleanString(s.Name)
		if s.Code == "" && s.Name == "" {
			continue
		}
		s.Credits = math.Max(0, s.Credits)
		s.Marks, s.GradePoints, s.GradeLetter = nil, nil, ""
		cleaned = append(cleaned, s)
	}
	return cleaned, nil
}

func (svc *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if svc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, svc.timeout)
}

func (svc *Service) cleanDocument(doc *Document) error {
	fileErr := func(err error) error {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
	}

	if len(doc.Data) == 0 {
		return fileErr(ErrEmptyDocument)
	}
	if svc.maxUploadSize > 0 && int64(len(doc.Data)) > svc.maxUploadSize {
		return fileErr(ErrDocumentTooLarge)
	}

	mimeType, _, err := mime.ParseMediaType(doc.MIMEType)
	if err != nil || mimeType == "" || mimeType == "application/octet-stream" {
		mimeType, _, _ = mime.ParseMediaType(http.DetectContentType(doc.Data))
	}
	if !supportedMIMETypes[mimeType] {
		return fileErr(ErrUnsupportedDocument)
	}
	doc.MIMEType = mimeType
	return nil
}

// normalizeResult fills in missing grade points, then recomputes the totals.
// The reported SGPA is kept only when no subject carries grade data.
func normalizeResult(res StudentResult) StudentResult {
	for i := range res.Subjects {
		s := &res.Subjects[i]
		s.Code = core.CleanString(s.Code)
		s.Name = core.CleanString(s.Name)
		s.GradeLetter = core.CleanString(s.GradeLetter)
		s.Credits = math.Max(0, s.Credits)

		if s.Marks != nil {
			m := clampInt(*s.Marks, 0, 100)
			s.Marks = &m
		}
		switch {
		case s.GradePoints != nil:
			gp := clampFloat(*s.GradePoints, 0, 10)
			s.GradePoints = &gp
		case s.Marks != nil:
			gp := float64(GradePointForMarks(*s.Marks))
			s.GradePoints = &gp
		case s.GradeLetter != "":
			if gp, ok := GradePointForLetter(s.GradeLetter); ok {
				s.GradePoints = &gp
			}
		}
	}

	res.Name = core.CleanString(res.Name)
	res.USN = core.CleanString(res.USN)
	res.TotalCredits = TotalCredits(res.Subjects)
	if IncludedCredits(res.Subjects) > 0 {
		res.SGPA = ComputeSGPA(res.Subjects)
	} else {
		res.SGPA = Round2(clampFloat(res.SGPA, 0, 10))
	}
	res.Date = NowFunc().UTC().Format(time.RFC3339)
	return res
}
