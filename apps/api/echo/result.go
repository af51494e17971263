package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"

	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
)

const uploadField = "file"

type resultAPI struct {
	svc result.ServiceInterface
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc result.ServiceInterface) {
	api := resultAPI{svc: svc}

	rg := g.Group("/results")

	// un-authed endpoints
	rg.GET("/schemes", api.schemes)
	rg.GET("/branches", api.branches)

	// authed endpoints
	ag := rg.Group("", jwt)
	ag.POST("/calculate", api.calculate)
	ag.POST("/parse", api.parse)
	ag.POST("/syllabus", api.syllabus)
}

// Handlers

func (api *resultAPI) schemes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, result.Schemes)
}

func (api *resultAPI) branches(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, result.Branches)
}

func (api *resultAPI) calculate(ctx echo.Context) error {
	var data result.ManualEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ManualEntry")
	}

	res, err := api.svc.Calculate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "calculating SGPA")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultAPI) parse(ctx echo.Context) error {
	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		if errors.Cause(err) == http.ErrMissingFile || errors.Cause(err) == http.ErrNotMultipart {
			return core.NewValidationError(err, core.FieldError{Field: uploadField, Error: "this field is required"})
		}
		return errors.Wrap(err, "reading multipart form")
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	res, err := api.svc.ParseDocument(ctx.Request().Context(), result.Document{
		Filename: fh.Filename,
		MIMEType: fh.Header.Get(echo.HeaderContentType),
		Data:     data,
	})
	if err != nil {
		return errors.Wrap(err, "parsing document")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultAPI) syllabus(ctx echo.Context) error {
	var data result.SyllabusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SyllabusRequest")
	}

	subjects, err := api.svc.FetchSyllabus(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "fetching syllabus")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

// bodyLimit formats a request size limit the way middleware.BodyLimit parses it.
func bodyLimit(size int64) string {
	return bytes.Format(size)
}
