package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/sgpa/apps/api/echo"
	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
	"github.com/trezcool/sgpa/core/user"
	appfs "github.com/trezcool/sgpa/fs"
	emailsvc "github.com/trezcool/sgpa/services/email"
	inmemdb "github.com/trezcool/sgpa/storage/database/inmem"
	"github.com/trezcool/sgpa/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type extractorMock struct {
	res      result.StudentResult
	subjects []result.Subject
	err      error
}

func (m *extractorMock) ExtractResult(context.Context, result.Document) (result.StudentResult, error) {
	return m.res, m.err
}

func (m *extractorMock) FetchSyllabus(context.Context, result.SyllabusRequest) ([]result.Subject, error) {
	return m.subjects, m.err
}

type testApp struct {
	*echoapi.Server
	conf      *core.Config
	usrRepo   user.Repository
	mailSvc   *emailsvc.ConsoleServiceMock
	extractor *extractorMock
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	// set up repos
	usrRepo := inmemdb.NewUserRepository(inmemdb.Open())

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	extractor := new(extractorMock)
	result.NowFunc = func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { result.NowFunc = time.Now })

	// set up server
	srv := echoapi.NewServer(&echoapi.Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    user.NewService(usrRepo, mailSvc, validate),
		ResultSvc:  result.NewService(extractor, validate, conf),
	})

	return &testApp{
		Server:    srv,
		conf:      conf,
		usrRepo:   usrRepo,
		mailSvc:   mailSvc,
		extractor: extractor,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newUploadRequest(t *testing.T, path, token, filename, contentType string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
		_, _ = part.Write(content)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := app.GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
