package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/sgpa/apps/api/echo"
	"github.com/trezcool/sgpa/core/user"
	"github.com/trezcool/sgpa/tests"
)

func TestHome(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to SGPA Calculator API!", rec.Body.String())
}

func TestCORS(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodOptions, "/v1/users/login")
	req.Header.Set("Origin", app.conf.FrontendBaseURL)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, app.conf.FrontendBaseURL, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func Test_userAPI_register(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.usrRepo, "Ravi", "ravi@test.in", "", true)

	body := func(name, email, pwd, confirm string) []byte {
		return marshalObj(t, user.NewUser{Name: name, Email: email, Password: pwd, PasswordConfirm: confirm})
	}

	app.run(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/users/register", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"name":             "this field is required",
				"email":            "this field is required",
				"password":         "this field is required",
				"password_confirm": "this field is required",
			}),
		},
		{
			name: "invalid email", method: http.MethodPost, path: "/v1/users/register",
			body:     body("Asha", "asha@", "Sup3r-Secret", "Sup3r-Secret"),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "weak password", method: http.MethodPost, path: "/v1/users/register",
			body:     body("Asha", "asha@test.in", "12345678", "12345678"),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name: "duplicate email", method: http.MethodPost, path: "/v1/users/register",
			body:     body("Ravi", " RAVI@test.in ", "Sup3r-Secret", "Sup3r-Secret"),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{name: "malformed body", method: http.MethodPost, path: "/v1/users/register", body: []byte(`{`), wantCode: http.StatusBadRequest},
	})
	assert.Empty(t, app.mailSvc.SentMessages())

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body(" Asha K ", "Asha@Test.in", "Sup3r-Secret", "Sup3r-Secret"))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Token string    `json:"token"`
			User  user.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.User.ID)
		assert.Equal(t, "Asha K", resp.User.Name)
		assert.Equal(t, "asha@test.in", resp.User.Email)
		assert.True(t, resp.User.Active())
		assert.NotContains(t, rec.Body.String(), "password")

		sent := app.mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "asha@test.in", sent[0].To[0].Address)
		assert.Equal(t, "Welcome!", sent[0].Subject)
	})
}

func Test_userAPI_login(t *testing.T) {
	app := setup(t)
	pwd := "Sup3r-Secret"
	usr := testutil.CreateUser(t, app.usrRepo, "Asha", "asha@test.in", pwd, true)
	testutil.CreateUser(t, app.usrRepo, "Gone", "gone@test.in", pwd, false)

	failed := marshalObj(t, httpErr{Error: "invalid email or password"})
	app.run(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/users/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/users/login",
			body: marshalObj(t, echoapi.LoginRequest{Email: "nobody@test.in", Password: pwd}), wantCode: http.StatusBadRequest, wantData: failed,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login",
			body: marshalObj(t, echoapi.LoginRequest{Email: "asha@test.in", Password: "nope"}), wantCode: http.StatusBadRequest, wantData: failed,
		},
		{
			name: "inactive user", method: http.MethodPost, path: "/v1/users/login",
			body: marshalObj(t, echoapi.LoginRequest{Email: "gone@test.in", Password: pwd}), wantCode: http.StatusBadRequest, wantData: failed,
		},
	})

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", marshalObj(t, echoapi.LoginRequest{Email: " ASHA@test.in", Password: pwd}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		claims := new(echoapi.Claims)
		_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(app.conf.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, usr.ID, claims.Subject)
		assert.Equal(t, "asha@test.in", claims.Email)

		got, err := app.usrRepo.GetUser(req.Context(), user.GetFilter{ID: usr.ID})
		require.NoError(t, err)
		assert.False(t, got.LastLogin.IsZero())
	})
}

func Test_userAPI_me(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.usrRepo, "Asha", "asha@test.in", "", true)
	inactive := testutil.CreateUser(t, app.usrRepo, "Gone", "gone@test.in", "", false)

	app.run(t, []httpTest{
		{name: "auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "invalid token", path: "/v1/users/me", token: "not-a-jwt", wantCode: http.StatusUnauthorized},
		{name: "unknown user", path: "/v1/users/me", token: app.getToken(t, user.User{ID: "ghost"}), wantCode: http.StatusUnauthorized},
		{name: "inactive user", path: "/v1/users/me", token: app.getToken(t, inactive), wantCode: http.StatusForbidden},
		{name: "success", path: "/v1/users/me", token: app.getToken(t, usr), wantData: marshalObj(t, usr)},
	})
}

func Test_userAPI_refreshToken(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.usrRepo, "Asha", "asha@test.in", "", true)

	sign := func(oriat time.Time) string {
		claims := echoapi.Claims{
			StandardClaims: jwt.StandardClaims{
				Subject:   usr.ID,
				ExpiresAt: time.Now().Add(time.Minute).Unix(),
				IssuedAt:  time.Now().Unix(),
			},
			OrigIssuedAt: oriat.Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.conf.SecretKey))
		require.NoError(t, err)
		return token
	}

	app.run(t, []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/v1/users/token-refresh", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "refresh expired", method: http.MethodPost, path: "/v1/users/token-refresh",
			token:    sign(time.Now().Add(-app.conf.Server.JWTRefreshExpirationDelta - time.Minute)),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "refresh has expired"}),
		},
	})

	t.Run("success", func(t *testing.T) {
		oriat := time.Now().Add(-time.Hour)
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", sign(oriat))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		claims := new(echoapi.Claims)
		_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(app.conf.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, oriat.Unix(), claims.OrigIssuedAt)
		assert.Equal(t, usr.Email, claims.Email)
	})
}
