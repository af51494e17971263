package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
	"github.com/trezcool/sgpa/core/user"
	emailsvc "github.com/trezcool/sgpa/services/email"
	extractorsvc "github.com/trezcool/sgpa/services/extractor"
	"github.com/trezcool/sgpa/storage/database"
	inmemdb "github.com/trezcool/sgpa/storage/database/inmem"
	"github.com/trezcool/sgpa/tests"
)

func setup(t *testing.T) (*commandLine, user.Repository, *bytes.Buffer) {
	t.Helper()
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)
	validate, _ := testutil.NewValidator()
	usrRepo := inmemdb.NewUserRepository(inmemdb.Open())
	out := new(bytes.Buffer)

	cli := &commandLine{
		usrSvc:    user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf, logger), validate),
		resultSvc: result.NewService(extractorsvc.Disabled{}, validate, conf),
		out:       out,
	}
	return cli, usrRepo, out
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, errors.Cause(err))
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, out := setup(t)
	for _, args := range [][]string{{"admin"}, {"admin", "lol"}} {
		out.Reset()
		assert.Equal(t, errHelp, cli.run(args))
		assert.Contains(t, out.String(), "Usage:")
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	var gotCommand string
	migrateFunc = func(db *sqlx.DB, command string, args ...string) error {
		gotCommand = command
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}
	t.Cleanup(func() { migrateFunc = database.RunMigrations })

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
			if len(tt.args) > 1 {
				assert.Equal(t, tt.args[1], gotCommand)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo, _ := setup(t)
	existing := testutil.CreateUser(t, usrRepo, "Old Name", "ravi@test.in", "Old-Passw0rd", false)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "asha@test.in"}, wantErr: errHelp},
		{
			name: "invalid email", args: []string{"adduser", "-email", "asha@"}, pwd: "Sup3r-Secret",
			wantErrStr: "email: invalid email",
		},
		{
			name: "weak password", args: []string{"adduser", "-email", "asha@test.in"}, pwd: "short",
			wantErrStr: "password: password must contain at least 8 characters",
		},
		{name: "create", args: []string{"adduser", "-name", "Asha", "-email", "ASHA@test.in"}, pwd: "Sup3r-Secret"},
		{name: "update", args: []string{"adduser", "-name", "Ravi", "-email", "ravi@test.in"}, pwd: "Sup3r-Secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	ctx := context.Background()
	created, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "asha@test.in"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", created.Name)
	assert.True(t, created.Active())
	assert.NoError(t, created.CheckPassword("Sup3r-Secret"))

	updated, err := usrRepo.GetUser(ctx, user.GetFilter{ID: existing.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", updated.Name)
	assert.True(t, updated.Active())
	assert.NoError(t, updated.CheckPassword("Sup3r-Secret"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo, _ := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Asha", "asha@test.in", "Old-Passw0rd", true)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "asha@test.in"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "nobody@test.in"}, pwd: "Sup3r-Secret", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", " ASHA@test.in"}, pwd: "Sup3r-Secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))
		})
	}

	refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("Sup3r-Secret"))
}

func Test_commandLine_calc(t *testing.T) {
	cli, _, out := setup(t)
	dir := t.TempDir()
	write := func(name, content string) string {
		fp := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fp, []byte(content), 0o600))
		return fp
	}

	list := write("list.json", `[
		{"code": "21CS51", "credits": 4, "marks": 95},
		{"code": "21CS52", "credits": 3, "marks": 85},
		{"code": "21CS53", "credits": 3, "grade_points": 10}
	]`)
	entry := write("entry.json", `{"name": "Asha", "subjects": [{"credits": 4, "marks": 72}, {"credits": 2}]}`)
	invalid := write("invalid.json", `{"subjects": [{"credits": 4, "marks": 120}]}`)
	garbage := write("garbage.json", `{`)

	t.Run("no args", func(t *testing.T) {
		assert.Equal(t, errHelp, cli.run([]string{"admin", "calc"}))
	})
	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, cli.run([]string{"admin", "calc", "-file", filepath.Join(dir, "nope.json")}))
	})
	t.Run("garbage", func(t *testing.T) {
		assert.Error(t, cli.run([]string{"admin", "calc", "-file", garbage}))
	})
	t.Run("invalid", func(t *testing.T) {
		assert.Error(t, cli.run([]string{"admin", "calc", "-file", invalid}))
	})
	t.Run("list", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "calc", "-file", list}))
		assert.Contains(t, out.String(), `"sgpa": 9.7`)
		assert.Contains(t, out.String(), `"total_credits": 10`)
	})
	t.Run("entry", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "calc", "-file", entry}))
		assert.Contains(t, out.String(), `"name": "Asha"`)
		assert.Contains(t, out.String(), `"sgpa": 8`)
		assert.Contains(t, out.String(), `"total_credits": 4`)
	})
}

func Test_commandLine_connectDB(t *testing.T) {
	cli, _, out := setup(t)
	errDBDown := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	var connects int
	cli.connect = func(*commandLine) error {
		connects++
		return errDBDown
	}

	list := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(list, []byte(`[{"code": "21CS51", "credits": 4, "marks": 72}]`), 0o600))

	t.Run("calc runs offline", func(t *testing.T) {
		require.NoError(t, cli.run([]string{"admin", "calc", "-file", list}))
		assert.Contains(t, out.String(), `"sgpa": 8`)
		assert.Nil(t, cli.db)
		assert.Equal(t, 0, connects)
		assert.NoError(t, cli.close())
	})
	t.Run("adduser needs the database", func(t *testing.T) {
		mockPassword(t, "Sup3r-Secret")
		err := cli.run([]string{"admin", "adduser", "-email", "asha@test.in"})
		assert.Equal(t, errDBDown, err)
		assert.Equal(t, 1, connects)
	})
}
