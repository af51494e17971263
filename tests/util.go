package testutil

import (
	"context"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
	"github.com/trezcool/sgpa/core/user"
	logsvc "github.com/trezcool/sgpa/services/logger"
)

// NewValidator returns a validator with every custom rule and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	result.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// NewLogger returns a logger discarding its output.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(kitlog.NewNopLogger(), conf)
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
