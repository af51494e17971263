package di

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/sgpa/apps/api/echo"
	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
	"github.com/trezcool/sgpa/core/user"
	emailsvc "github.com/trezcool/sgpa/services/email"
	extractorsvc "github.com/trezcool/sgpa/services/extractor"
	logsvc "github.com/trezcool/sgpa/services/logger"
	"github.com/trezcool/sgpa/storage/database"
	sqlxrepos "github.com/trezcool/sgpa/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	UserSvc    user.ServiceInterface
	ResultSvc  result.ServiceInterface
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(logsvc.NewSink(os.Stdout, "API"), conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(logsvc.NewSink(os.Stdout, "DB"), conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	db, err := database.Setup(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newUserRepository(db *sqlx.DB) user.Repository {
	return sqlxrepos.NewUserRepository(db)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newExtractor(conf *core.Config, logger core.Logger) (result.Extractor, error) {
	return extractorsvc.New(context.Background(), conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	result.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		UserSvc:    p.UserSvc,
		ResultSvc:  p.ResultSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newUserRepository))
	must(c.Provide(newEmailService))
	must(c.Provide(newExtractor))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService, dig.As(new(user.ServiceInterface))))
	must(c.Provide(result.NewService, dig.As(new(result.ServiceInterface))))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
