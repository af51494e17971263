package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/result"
	"github.com/trezcool/sgpa/core/user"
	emailsvc "github.com/trezcool/sgpa/services/email"
	extractorsvc "github.com/trezcool/sgpa/services/extractor"
	logsvc "github.com/trezcool/sgpa/services/logger"
	"github.com/trezcool/sgpa/storage/database"
	sqlxrepos "github.com/trezcool/sgpa/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewSink(os.Stderr, "ADMIN"), conf)

	// set up services
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	result.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	extractor, err := extractorsvc.New(context.Background(), conf, logger)
	errAndDie(logger, err)

	// start CLI; the DB is set up by the commands using it
	cli := commandLine{
		connect: func(cli *commandLine) error {
			if err := database.CreateIfNotExist(conf); err != nil {
				return err
			}
			db, err := database.Open(conf)
			if err != nil {
				return err
			}
			if err := db.Ping(); err != nil {
				_ = db.Close()
				return err
			}
			cli.db = db
			cli.usrSvc = user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleService(conf, logger), validate)
			return nil
		},
		resultSvc: result.NewService(extractor, validate, conf),
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	_ = cli.close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("%s: %v", os.Args[1], err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
