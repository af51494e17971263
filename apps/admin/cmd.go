package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/sgpa/core/result"
	"github.com/trezcool/sgpa/core/user"
	"github.com/trezcool/sgpa/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword      // mockable
	migrateFunc      = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	// connect sets db and usrSvc up; nil when they are already set.
	connect   func(cli *commandLine) error
	db        *sqlx.DB
	usrSvc    user.ServiceInterface
	resultSvc result.ServiceInterface
	out       io.Writer
}

// connectDB runs connect once, on the first command needing the database.
func (cli *commandLine) connectDB() error {
	if cli.connect == nil {
		return nil
	}
	connect := cli.connect
	cli.connect = nil
	return connect(cli)
}

func (cli *commandLine) close() error {
	if cli.db == nil {
		return nil
	}
	return cli.db.Close()
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL - create or update an active user")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  calc -file FILE - compute the SGPA of the subjects in a JSON file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	calcCmd := flag.NewFlagSet("calc", flag.ExitOnError)
	calcFile := calcCmd.String("file", "", "A JSON file holding a manual entry or a list of subjects.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		if err := cli.connectDB(); err != nil {
			return err
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		if err := cli.connectDB(); err != nil {
			return err
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if err := cli.connectDB(); err != nil {
			return err
		}
		return migrateFunc(cli.db, args[2], args[3:]...)
	case "calc":
		if err := calcCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *calcFile == "" {
			calcCmd.Usage()
			return errHelp
		}
		return cli.calc(*calcFile)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
