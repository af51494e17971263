package main

import (
	"context"
	"fmt"

	"github.com/trezcool/sgpa/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	rp := user.ResetUserPassword{Email: email, Password: pwd}
	if err := cli.usrSvc.ResetPassword(context.Background(), rp); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "password updated")
	return nil
}
