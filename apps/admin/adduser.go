package main

import (
	"context"
	"fmt"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(name, email, pwd string) error {
	usr, err := cli.usrSvc.AddUser(context.Background(), name, email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s <%s> saved\n", usr.ID, usr.Email)
	return nil
}
