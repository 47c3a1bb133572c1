package main

import (
	"context"

	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/form"
)

// createAccount submits the signup form, so the password rules apply, then creates the account
// whatever the signup policy.
func (cli *commandLine) createAccount(name, email, pwd, confirm string) error {
	state, err := form.New(nil, nil)
	if err != nil {
		return err
	}
	var data auth.SignupData
	if _, err = cli.reducer.Submit(state, form.Values{
		"name":            name,
		"email":           email,
		"password":        pwd,
		"confirmPassword": confirm,
	}, &data); err != nil {
		return err
	}

	_, err = cli.authSvc.CreateAccount(context.Background(), data)
	return err
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.authSvc.SetPassword(context.Background(), email, pwd)
}
