package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/form"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type (
	// seeder stores the records of a collection.
	seeder interface {
		Seed(ctx context.Context, collection string, docs []json.RawMessage) error
	}

	// fixtureSet lists the bundled collections and their records.
	fixtureSet interface {
		Collections() []string
		Raw(collection string) ([]json.RawMessage, error)
	}

	commandLine struct {
		db       *sql.DB
		authSvc  *auth.Service
		reducer  *form.Reducer
		seeder   seeder
		fixtures fixtureSet
	}
)

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Println("  seed [-collection NAME] - load the bundled fixtures into the database")
	fmt.Println("  createaccount -name NAME -email EMAIL - create a dashboard account")
	fmt.Println("  resetpassword -email EMAIL - reset an account's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedCollection := seedCmd.String("collection", "", "Only seed this collection.")

	createAccountCmd := flag.NewFlagSet("createaccount", flag.ExitOnError)
	createAccountName := createAccountCmd.String("name", "", "The account's name. The password will be prompted next.")
	createAccountEmail := createAccountCmd.String("email", "", "The account's email.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The account's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedCollection)
	case "createaccount":
		if err := createAccountCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAccountName == "" || *createAccountEmail == "" {
			createAccountCmd.Usage()
			return errHelp
		}
		pwd, confirm, err := promptPassword(true)
		if err != nil {
			return err
		}
		if pwd == "" {
			createAccountCmd.Usage()
			return errHelp
		}
		return cli.createAccount(*createAccountName, *createAccountEmail, pwd, confirm)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, _, err := promptPassword(false)
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

// promptPassword reads the password, and its confirmation when confirm is set.
func promptPassword(confirm bool) (pwd, confirmation string, err error) {
	read := func(prompt string) (string, error) {
		fmt.Print(prompt)
		b, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		return string(b), err
	}

	if pwd, err = read("Enter password:"); err != nil || pwd == "" || !confirm {
		return pwd, pwd, err
	}
	confirmation, err = read("Confirm password:")
	return pwd, confirmation, err
}
