package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/form"
	emailsvc "github.com/diplomasi/admin/services/email"
	logsvc "github.com/diplomasi/admin/services/logger"
	"github.com/diplomasi/admin/storage/database"
	sqlxrepos "github.com/diplomasi/admin/storage/database/sqlx"
	"github.com/diplomasi/admin/storage/fixtures"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	rollbarLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	rollbarLogger.Enable(!conf.Debug)
	logger = rollbarLogger

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.OpenX(conf)
	errAndDie(err)
	defer db.Close()

	// set up validation
	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)

	src, err := fixtures.NewSource(0)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db: db.DB,
		authSvc: auth.NewService(
			sqlxrepos.NewAccountRepository(db),
			nil, /* policy */
			emailsvc.NewConsoleService(conf, logger),
			conf,
		),
		reducer:  form.NewReducer(validate, translator),
		seeder:   sqlxrepos.NewCatalogSource(db),
		fixtures: src,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
