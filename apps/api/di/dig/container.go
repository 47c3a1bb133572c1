package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/diplomasi/admin/apps/api/echo"
	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/auth"
	"github.com/diplomasi/admin/core/catalog"
	"github.com/diplomasi/admin/core/course"
	"github.com/diplomasi/admin/core/dashboard"
	"github.com/diplomasi/admin/core/platform"
	"github.com/diplomasi/admin/core/user"
	emailsvc "github.com/diplomasi/admin/services/email"
	logsvc "github.com/diplomasi/admin/services/logger"
	"github.com/diplomasi/admin/storage/database"
	dummydb "github.com/diplomasi/admin/storage/database/dummy"
	sqlxrepos "github.com/diplomasi/admin/storage/database/sqlx"
	"github.com/diplomasi/admin/storage/fixtures"
)

const postgresSource = "postgres"

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// SourceCloser releases the connections of the data source.
type SourceCloser func() error

type ServerParams struct {
	dig.In
	Conf         *core.Config
	Logger       core.Logger
	AuthSvc      *auth.Service
	CourseSvc    *course.Service
	CatalogSvc   *catalog.Service
	UserSvc      *user.Service
	DashboardSvc *dashboard.Service
	SettingsSvc  *platform.Service
	Validate     *validator.Validate
	Translator   ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newDatabase opens, creates and migrates the database when DATA_SOURCE=postgres; it returns a nil
// *sqlx.DB when the fixtures are served.
func newDatabase(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, SourceCloser) {
	if conf.Fixtures.DataSource != postgresSource {
		return nil, func() error { return nil }
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.OpenX(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db.Close
}

// newSource returns the catalog records of the database, or the fixtures when there is none.
func newSource(conf *core.Config, db *sqlx.DB, loggerParam DBLoggerParam) catalog.Source {
	if db != nil {
		return sqlxrepos.NewCatalogSource(db)
	}
	src, err := fixtures.NewSource(conf.Fixtures.Delay)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("loading fixtures: %v", err), err)
	}
	return src
}

func newAccountRepository(db *sqlx.DB, store *dummydb.DB) auth.AccountRepository {
	if db != nil {
		return sqlxrepos.NewAccountRepository(db)
	}
	return dummydb.NewAccountRepository(store)
}

// newStore loads the editable state (courses & users) from the data source.
func newStore(src catalog.Source, loggerParam DBLoggerParam) *dummydb.DB {
	db, err := dummydb.Open()
	if err == nil {
		err = db.Load(context.Background(), src)
	}
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("loading store: %v", err), err)
	}
	return db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newSignupPolicy(svc *platform.Service) auth.SignupPolicy { return svc }

func newDashboardService(src catalog.Source, courseSvc *course.Service, catalogSvc *catalog.Service) *dashboard.Service {
	return dashboard.NewService(src, courseSvc, catalogSvc)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		AuthSvc:      p.AuthSvc,
		CourseSvc:    p.CourseSvc,
		CatalogSvc:   p.CatalogSvc,
		UserSvc:      p.UserSvc,
		DashboardSvc: p.DashboardSvc,
		SettingsSvc:  p.SettingsSvc,
		Validate:     p.Validate,
		Translator:   p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDatabase))
	must(c.Provide(newSource))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(dummydb.NewCourseRepository))
	must(c.Provide(dummydb.NewUserRepository))
	must(c.Provide(newAccountRepository))
	must(c.Provide(dummydb.NewSettingsRepository))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(platform.NewService))
	must(c.Provide(newSignupPolicy))
	must(c.Provide(auth.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(catalog.NewService))
	must(c.Provide(user.NewService))
	must(c.Provide(newDashboardService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
