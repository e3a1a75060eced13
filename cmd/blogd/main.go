package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/cmd/blogd/config"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   blog.RepositoryManager
	auth   blog.Authenticator
	guard  *blog.RouteGuard
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("blogd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		lgr.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	for _, field := range app.Config().GetAuth().UnsafeDefaults {
		lgr.Warn("using built-in default, do not run this in production", "field", field)
	}

	// Startup is fail-fast: an unreachable store or a failed migration
	// kills the process before it accepts traffic.
	if err := withPersistence(ctx, app); err != nil {
		lgr.Error("persistence setup failed", "error", err)
		os.Exit(1)
	}

	if err := withHTTPServer(app); err != nil {
		lgr.Error("http server setup failed", "error", err)
		os.Exit(1)
	}

	registerRoutes(app)

	app.srv.Serve(app.Config().GetServer().Address())

	waitExitSignal()
}

func withPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*blog.User)(nil))
	persistence.RegisterModel((*blog.Post)(nil))

	client, err := persistence.New(app.Config().GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(blog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = blog.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func withHTTPServer(app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv
	return nil
}

func registerRoutes(app *App) {
	authCfg := app.Config().GetAuth()

	provider := blog.NewUserProvider(app.repo.Users()).
		WithLogger(app.GetLogger("auth:prv"))

	authenticator := blog.NewAuthenticator(provider, authCfg).
		WithLogger(app.GetLogger("auth:authn"))
	app.auth = authenticator

	app.guard = blog.NewRouteGuard(authenticator.TokenService(), authCfg).
		WithLogger(app.GetLogger("auth:gate"))

	registry := blog.NewRegisterUserHandler(app.repo)

	r := app.srv.Router()

	blog.RegisterAuthRoutes(r.Group("/auth"), func(ac *blog.AuthController) *blog.AuthController {
		ac.Auther = app.auth
		ac.Registry = registry
		ac.Config = authCfg
		ac.WithLogger(app.GetLogger("auth:ctrl"))
		return ac
	})

	posts := blog.NewPostController(app.repo.Posts(), authCfg.GetContextKey()).
		WithLogger(app.GetLogger("posts"))
	blog.RegisterPostRoutes(r.Group("/blog"), posts, app.guard.Protected())

	users := blog.NewUserController(app.repo.Users(), authCfg.GetContextKey()).
		WithLogger(app.GetLogger("users"))
	blog.RegisterUserRoutes(r.Group("/user"), users, app.guard.Protected(), app.guard.AdminOnly())
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
