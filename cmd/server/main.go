package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/customer-auth"
	"github.com/goliatone/customer-auth/cmd/server/config"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   auth.RepositoryManager
	auther *auth.Auther
	otp    *memoryOTPStore
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
		glog.WithLevel(glog.Trace),
		glog.WithName("customer-auth"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetApp().GetDebug() {
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.Config().GetDatabase().GetDSN())
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "database unreachable")
	}

	if err := auth.RunMigrations(ctx, db); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = auth.NewRepositoryManager(db)

	return app.repo.Validate()
}

func WithAuth(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	directory := auth.NewDirectory(app.repo.Users(), app.GetLogger("auth:directory"))

	app.otp = newMemoryOTPStore(
		time.Duration(acfg.GetOTPTTLMinutes())*time.Minute,
		app.GetLogger("auth:otp"),
	)

	// verifier order is the authentication chain order: password, then OTP
	app.auther = auth.NewAuthenticator(acfg,
		auth.NewPasswordVerifier(directory).WithLogger(app.GetLogger("auth:password")),
		auth.NewOTPCredentialVerifier(directory, app.otp).WithLogger(app.GetLogger("auth:otp")),
	).WithLogger(app.GetLogger("auth"))

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       app.Config().GetApp().GetName(),
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	entry := auth.NewEntryPoint(app.GetLogger("auth:entry"))
	policy := auth.DefaultAccessPolicy()

	srv.Router().Use(auth.TokenFilter(auth.FilterConfig{
		Validator:  app.auther.TokenService(),
		ContextKey: app.Config().GetAuth().GetContextKey(),
		Logger:     app.GetLogger("auth:filter"),
	}))
	srv.Router().Use(auth.RequireAccess(policy, entry))

	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithAuther(app.auther),
		auth.WithControllerLogger(app.GetLogger("auth:http")),
	)

	RegisterOTPRequestRoute(app, srv)
	RegisterProfileRoutes(app, srv)

	app.srv = srv

	return nil
}

// RegisterOTPRequestRoute mounts the passcode request endpoint. It always
// answers 202 so callers cannot probe which identifiers exist.
func RegisterOTPRequestRoute(app *App, srv router.Server[*fiber.App]) {
	logger := app.GetLogger("auth:otp")
	directory := auth.NewDirectory(app.repo.Users(), logger)

	srv.Router().Post("/api/v2/auth/otp/request", func(ctx router.Context) error {
		payload := struct {
			Phone string `form:"phone" json:"phone"`
			Email string `form:"email" json:"email"`
		}{}

		if err := ctx.Bind(&payload); err != nil {
			return ctx.Status(http.StatusBadRequest).SendString("invalid payload")
		}

		identifier := payload.Phone
		if identifier == "" {
			identifier = payload.Email
		}

		identity, err := directory.FindByIdentifier(ctx.Context(), identifier)
		if err == nil {
			if code, err := app.otp.Issue(identity.ID()); err == nil {
				// stand-in for an SMS gateway
				logger.Info("issued passcode", "user_id", identity.ID(), "code", code)
			}
		}

		return ctx.JSON(http.StatusAccepted, map[string]any{
			"status": http.StatusAccepted,
		})
	}).SetName("auth.v2.otp-request")
}

func RegisterProfileRoutes(app *App, srv router.Server[*fiber.App]) {
	srv.Router().Get("/api/v1/me", func(ctx router.Context) error {
		claims, ok := auth.GetRouterClaims(ctx, app.Config().GetAuth().GetContextKey())
		if !ok {
			// unreachable behind the access policy, kept as a guard
			return ctx.Status(http.StatusUnauthorized).SendString("unauthenticated")
		}

		user, err := app.repo.Users().GetByIdentifier(ctx.Context(), claims.UserID())
		if err != nil {
			return ctx.Status(http.StatusNotFound).SendString("account not found")
		}

		return ctx.JSON(http.StatusOK, user)
	}).SetName("me.get")
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
