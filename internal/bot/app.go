// Package bot wires the Telegram surface of the course registration bot.
package bot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/langsoc/coursebot/core/bootstrap"
	corecmd "github.com/langsoc/coursebot/core/cmd"
	coretelegram "github.com/langsoc/coursebot/core/telegram"
	"github.com/langsoc/coursebot/core/telegram/router"
	"github.com/langsoc/coursebot/core/telegram/state"
	"github.com/langsoc/coursebot/core/telegram/ui"
	"github.com/langsoc/coursebot/internal/config"
	"github.com/langsoc/coursebot/internal/repository/postgres"
	"github.com/langsoc/coursebot/internal/roster"
	"github.com/langsoc/coursebot/internal/service"

	tele "gopkg.in/telebot.v4"
)

// App bundles the services and conversation state behind the bot handlers.
type App struct {
	cfg *config.Config

	catalog   *service.Catalog
	regs      *service.Registration
	broadcast *service.Broadcast
	fsm       state.Manager

	registry *coretelegram.Registry
}

// Bootstrap initializes logging, storage, and services, and prepares the
// handler registry.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}

	var seeders []corebootstrap.Seeder
	if cfg.SeedDemo {
		seeders = append(seeders, corebootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
			return postgres.New(db).SeedDemo(ctx)
		}))
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
		Seeders:  seeders,
	})
	if err != nil {
		return nil, err
	}

	store := postgres.New(res.DB)

	ros, err := roster.New(roster.Options{
		Path:             cfg.Roster.Path,
		Sheet:            cfg.Roster.Sheet,
		StudentIDColumn:  cfg.Roster.StudentIDColumn,
		NationalIDColumn: cfg.Roster.NationalIDColumn,
		FirstNameColumn:  cfg.Roster.FirstNameColumn,
		LastNameColumn:   cfg.Roster.LastNameColumn,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Receipts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("bot: receipts dir: %w", err)
	}

	var fsm state.Manager
	if ttl := cfg.Session.TTLMinutes; ttl > 0 {
		fsm = state.NewMemoryManagerTTL(time.Duration(ttl) * time.Minute)
	} else {
		fsm = state.NewMemoryManager()
	}

	app := &App{
		cfg:       cfg,
		catalog:   service.NewCatalog(store),
		regs:      service.NewRegistration(store, ros),
		broadcast: service.NewBroadcast(store),
		fsm:       fsm,
		registry:  coretelegram.NewRegistry(),
	}

	if err := app.registerFlows(); err != nil {
		return nil, err
	}
	app.registerCommands()
	if err := app.registerCallbacks(); err != nil {
		return nil, err
	}
	app.registerFSMHandlers()

	return app, nil
}

// TelegramRunOptions assembles middlewares and routes for the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	mws := coretelegram.DefaultMiddlewares(&a.cfg.Core, nil)
	mws = append(mws, coretelegram.Middleware{
		Name: "session",
		Use:  state.WithSession(a.fsm),
	})

	routes := []coretelegram.Route{
		router.CallbackRoute(a.registry, router.CallbackOptions{
			NotFound: a.UnknownCallback(),
		}),
	}
	routes = append(routes, router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID:       a.cfg.Core.Telegram.AdminID,
		OnAdminReject: a.adminRejectHandler(),
	})...)
	routes = append(routes, router.TextRoutes(a.fsm, a.registry, router.TextOptions{
		UnknownText: a.UnknownText(),
	})...)
	routes = append(routes, a.photoRoute())
	routes = append(routes, coretelegram.Route{
		Endpoint: tele.OnDocument,
		Handler:  a.UnknownDocument(),
	})

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    a.registry,
		Middlewares: mws,
		Routes:      routes,
	}, nil
}

// photoRoute forwards photos to the conversation manager so receipt
// uploads reach the registration flow. Out-of-flow photos are ignored
// with a hint.
func (a *App) photoRoute() coretelegram.Route {
	handler := func(c tele.Context) error {
		if a.fsm.InProgress(c.Sender().ID) {
			return a.fsm.ManagerHandler(c)
		}
		return c.Send(msgUnexpectedPhoto)
	}
	return coretelegram.Route{
		Endpoint: tele.OnPhoto,
		Handler:  handler,
	}
}

func (a *App) adminRejectHandler() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Send(msgAdminOnly)
	}
}

var _ ui.FallbackProvider = (*App)(nil)

// UnknownText answers free text that no command or flow claimed.
func (a *App) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Send(msgUnknownInput, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
	}
}

// UnknownDocument nudges users who upload a receipt as a file instead
// of a photo.
func (a *App) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		if a.fsm.InProgress(c.Sender().ID) {
			return c.Send(msgReceiptNotPhoto)
		}
		return c.Send(msgUnknownInput, mainMenuMarkup(a.isAdmin(c.Sender().ID)))
	}
}

// UnknownCallback handles presses on buttons from stale messages.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Send(msgUseButtons)
	}
}

func (a *App) isAdmin(userID int64) bool {
	return userID == a.cfg.Core.Telegram.AdminID
}
