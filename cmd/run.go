package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	authadapter "github.com/bnema/pcg-autocatch/internal/adapters/auth"
	"github.com/bnema/pcg-autocatch/internal/adapters/browser/chrome"
	"github.com/bnema/pcg-autocatch/internal/adapters/chat/irc"
	"github.com/bnema/pcg-autocatch/internal/adapters/control/httpapi"
	sqlitejournal "github.com/bnema/pcg-autocatch/internal/adapters/journal/sqlite"
	statusadapter "github.com/bnema/pcg-autocatch/internal/adapters/render/status"
	"github.com/bnema/pcg-autocatch/internal/adapters/signer/hmac"
	"github.com/bnema/pcg-autocatch/internal/adapters/spawnfeed"
	"github.com/bnema/pcg-autocatch/internal/application"
	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const summaryStaleAfter = 30 * time.Minute

type runOptions struct {
	listen   string
	mode     string
	headless bool
}

func newRunCmd(app *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and keep it running until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("listen") {
				opts.listen = app.cfg.GetString(keyControlListen)
			}
			if !cmd.Flags().Changed("mode") {
				opts.mode = app.cfg.GetString(keyBotMode)
			}
			if !cmd.Flags().Changed("headless") {
				opts.headless = app.cfg.GetBool(keyBrowserHead)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runBot(ctx, app, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "Address for the local control API (empty disables it)")
	cmd.Flags().StringVar(&opts.mode, "mode", "active", "Initial bot mode (active|stopped)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Run the browser without a window")

	return cmd
}

func runBot(ctx context.Context, app *app, out io.Writer, opts runOptions) error {
	mode, err := domain.ParseBotMode(opts.mode)
	if err != nil {
		return err
	}

	logger := app.logger
	if err := app.settings.Load(ctx); err != nil {
		return err
	}

	journal, err := sqlitejournal.Open(ctx, app.journalPath)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	browser := chrome.NewSession(chrome.Config{
		ProfileDir: app.cfg.GetString(keyBrowserProfile),
		Headless:   opts.headless,
		Bin:        app.cfg.GetString(keyBrowserBin),
	}, logger)
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn().Err(err).Msg("close browser")
		}
	}()

	var (
		clock     = ports.SystemClock{}
		sleeper   = ports.SystemSleeper{}
		chat      = irc.NewTransport(irc.Config{URL: app.cfg.GetString(keyChatURL)}, logger)
		presenter = statusadapter.NewPresenter(out, app.now)
		signer    = hmac.NewSigner(app.cfg.GetString(keySigningSecret), app.cfg.GetString(keyClientVersion))
	)

	dataSync := application.NewDataSync(browser, signer, presenter, clock, logger, application.DataSyncConfig{
		BaseURL: app.cfg.GetString(keyGameAPIURL),
	})
	browser.OnResponse(application.GameAPIHost, dataSync.Ingest)

	purchaser := application.NewPurchaser(chat, sleeper, rand.Int64N, logger)
	thrower := application.NewThrower(chat, clock, sleeper, rand.Int64N, logger)
	investigator := application.NewInvestigator(
		spawnfeed.NewClient(app.cfg.GetString(keySpawnFeedURL), app.httpClient),
		dataSync,
		application.NewDecisionEngine(purchaser, logger),
		thrower,
		app.settings,
		journal,
		presenter,
		clock,
		sleeper,
		logger,
	)
	identity := application.NewIdentityService(browser, app.secretStore, authadapter.NewGameTokenParser(), clock, sleeper, logger)
	supervisor := application.NewSupervisor(identity, chat, dataSync, investigator, app.settings, presenter, clock, logger, application.SupervisorConfig{
		Mode: mode,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return supervisor.Run(gctx)
	})
	g.Go(func() error {
		return app.settingsRepo.Watch(gctx, logger, func(settings domain.CatchSettings) {
			_ = app.settings.Apply(settings)
		})
	})
	if opts.listen != "" {
		handler := httpapi.NewHandler(httpapi.Deps{
			Controller: supervisor,
			Snapshots:  dataSync,
			Spawns:     investigator,
			Settings:   app.settings,
		}, logger)
		g.Go(func() error {
			return httpapi.Serve(gctx, opts.listen, handler, logger)
		})
	}

	runErr := g.Wait()

	summary, err := statusadapter.RenderSnapshot(dataSync.Snapshot(), statusadapter.RenderOptions{
		Now:        app.now(),
		StaleAfter: summaryStaleAfter,
	})
	if err != nil {
		logger.Debug().Err(err).Msg("render session summary")
	} else {
		_, _ = fmt.Fprint(out, summary)
	}
	return runErr
}
