package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/appwatch/internal/config"
	"github.com/ayoisaiah/appwatch/internal/models"
	"github.com/ayoisaiah/appwatch/internal/timeutil"
	"github.com/ayoisaiah/appwatch/kakao"
	"github.com/ayoisaiah/appwatch/report"
	"github.com/ayoisaiah/appwatch/scheduler"
	"github.com/ayoisaiah/appwatch/stats"
	"github.com/ayoisaiah/appwatch/store"
	"github.com/ayoisaiah/appwatch/tracker"
)

const (
	envNoColor         = "NO_COLOR"
	envAppwatchNoColor = "APPWATCH_NO_COLOR"
)

const authTimeout = 5 * time.Minute

var (
	errNotAuthorized = errors.New(
		"kakao talk is not authorized yet: run 'appwatch auth' first",
	)

	errMissingAppKey = errors.New(
		"kakao app key is not configured: set kakao.app_key in the config file",
	)

	errInvalidDateRange = errors.New(
		"the end date must not be earlier than the start date",
	)
)

// initLogging routes slog through a size-rotated log file.
func initLogging() {
	writer := &lumberjack.Logger{
		Filename:   config.LogFilePath(),
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(writer, nil)))
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.ConfigFilePath())
}

// newSender builds the messaging client from the persisted configuration,
// writing refreshed credentials back to the config file.
func newSender(cfg *config.Config) *kakao.Sender {
	return kakao.NewSender(
		cfg.Kakao.AppKey,
		cfg.Kakao.RedirectURI,
		models.Credential{
			AccessToken:  cfg.Kakao.AccessToken,
			RefreshToken: cfg.Kakao.RefreshToken,
		},
		kakao.WithPersist(func(cred models.Credential) error {
			return config.SaveCredential(config.ConfigFilePath(), cred)
		}),
	)
}

func newReportJob(
	cfg *config.Config,
	db store.DB,
	sink scheduler.Deliverer,
) *scheduler.ReportJob {
	return &scheduler.ReportJob{
		DB:       db,
		Sink:     sink,
		Renderer: scheduler.NoopRenderer{},
		Opts: scheduler.ReportOpts{
			WindowDays: cfg.Report.WindowDays,
			TopApps:    cfg.Report.TopApps,
			Notify:     cfg.Report.Notify,
		},
	}
}

// defaultAction runs the tracker and the report scheduler until the
// process is interrupted.
func defaultAction(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}
	defer db.Close()

	trk := tracker.New(db, tracker.NewOSSampler(), cfg.Tracking.SampleInterval)

	sched, err := scheduler.ParseSpec(cfg.Report.Schedule)
	if err != nil {
		return err
	}

	job := newReportJob(cfg, db, newSender(cfg))

	s := scheduler.New(&scheduler.Trigger{
		Name:  "weekly-report",
		Sched: sched,
		Job:   job.Run,
	})

	sigCtx, stop := signal.NotifyContext(
		ctx.Context,
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		trk.Run(sigCtx)
	}()

	go func() {
		defer wg.Done()
		s.Run(sigCtx)
	}()

	report.TrackingStarted()
	slog.Info("appwatch started")

	wg.Wait()

	return nil
}

// statsPeriod derives the reporting period from the stats command flags.
func statsPeriod(ctx *cli.Context) (start, end time.Time, err error) {
	now := time.Now()
	end = timeutil.RoundToEnd(now)

	if s := ctx.String("end"); s != "" {
		end, err = timeutil.FromStr(s)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date: %w", err)
		}

		end = timeutil.RoundToEnd(end)
	}

	days := int(ctx.Uint("days"))

	start = timeutil.RoundToStart(end.AddDate(0, 0, -(days - 1)))

	if s := ctx.String("start"); s != "" {
		start, err = timeutil.FromStr(s)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date: %w", err)
		}

		start = timeutil.RoundToStart(start)
	}

	if end.Before(start) {
		return start, end, errInvalidDateRange
	}

	return start, end, nil
}

// statsAction computes the stats for the specified time period.
func statsAction(ctx *cli.Context) error {
	start, end, err := statsPeriod(ctx)
	if err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.GetSessions(start, end)
	if err != nil {
		return err
	}

	s := stats.Compute(sessions, stats.Opts{
		StartTime: start,
		EndTime:   end,
	})

	if ctx.Bool("json") {
		b, err := s.ToJSON()
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	return s.Write(config.Stdout)
}

// reportAction generates and delivers the usage report immediately.
func reportAction(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Kakao.AccessToken == "" && cfg.Kakao.RefreshToken == "" {
		return errNotAuthorized
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}
	defer db.Close()

	job := newReportJob(cfg, db, newSender(cfg))

	if err := job.Run(ctx.Context); err != nil {
		return err
	}

	pterm.Success.Println("usage report delivered")

	return nil
}

// authAction walks through the authorization-code consent flow and
// persists the resulting credential.
func authAction(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Kakao.AppKey == "" {
		return errMissingAppKey
	}

	sender := newSender(cfg)

	pterm.Info.Println("Open the following URL in your browser to authorize appwatch:")
	pterm.Println(sender.AuthorizationURL())

	authCtx, cancel := context.WithTimeout(ctx.Context, authTimeout)
	defer cancel()

	code, err := kakao.CaptureCode(
		authCtx,
		kakao.CallbackPort(cfg.Kakao.RedirectURI),
	)
	if err != nil {
		return fmt.Errorf("waiting for authorization: %w", err)
	}

	if err := sender.ExchangeCode(code); err != nil {
		return err
	}

	pterm.Success.Println("Kakao Talk authorization complete")

	return nil
}

// statusAction prints a summary of today's usage.
func statusAction(_ *cli.Context) error {
	now := time.Now()

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.GetSessions(
		timeutil.RoundToStart(now),
		timeutil.RoundToEnd(now),
	)
	if err != nil {
		return err
	}

	s := stats.Compute(sessions, stats.Opts{
		StartTime: timeutil.RoundToStart(now),
		EndTime:   timeutil.RoundToEnd(now),
	})

	if s.TotalSeconds == 0 {
		pterm.Info.Println("no usage recorded today")
		return nil
	}

	pterm.Info.Printfln(
		"today: %.1f hours across %d apps",
		timeutil.SecondsToHours(s.TotalSeconds),
		s.AppCount,
	)

	return nil
}

func beforeAction(ctx *cli.Context) error {
	config.InitializePaths()

	initLogging()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if APPWATCH_NO_COLOR is set
	if _, exists := os.LookupEnv(envAppwatchNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting appwatch")

	return nil
}
