package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	gstorage "cloud.google.com/go/storage"
	"github.com/kawabatas/prompt-deploy/internal/app/cli"
	"github.com/kawabatas/prompt-deploy/internal/app/usecase"
	"github.com/kawabatas/prompt-deploy/internal/domain/repository"
	"github.com/kawabatas/prompt-deploy/internal/infra/config"
	"github.com/kawabatas/prompt-deploy/internal/infra/datastore"
	"github.com/kawabatas/prompt-deploy/internal/infra/locking"
	"github.com/kawabatas/prompt-deploy/internal/infra/platform/logger"
	"github.com/kawabatas/prompt-deploy/internal/infra/runner"
	storageif "github.com/kawabatas/prompt-deploy/internal/infra/storage"
	gcsstore "github.com/kawabatas/prompt-deploy/internal/infra/storage/gcs"
	localstore "github.com/kawabatas/prompt-deploy/internal/infra/storage/local"
)

func main() {
	cfg := config.NewFromEnv()
	lvl := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(cfg.LogProvider, lvl)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ストアクライアントはここで一度だけ生成し、各サービスへ注入する
	var objStore storageif.ObjectStore
	switch cfg.StorageProvider {
	case "gcs":
		if cfg.Bucket == "" {
			fmt.Fprintln(os.Stderr, "Error: PROMPT_BUCKET is required when STORAGE_PROVIDER=gcs")
			os.Exit(1)
		}
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: gcs client:", err)
			os.Exit(1)
		}
		defer client.Close()
		objStore = gcsstore.New(client, cfg.Bucket)
	default:
		objStore = localstore.New(cfg.LocalStorePath())
	}

	var validator runner.Validator
	if cfg.ValidateCommand != "" {
		v, err := runner.Parse(cfg.ValidateCommand)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		validator = v
	}

	var journal repository.DeploymentRepository
	if cfg.JournalDB != "" {
		ds, err := datastore.Open(ctx, datastore.Config{Driver: "sqlite", Path: cfg.JournalDB})
		if err != nil {
			// 履歴はベストエフォート。本体の動作は止めない
			log.Warn("journal disabled: open failed", slog.Any("error", err))
		} else {
			defer ds.Close()
			journal = ds.Deployments()
		}
	}

	owner := cli.Owner()
	locks := locking.New(objStore, cfg.LockTimeout(), log)
	staging := usecase.NewStaging(objStore, locks, cfg.StagingPath(), owner, cfg.EditorCommand(), log)
	pusher := usecase.NewPusher(objStore, locks, staging, validator, journal, owner, log)
	promoter := usecase.NewPromoter(objStore, locks, staging, validator, journal,
		usecase.StdinConfirmer{}, owner, os.Stdout, log)

	app := &cli.App{
		Staging:     staging,
		Pusher:      pusher,
		Promoter:    promoter,
		Deployments: journal,
		Logger:      log,
	}

	root := app.NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
