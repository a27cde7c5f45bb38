package main

import (
	"context"
	"log"
	"os"
	"photostream/internal/http"
	"photostream/internal/images"
	"photostream/internal/postgres"
	"syscall"
	"time"

	"cloud.google.com/go/compute/metadata"
	"github.com/kelseyhightower/envconfig"
	"github.com/twitsprout/tools"
	httputils "github.com/twitsprout/tools/http"
	"github.com/twitsprout/tools/lifecycle"
	"github.com/twitsprout/tools/zap"
)

var version string

type variables struct {
	Addr         string `required:"true" envconfig:"addr"`
	PostgresHost string `required:"true" envconfig:"postgres_host"`
	PostgresPort int    `required:"false" envconfig:"postgres_port"`
	PostgresDB   string `required:"true" envconfig:"postgres_db"`
	PostgresUser string `required:"true" envconfig:"postgres_user"`
	PostgresPass string `required:"true" envconfig:"postgres_pass"`
	TokenSecret  string `required:"true" envconfig:"token_secret"`
	MediaDir     string `required:"false" envconfig:"media_dir"`
	LogLevel     string `required:"false" envconfig:"log_level"`
	AppName      string `required:"true" envconfig:"app_name"`
}

var v variables

func init() {
	if metadata.OnGCE() {
		port := os.Getenv("PORT")
		err := os.Setenv("ADDR", ":"+port)
		if err != nil {
			log.Fatal(err)
		}
	}

	envconfig.MustProcess("photostream", &v)
	if v.LogLevel == "" {
		v.LogLevel = "info"
	}
	if v.MediaDir == "" {
		v.MediaDir = "media"
	}
}

func main() {
	logger := zap.New("photostream", version, os.Stdout)
	if err := logger.SetLevel(v.LogLevel); err != nil {
		logger.Error("failed to set log level", "error", err.Error())
	}

	pg := newPostgres(v, nil)

	media, err := images.NewStore(v.MediaDir)
	if err != nil {
		logger.Error("failed to create media store", "error", err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	lc, ctx := lifecycle.New(ctx, logger)
	lc.Start("photostream root context", func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	h := http.Handler{
		AppName:     v.AppName,
		Version:     version,
		Logger:      logger,
		PhotoStore:  pg,
		UserStore:   pg,
		MediaStore:  media,
		MediaDir:    media.Dir(),
		TokenSecret: v.TokenSecret,
	}
	server := httputils.NewServer(v.Addr, h.Handler())
	lc.StartServer(server)
	lc.StartSignals(syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	_ = lc.Wait(15 * time.Second)
}

func newPostgres(v variables, sc tools.StatsClient) *postgres.Postgres {
	pgConfig := postgres.Config{
		Host:       v.PostgresHost,
		Name:       v.PostgresDB,
		Password:   v.PostgresPass,
		Username:   v.PostgresUser,
		DisableSSL: true,
	}
	// Only use a Postgres port if one was provided
	if v.PostgresPort > 0 {
		pgConfig.Port = v.PostgresPort
	}
	pg, err := postgres.New(pgConfig, sc)
	if err != nil {
		panic(err)
	}
	return pg
}
