package main

import (
	"context"
	"time"

	"gradewatch-backend/lib/configutil"
	configlibsql "gradewatch-backend/lib/configutil/libsql"
	"gradewatch-backend/lib/push/fcm"
	"gradewatch-backend/lib/scrapers/jwxt"
	"gradewatch-backend/lib/telemetry"
	"gradewatch-backend/lib/util/serviceutil"
	"gradewatch-backend/services/gradewatch"
	gradewatchdb "gradewatch-backend/services/gradewatch/db"

	"github.com/gin-gonic/gin"
)

type SiteConfig struct {
	BaseUrl string `json:"base_url"`
}

type HttpConfig struct {
	Port int `json:"port"`
}

type Config struct {
	Database           configlibsql.Struct `json:"database"`
	Site               SiteConfig          `json:"site"`
	Fcm                fcm.Config          `json:"fcm"`
	Http               HttpConfig          `json:"http"`
	CheckIntervalHours int                 `json:"check_interval_hours"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	database, err := config.Database.OpenDB(gradewatchdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "gradewatch")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	client, err := jwxt.NewClient(jwxt.ClientOptions{
		BaseUrl: config.Site.BaseUrl,
	})
	if err != nil {
		serviceutil.Fatal("failed to create site client", err)
	}

	service := gradewatch.NewService(gradewatch.ServiceOptions{
		Store:         gradewatch.NewStore(database),
		Fetcher:       client,
		Notifier:      fcm.NewNotifier(config.Fcm),
		CheckInterval: time.Duration(config.CheckIntervalHours) * time.Hour,
	})
	service.StartDaemon(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	service.RegisterRoutes(router)
	go serviceutil.StartHttpServer(config.Http.Port, router)

	<-ctx.Done()
}
