package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/podstore"
	"dispatch/internal/adapters/out/postgres/identityrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/rabbitmq"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/metrics"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	catalogs, err := cmd.LoadStoreCatalogs(configs.CatalogsPath)
	if err != nil {
		log.Fatalf("Error loading store catalogs: %v", err)
	}

	artifacts, err := podstore.NewFileStore(configs.PodDir)
	if err != nil {
		log.Fatalf("Error creating artifact store: %v", err)
	}

	var publisher ports.OrderStatusPublisher
	if configs.AmqpURL != "" {
		rmq, pubErr := rabbitmq.NewPublisher(configs.AmqpURL, logger)
		if pubErr != nil {
			log.Fatalf("Error connecting to rabbitmq: %v", pubErr)
		}
		defer rmq.Close()
		publisher = rmq
	}

	app := cmd.NewCompositionRoot(configs, gormDB, catalogs, artifacts, publisher)

	metrics.Register(prometheus.DefaultRegisterer)

	jobManager := jobs.NewJobManager(app.UnitOfWorkFactory(), artifacts, logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// Containerized deployments inject the environment directly, so a
	// missing .env is not fatal.
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("No .env file loaded, using process environment")
	}

	return cmd.Config{
		HTTPPort:     mustEnvVariable("HTTP_PORT"),
		DBHost:       mustEnvVariable("DB_HOST"),
		DBPort:       mustEnvVariable("DB_PORT"),
		DBUser:       mustEnvVariable("DB_USER"),
		DBPassword:   mustEnvVariable("DB_PASSWORD"),
		DBName:       mustEnvVariable("DB_NAME"),
		DBSslMode:    mustEnvVariable("DB_SSLMODE"),
		PodDir:       mustEnvVariable("POD_DIR"),
		CatalogsPath: mustEnvVariable("STORE_CATALOGS_PATH"),
		AmqpURL:      os.Getenv("AMQP_URL"),
	}
}

func mustEnvVariable(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable %s", key)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &identityrepo.IdentityDTO{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpadapter.NewServer(
		app.CreateLoginCommandHandler(),
		app.CreateClaimOrderCommandHandler(),
		app.CreateStartFulfillmentCommandHandler(),
		app.CreateMarkPaidCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateConfirmOrderCommandHandler(),
		app.CreateGetDriverOrdersQueryHandler(),
		app.CreateGetPendingReviewOrdersQueryHandler(),
		app.CreateVerifyTokenQueryHandler(),
		app.CreateGetOrderPodQueryHandler(),
		app.Artifacts(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
