// launching the http server, the kafka consumer and their shared components
package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/pasphoto/config"
	"github.com/ds124wfegd/pasphoto/internal/pkg/kafka"
	"github.com/ds124wfegd/pasphoto/internal/service"
	"github.com/ds124wfegd/pasphoto/internal/transport"
	"github.com/ds124wfegd/pasphoto/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	SetupLogging(cfg.Log)

	photoPipeline, err := NewPipeline(cfg)
	if err != nil {
		logrus.Fatalf("Cannot build pipeline: %s", err.Error())
	}

	jobRepo := NewJobRepository(cfg.Storage)
	jobHandler := worker.NewJobHandler(jobRepo, photoPipeline)
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, jobHandler.Handle)
	photoService := service.NewPhotoService(jobRepo, kafkaProducer, photoPipeline)
	photoHandler := transport.NewPhotoHandler(photoService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := transport.InitRoutes(photoHandler, transport.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		AppVersion:     cfg.Server.AppVersion,
	})

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":    cfg.Server.Port,
		"version": cfg.Server.AppVersion,
		"env":     cfg.Server.Env,
	}).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Info("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	if err := kafkaProducer.Close(); err != nil {
		logrus.Errorf("error occured on producer closing: %s", err.Error())
	}
}

// RunProcessor consumes queued jobs until SIGINT or SIGTERM.
func RunProcessor(cfg *config.Config) {
	SetupLogging(cfg.Log)

	photoPipeline, err := NewPipeline(cfg)
	if err != nil {
		logrus.Fatalf("Cannot build pipeline: %s", err.Error())
	}

	jobHandler := worker.NewJobHandler(NewJobRepository(cfg.Storage), photoPipeline)
	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
		Workers: cfg.Kafka.Workers,
	}, jobHandler.Handle)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		logrus.Errorf("consumer stopped with error: %s", err.Error())
	}
	logrus.Info("Processor Shutting Down")
}
