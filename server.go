//go:build !cli
// +build !cli

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stefanologica/firebear-importexport/api"
	_ "github.com/stefanologica/firebear-importexport/api/images"
	_ "github.com/stefanologica/firebear-importexport/api/stock"
	"github.com/stefanologica/firebear-importexport/app"
	"github.com/stefanologica/firebear-importexport/config"
	"github.com/stefanologica/firebear-importexport/core/auth"
	"github.com/stefanologica/firebear-importexport/core/log"
)

func main() {
	config.LoadEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatal("startup failed", err)
	}
	defer a.Close()

	sqldb, err := a.DB.DB()
	if err != nil {
		log.Fatal("failed to get DB instance", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatal("database connection failed", err)
	}
	log.Info("Database connection successful.")

	// Without an external broker the queue lives in this process, so consume it here.
	if a.Config.Queue.Driver == "memory" {
		go func() {
			if err := a.Worker().Run(ctx); err != nil {
				log.Error("image worker stopped", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			log.Infow("request", "method", c.Request().Method, "path", c.Path(), "status", c.Response().Status, "duration_ms", duration)
			return err
		}
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, a)
	api.ApplyRoutes(e, a)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", err)
		}
	}()

	port := a.Config.Port
	log.Infof("Server running on :%s", port)
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal("server stopped", err)
	}
}
