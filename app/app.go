// Package app builds the services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stefanologica/firebear-importexport/config"
	"github.com/stefanologica/firebear-importexport/core/log"
	entity "github.com/stefanologica/firebear-importexport/model/entity"
	inventoryRepo "github.com/stefanologica/firebear-importexport/model/repository/inventory"
	jobRepo "github.com/stefanologica/firebear-importexport/model/repository/job"
	"github.com/stefanologica/firebear-importexport/queue"
	"github.com/stefanologica/firebear-importexport/service/media"
	productService "github.com/stefanologica/firebear-importexport/service/product"
)

// App holds the wired services. Queue is nil when queueing is disabled.
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Processor   *media.Processor
	Queue       queue.Queue
	Jobs        *jobRepo.JobRepository
	Inventory   *inventoryRepo.InventoryRepository
	SourceItems *productService.SourceItemImporter
}

// New loads configuration, opens the database and wires every service.
func New(ctx context.Context) (*App, error) {
	config.LoadAppConfig()
	cfg := config.AppConfig
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)

	config.InitRedis()
	if config.RedisClient != nil {
		if err := config.RedisClient.Ping(config.RedisCtx()).Err(); err != nil {
			log.Warnf("Redis configured but not reachable: %v", err)
			config.RedisClient = nil
		}
	}

	db, err := config.NewDB()
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return Build(ctx, cfg, db)
}

// Build wires services on an open database. The job table is created when missing.
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	if err := db.AutoMigrate(&entity.ImageImportJob{}); err != nil {
		return nil, fmt.Errorf("migrate import jobs: %w", err)
	}

	processor, err := media.NewProcessorFromConfig(ctx, db, cfg, nil)
	if err != nil {
		return nil, err
	}

	q, err := queue.NewFromConfig(cfg, config.RedisClient)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Processor: processor,
		Queue:     q,
		Jobs:      jobRepo.NewJobRepository(db),
	}

	var saver productService.SourceItemSaver
	if inv, err := inventoryRepo.NewInventoryRepository(db); err != nil {
		log.Warnf("inventory unavailable, source items disabled: %v", err)
	} else {
		a.Inventory = inv
		saver = inv
	}
	a.SourceItems = productService.NewSourceItemImporter(saver)
	return a, nil
}

// Worker returns a queue worker using the configured concurrency.
func (a *App) Worker() *queue.Worker {
	return queue.NewWorker(a.Queue, a.Processor, a.Jobs, a.Config.Queue.Concurrency)
}

// Close releases the queue and the database connection.
func (a *App) Close() {
	if a.Queue != nil {
		if err := a.Queue.Close(); err != nil {
			log.Error("close queue", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Sync()
}
