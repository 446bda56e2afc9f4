package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"dailydsa/cache"
	"dailydsa/catalog"
	"dailydsa/commands"
	configs "dailydsa/config"
	"dailydsa/gateway"
	"dailydsa/health"
	"dailydsa/logger"
	"dailydsa/model"
	"dailydsa/mongoconn"
	"dailydsa/natsclient"
	"dailydsa/repository"
	"dailydsa/scheduler"
	"dailydsa/service"
)

const (
	component = "MAIN"

	jobDailyGeneration = "daily-generation"
	jobIdlePenalty     = "idle-penalty"
)

func runBot(parent context.Context, cfg configs.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.NewService(service.Options{
		Store:    store,
		Catalog:  loadCatalog(cfg.CatalogPath, log),
		Logger:   log,
		Location: loc,
	})
	svc.Hydrate(ctx)

	grpcHealth := health.NewGRPCServer(cfg.GRPCHealthPort, log)
	grpcHealth.SetServing(svc.CatalogLoaded())

	loop := service.NewLoop(64)
	go loop.Run(ctx)

	nc, err := natsclient.NewNatsClient(cfg.NATSURL, "dailydsa", log)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATSURL, err)
	}
	defer nc.Close()

	router := commands.NewRouter(svc, cfg.CommandPrefix, resetNote(loc), log)
	gw := gateway.New(gateway.Options{
		Router:          router,
		Loop:            loop,
		Publisher:       nc,
		ReplySubject:    cfg.ReplySubject,
		AnnounceSubject: cfg.AnnounceSubject,
		Logger:          log,
	})
	if _, err := gw.Start(ctx, nc, cfg.CommandSubject); err != nil {
		return err
	}

	sched := scheduler.New(loc, log)
	if err := registerJobs(sched, svc, loop, gw, cfg); err != nil {
		return err
	}
	// Sets missed while the bot was down are generated right away.
	_ = sched.RunNow(jobDailyGeneration)
	sched.Start()

	go reloadOnHangup(ctx, cfg.CatalogPath, svc, loop, grpcHealth, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return health.NewHTTPServer(cfg.HealthPort, log).Serve(gctx) })
	g.Go(func() error { return grpcHealth.Serve(gctx) })

	log.Log(zapcore.InfoLevel, "", "Bot running", map[string]any{
		"backend":  cfg.StorageBackend,
		"timezone": loc.String(),
		"subject":  cfg.CommandSubject,
	}, component, nil)

	serveErr := g.Wait()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Log(zapcore.WarnLevel, "", "Scheduler did not stop cleanly", nil, component, err)
	}
	<-loop.Done()

	log.Log(zapcore.InfoLevel, "", "Bot stopped", nil, component, serveErr)
	return serveErr
}

func registerJobs(sched *scheduler.Scheduler, svc *service.BotService, loop *service.Loop, gw *gateway.Gateway, cfg configs.Config) error {
	err := sched.Register(jobDailyGeneration, cfg.DailyCron, func(ctx context.Context) error {
		var sets []model.DailySet
		genErr := loop.Do(ctx, func(ctx context.Context) error {
			var err error
			sets, err = svc.GenerateDaily(ctx)
			return err
		})
		// Communities that did get a set are announced even when others failed.
		return errors.Join(genErr, gw.AnnounceAll(sets))
	})
	if err != nil {
		return err
	}

	return sched.Register(jobIdlePenalty, cfg.PenaltyCron, func(ctx context.Context) error {
		return loop.Do(ctx, func(ctx context.Context) error {
			_, err := svc.ApplyIdlePenalties(ctx, svc.Today())
			return err
		})
	})
}

// loadCatalog returns nil when the catalog cannot be read; the bot keeps
// running and answers catalog-dependent commands with an apology.
func loadCatalog(path string, log *logger.Logger) *catalog.Catalog {
	c, warnings, err := catalog.LoadFile(path)
	if err != nil {
		log.Log(zapcore.ErrorLevel, "", "Problem catalog unavailable", map[string]any{"path": path}, component, err)
		return nil
	}
	for _, w := range warnings {
		log.Log(zapcore.WarnLevel, "", "Skipped catalog row", map[string]any{"path": path}, component, w)
	}
	log.Log(zapcore.InfoLevel, "", "Problem catalog loaded", map[string]any{
		"path":     path,
		"problems": c.Len(),
		"skipped":  len(warnings),
	}, component, nil)
	return c
}

func reloadOnHangup(ctx context.Context, path string, svc *service.BotService, loop *service.Loop, hs *health.GRPCServer, log *logger.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			c := loadCatalog(path, log)
			if c == nil {
				continue
			}
			err := loop.Do(ctx, func(context.Context) error {
				svc.ReplaceCatalog(c)
				return nil
			})
			if err == nil {
				hs.SetServing(true)
			}
		}
	}
}

func openStore(ctx context.Context, cfg configs.Config, log *logger.Logger) (repository.Store, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		rc := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, log)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, nil, err
		}
		return repository.NewRedisStore(rc), func() { _ = rc.Close() }, nil
	case "mongo":
		client, err := mongoconn.ConnectDB(ctx, cfg.MongoDBURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		return repository.NewMongoStore(client, cfg.MongoDatabase), closeFn, nil
	default:
		fs, err := repository.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func resetNote(loc *time.Location) string {
	return fmt.Sprintf("Sets reset at 12:00 AM %s.", time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Format("MST"))
}
