package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Gerilya-By-BSI/huniya-ml/core"
	"github.com/Gerilya-By-BSI/huniya-ml/feature"
	"github.com/Gerilya-By-BSI/huniya-ml/filter"
	"github.com/Gerilya-By-BSI/huniya-ml/internal/configs"
	"github.com/Gerilya-By-BSI/huniya-ml/internal/server"
	"github.com/Gerilya-By-BSI/huniya-ml/pipeline"
	"github.com/Gerilya-By-BSI/huniya-ml/pkg/logger"
	"github.com/Gerilya-By-BSI/huniya-ml/rank"
	"github.com/Gerilya-By-BSI/huniya-ml/recall"
	"github.com/Gerilya-By-BSI/huniya-ml/service"
	"github.com/Gerilya-By-BSI/huniya-ml/store"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.AppName, cfg.AppLogLevel)

	// Redis 可选：redis:// 制品来源与相似度黑名单
	var blobs core.Store
	if cfg.RedisAddr != "" {
		rs, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, redis:// artifacts and blacklist disabled")
		} else {
			blobs = rs
			defer rs.Close()
		}
	}

	loader := feature.NewMultiLoader(0)
	if blobs != nil {
		loader.Register("redis", feature.NewStoreLoader(blobs))
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.ArtifactLoadTimeout)
	artifacts, err := service.LoadArtifacts(loadCtx, loader, service.ArtifactSources{
		Model:    cfg.ModelPath,
		Encoders: cfg.EncodersPath,
		Scaler:   cfg.ScalerPath,
	})
	cancelLoad()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load artifacts")
	}

	listings := openListingStore(cfg.DatabaseURL)
	snapshots := recall.NewSnapshotLoader(listings,
		recall.WithQueryTimeout(cfg.ListingQueryTimeout),
		recall.WithBreaker(cfg.ListingBreakerFailures, cfg.ListingBreakerTimeout),
	)
	p, err := similarityPipeline(cfg, blobs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build similarity pipeline")
	}

	h := server.NewHandler(
		service.NewCreditScoreService(artifacts),
		service.NewSimilarityService(snapshots, p, cfg.SimilarTopN),
	)

	port := cfg.AppPort
	if port == 0 {
		port = 5000
		log.Warn().Int("port", port).Msg("App port not set, defaulting to 5000")
	}
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           server.New(cfg.AppEnv, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if closer, ok := listings.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	log.Info().Msg("Application stopped gracefully")
}

// openListingStore 打开房源库；未配置或连接失败时返回 nil，相似度查询退化为空结果。
func openListingStore(dsn string) core.ListingStore {
	if dsn == "" {
		log.Warn().Msg("DATABASE_URL not set, similar houses will always be empty")
		return nil
	}
	db, err := store.OpenPostgres(dsn)
	if err != nil {
		log.Warn().Err(err).Msg("listing database unavailable, similar houses will always be empty")
		return nil
	}
	return store.NewPostgresListingStore(db)
}

func similarityPipeline(cfg *configs.Configs, blobs core.Store) (*pipeline.Pipeline, error) {
	if cfg.SimilarPipelineConfig != "" {
		return service.LoadPipeline(cfg.SimilarPipelineConfig)
	}
	scope, err := rank.ParseScalerScope(cfg.SimilarScalerScope)
	if err != nil {
		return nil, err
	}
	opts := service.SimilarityOptions{Scope: scope}
	if cfg.SimilarBlacklistKey != "" && blobs != nil {
		opts.Filters = append(opts.Filters, filter.NewBlacklistFilter(nil, blobs, cfg.SimilarBlacklistKey))
	}
	return service.DefaultPipeline(opts), nil
}
