// Package delta orchestrates full analysis runs: parse, analyze, archive
// the source export and persist the outcome.
package delta

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentlift/agentlift/internal/analysis"
	"github.com/agentlift/agentlift/internal/domain"
	"github.com/agentlift/agentlift/internal/observability"
	"github.com/agentlift/agentlift/internal/repository/postgres"
	rediscache "github.com/agentlift/agentlift/internal/repository/redis"
	"github.com/agentlift/agentlift/internal/resilience"
	"github.com/agentlift/agentlift/internal/storage"
)

// Service runs and persists delta analyses. Cache, store and metrics are
// optional; the service degrades to plain parse-and-persist without them.
type Service struct {
	engine       *analysis.Engine
	runs         *postgres.AnalysisRunRepository
	cache        *rediscache.Cache
	store        *storage.ExportStore
	storeBreaker *resilience.Breaker
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewService creates a delta analysis service
func NewService(
	engine *analysis.Engine,
	runs *postgres.AnalysisRunRepository,
	cache *rediscache.Cache,
	store *storage.ExportStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		engine:  engine,
		runs:    runs,
		cache:   cache,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}

	if store != nil {
		cfg := resilience.DefaultBreakerConfig("object-storage")
		cfg.OnStateChange = func(name string, from, to resilience.State) {
			logger.Warn("dependency breaker state changed",
				zap.String("dependency", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
		s.storeBreaker = resilience.NewBreaker(cfg)
	}

	return s
}

// AnalyzeUpload runs the pipeline over an uploaded export and persists the
// run. Parse failures are persisted as failed runs and returned as errors;
// degraded parses complete with warnings.
func (s *Service) AnalyzeUpload(ctx context.Context, name, filename string, raw []byte) (*domain.AnalysisRun, error) {
	start := time.Now()

	run := domain.NewAnalysisRun(name, filename)
	run.Status = domain.RunStatusAnalyzing
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	s.cacheRunStatus(ctx, run)

	bot, result, warnings, err := s.analyzeOrReuse(ctx, raw, filename)
	if err != nil {
		run.Fail(err.Error())
		if updateErr := s.runs.Update(ctx, run); updateErr != nil {
			s.logger.Error("persisting failed run", zap.Error(updateErr))
		}
		s.cacheRunStatus(ctx, run)
		if s.metrics != nil {
			s.metrics.RecordAnalysis("", "", "failed", time.Since(start))
		}
		return run, err
	}

	if s.store != nil {
		var uri string
		archiveErr := s.storeBreaker.Do(ctx, func(ctx context.Context) error {
			var err error
			uri, err = s.store.ArchiveExport(ctx, run.ID, filename, raw)
			return err
		})
		if archiveErr != nil {
			// Archiving is best-effort; the analysis still stands.
			s.logger.Warn("archiving export failed",
				zap.String("run_id", run.ID.String()),
				zap.Error(archiveErr),
			)
		} else {
			run.ArchiveURI = uri
		}
	}

	run.Complete(bot, result, warnings)
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, err
	}
	s.cacheRunStatus(ctx, run)

	s.recordAnalysisMetrics(bot, result, warnings, time.Since(start))
	s.logger.Info("analysis run completed",
		zap.String("run_id", run.ID.String()),
		zap.String("bot", bot.Name),
		zap.String("domain", string(bot.Metadata.Domain)),
		zap.Float64("total_roi", result.TotalPotentialROI),
		zap.Int("warnings", len(warnings)),
	)
	return run, nil
}

// analyzeOrReuse consults the content-hash cache before running the
// pipeline. Identical uploads short-circuit to the cached outcome.
func (s *Service) analyzeOrReuse(ctx context.Context, raw []byte, filename string) (*domain.NormalizedBot, *domain.DeltaAnalysisResult, []string, error) {
	var hash string
	if s.cache != nil {
		hash = rediscache.ContentHash(raw)
		cached, err := s.cache.GetResult(ctx, hash)
		if err != nil {
			s.logger.Warn("result cache lookup failed", zap.Error(err))
		} else if cached != nil && cached.Bot != nil && cached.Result != nil {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return cached.Bot, cached.Result, cached.Warnings, nil
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
	}

	bot, result, warnings, err := s.engine.AnalyzeSource(raw, filename)
	if err != nil {
		return nil, nil, nil, err
	}

	if s.cache != nil {
		cacheErr := s.cache.SetResult(ctx, hash, &rediscache.CachedAnalysis{
			Bot:      bot,
			Result:   result,
			Warnings: warnings,
		})
		if cacheErr != nil {
			s.logger.Warn("result cache store failed", zap.Error(cacheErr))
		}
	}

	return bot, result, warnings, nil
}

// GetRun fetches a run by ID
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	return s.runs.GetByID(ctx, id)
}

// GetRunStatus returns a run's lifecycle status, served from the cache when
// possible so pollers do not hit the database.
func (s *Service) GetRunStatus(ctx context.Context, id uuid.UUID) (domain.RunStatus, error) {
	if s.cache != nil {
		status, err := s.cache.GetRunStatus(ctx, id)
		if err != nil {
			s.logger.Warn("run status cache lookup failed", zap.Error(err))
		} else if status != "" {
			return status, nil
		}
	}

	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	s.cacheRunStatus(ctx, run)
	return run.Status, nil
}

// cacheRunStatus is best-effort
func (s *Service) cacheRunStatus(ctx context.Context, run *domain.AnalysisRun) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetRunStatus(ctx, run.ID, run.Status); err != nil {
		s.logger.Warn("run status cache store failed", zap.Error(err))
	}
}

// ListRuns lists runs, newest first
func (s *Service) ListRuns(ctx context.Context, limit, offset int) ([]*domain.AnalysisRun, int, error) {
	return s.runs.List(ctx, limit, offset)
}

// ListRunsByDomain lists runs for a business domain
func (s *Service) ListRunsByDomain(ctx context.Context, d domain.BotDomain, limit, offset int) ([]*domain.AnalysisRun, int, error) {
	return s.runs.ListByDomain(ctx, d, limit, offset)
}

// DeleteRun soft deletes a run and drops its archived exports
func (s *Service) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if err := s.runs.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateRunStatus(ctx, id); err != nil {
			s.logger.Warn("run status cache invalidation failed", zap.Error(err))
		}
	}
	if s.store != nil {
		err := s.storeBreaker.Do(ctx, func(ctx context.Context) error {
			return s.store.DeleteRunExports(ctx, id)
		})
		if err != nil {
			s.logger.Warn("deleting archived exports failed",
				zap.String("run_id", id.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) recordAnalysisMetrics(bot *domain.NormalizedBot, result *domain.DeltaAnalysisResult, warnings []string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordAnalysis(string(bot.Platform), string(bot.Metadata.Domain), "completed", elapsed)
	s.metrics.RecordParseWarnings(string(bot.Platform), len(warnings))
	for _, p := range result.DetectedPatterns {
		s.metrics.RecordPattern(string(p.Type))
	}
	for _, opp := range result.DeltaOpportunities {
		s.metrics.RecordOpportunity(string(opp.Type), opp.BusinessImpact.AnnualROI)
	}
}
