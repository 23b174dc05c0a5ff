package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/vitae/pkg/cache"
	"github.com/matzehuels/vitae/pkg/errors"
	"github.com/matzehuels/vitae/pkg/observability"
	"github.com/matzehuels/vitae/pkg/render/plan"
	"github.com/matzehuels/vitae/pkg/render/skin"
	"github.com/matzehuels/vitae/pkg/resume"
)

// Runner executes the pipeline against an injected skin registry and cache.
//
// A Runner holds no per-run state. Multiple goroutines may share one.
type Runner struct {
	Registry *skin.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	TTL      time.Duration
}

// NewRunner creates a runner. Nil arguments select the built-in registry,
// a NullCache, the DefaultKeyer and the default logger.
func NewRunner(reg *skin.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if reg == nil {
		reg = skin.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: reg,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		TTL:      cache.DefaultTTL,
	}
}

// Execute validates r, plans it once and renders every requested format.
func (r *Runner) Execute(ctx context.Context, res *resume.Resume, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := resume.Validate(res); err != nil {
		return nil, err
	}
	s, err := r.Registry.Lookup(opts.Template)
	if err != nil {
		return nil, err
	}

	canonical, err := res.Canonical()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode resume")
	}
	result := &Result{
		ResumeHash: cache.Hash(canonical),
		Artifacts:  make(map[string][]byte, len(opts.Formats)),
		Stats:      Stats{Sizes: make(map[string]int, len(opts.Formats))},
		CacheInfo:  CacheInfo{Hits: make(map[string]bool, len(opts.Formats))},
	}

	planStart := time.Now()
	d := plan.Plan(res)
	result.Plan = d
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.Blocks = len(d.Blocks)
	result.Stats.Sections = len(d.Headings())
	observability.Render().OnPlanComplete(ctx, result.Stats.Blocks, result.Stats.PlanTime)

	opts.Logger.Debug("planned resume",
		"blocks", result.Stats.Blocks,
		"sections", result.Stats.Sections,
		"duration", result.Stats.PlanTime)

	renderStart := time.Now()
	if err := r.renderAll(ctx, d, s, res, opts, result); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	result.CacheInfo.RenderHit = len(result.CacheInfo.Hits) == len(opts.Formats)
	for _, hit := range result.CacheInfo.Hits {
		if !hit {
			result.CacheInfo.RenderHit = false
		}
	}

	opts.Logger.Info("rendered resume",
		"template", s.ID,
		"formats", opts.Formats,
		"cached", result.CacheInfo.RenderHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// renderAll renders formats concurrently. Outputs are independent so one
// failure cancels the rest.
func (r *Runner) renderAll(ctx context.Context, d *plan.Document, s *skin.Skin, res *resume.Resume, opts Options, result *Result) error {
	observability.Render().OnRenderStart(ctx, s.ID, opts.Formats)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, hit, err := r.renderCached(gctx, d, s, res, opts, result.ResumeHash, format)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			result.Artifacts[format] = data
			result.Stats.Sizes[format] = len(data)
			result.CacheInfo.Hits[format] = hit
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) renderCached(ctx context.Context, d *plan.Document, s *skin.Skin, res *resume.Resume, opts Options, hash, format string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	cacheable := opts.Cacheable(format)
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format, s))

	if cacheable && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "err", err)
		} else if hit {
			observability.Cache().OnCacheHit(ctx, format)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, format)
	}

	start := time.Now()
	data, err := RenderFormat(d, s, format, res, opts)
	observability.Render().OnFormatComplete(ctx, s.ID, format, len(data), time.Since(start), err)
	if err != nil {
		opts.Logger.Error("render failed", "template", s.ID, "format", format, "err", err)
		if errors.GetCode(err) != "" {
			return nil, false, err
		}
		return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	opts.Logger.Debug("rendered format",
		"template", s.ID,
		"format", format,
		"bytes", len(data),
		"duration", time.Since(start))

	if cacheable {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, format, len(data))
		}
	}
	return data, false, nil
}

// Plan validates r and returns its block plan without rendering.
func (r *Runner) Plan(res *resume.Resume) (*plan.Document, error) {
	if err := resume.Validate(res); err != nil {
		return nil, err
	}
	return plan.Plan(res), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}
