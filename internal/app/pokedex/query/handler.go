package query

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/app/pokedex/cache"
	platformtrace "pokedex.local/internal/platform/trace"
)

var tracer = otel.Tracer("pokedex.local/internal/app/pokedex/query")

// Handler 实现两个读路径：基础信息和翻译后的信息。
//
// 可选的 cache 在整次操作外层做 cache-aside（失败不缓存）；
// 为 nil 时缓存交给 species / translation 自身的装饰器。
type Handler struct {
	species     pokedex.SpeciesService
	translation pokedex.TranslationService

	cache *cache.Wrapper[pokedex.Info]
	clock pokedex.Clock
	ttl   time.Duration
}

type Option func(*Handler)

// WithCache 在请求层启用缓存，key 为 basic:<name> / translated:<name>。
func WithCache(store cache.Store, clock pokedex.Clock, ttl time.Duration) Option {
	return func(h *Handler) {
		h.cache = cache.NewWrapper[pokedex.Info](store)
		h.clock = clock
		h.ttl = ttl
	}
}

func NewHandler(species pokedex.SpeciesService, translation pokedex.TranslationService, opts ...Option) *Handler {
	h := &Handler{species: species, translation: translation}
	for _, opt := range opts {
		opt(h)
	}
	if h.clock == nil {
		h.clock = pokedex.SystemClock{}
	}
	return h
}

func (h *Handler) GetBasicInfo(ctx context.Context, name string) (pokedex.Info, error) {
	ctx, span := tracer.Start(ctx, "pokedex.basic", trace.WithAttributes(attribute.String(platformtrace.AttrPokemonName, name)))
	defer span.End()

	info, err := h.cached(ctx, pokedex.BasicKey(name), name, func(ctx context.Context) (*pokedex.Info, error) {
		return h.lookup(ctx, name)
	})
	return finish(span, info, err)
}

// GetTranslatedInfo 查询失败时直接返回，不会尝试翻译。
func (h *Handler) GetTranslatedInfo(ctx context.Context, name string) (pokedex.Info, error) {
	ctx, span := tracer.Start(ctx, "pokedex.translated", trace.WithAttributes(attribute.String(platformtrace.AttrPokemonName, name)))
	defer span.End()

	info, err := h.cached(ctx, pokedex.TranslatedKey(name), name, func(ctx context.Context) (*pokedex.Info, error) {
		record, err := h.lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		return h.translation.Translate(ctx, record)
	})
	return finish(span, info, err)
}

func (h *Handler) lookup(ctx context.Context, name string) (*pokedex.Info, error) {
	outcome, err := h.species.FetchRecord(ctx, name)
	if err != nil {
		return nil, err
	}
	if !outcome.Success || outcome.Data == nil {
		return nil, &pokedex.UpstreamError{StatusCode: outcome.StatusCode, Message: outcome.Message}
	}
	return outcome.Data, nil
}

// cached 未配置缓存时直接执行 load。
func (h *Handler) cached(ctx context.Context, key, name string, load func(context.Context) (*pokedex.Info, error)) (*pokedex.Info, error) {
	if err := pokedex.RequireName(name); err != nil {
		return nil, err
	}
	span := trace.SpanFromContext(ctx)
	if h.cache == nil {
		span.SetAttributes(attribute.String(platformtrace.AttrCacheLayer, "service"))
		return load(ctx)
	}
	span.SetAttributes(attribute.String(platformtrace.AttrCacheLayer, "handler"))

	hit, err := h.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		span.SetAttributes(attribute.Bool(platformtrace.AttrCacheHit, true))
		return hit, nil
	}

	info, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, key, info, h.clock.Now().Add(h.ttl)); err != nil {
		return nil, err
	}
	return info, nil
}

func finish(span trace.Span, info *pokedex.Info, err error) (pokedex.Info, error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pokedex.Info{}, err
	}
	if info == nil {
		return pokedex.Info{}, errors.New("query: empty result")
	}
	return *info, nil
}
