package translate

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/platform/metrics"
	platformtrace "pokedex.local/internal/platform/trace"
)

// Service 按注册顺序找到第一个能处理记录的翻译器，只翻译描述。
// 顺序即优先级，Service 不会重新排序。
type Service struct {
	translators []pokedex.Translator
}

func NewService(translators ...pokedex.Translator) *Service {
	return &Service{translators: append([]pokedex.Translator(nil), translators...)}
}

// Translate 没有翻译器匹配时原样返回同一个指针；否则返回新记录，不修改入参。
func (s *Service) Translate(ctx context.Context, info *pokedex.Info) (*pokedex.Info, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: info is nil", pokedex.ErrInvalidArgument)
	}

	translator, err := s.pick(info)
	if err != nil {
		return nil, err
	}
	if translator == nil {
		metrics.TranslatorSelections.WithLabelValues("none").Inc()
		return info, nil
	}
	metrics.TranslatorSelections.WithLabelValues(translator.Name()).Inc()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(platformtrace.AttrTranslator, translator.Name()))
	slog.Debug("translate: translator selected", "name", info.Name, "translator", translator.Name())

	description, err := translator.Translate(ctx, info.Description)
	if err != nil {
		return nil, err
	}
	return info.WithDescription(description), nil
}

func (s *Service) pick(info *pokedex.Info) (pokedex.Translator, error) {
	for _, t := range s.translators {
		ok, err := t.CanHandle(info)
		if err != nil {
			return nil, fmt.Errorf("translator %s: %w", t.Name(), err)
		}
		if ok {
			return t, nil
		}
	}
	return nil, nil
}

var _ pokedex.TranslationService = (*Service)(nil)
