package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pokedex.local/internal/app/pokedex"
)

const (
	styleYoda        = "yoda"
	styleShakespeare = "shakespeare"

	caveHabitat = "cave"
)

// styleTranslator 是基于 Client 的翻译器公共实现，具体翻译器只决定 CanHandle。
type styleTranslator struct {
	style  string
	client *Client
}

func (t *styleTranslator) Name() string { return t.style }

// Translate text 为 nil 时不访问上游。
// 上游失败一律回退到原文；只有 ctx 取消或超时会作为错误返回。
func (t *styleTranslator) Translate(ctx context.Context, text *string) (*string, error) {
	if text == nil {
		return nil, nil
	}
	translated, err := t.client.Translate(ctx, t.style, *text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("translate %s: %w", t.style, ctxErr)
		}
		if errors.Is(err, errNoTranslation) {
			slog.Debug("translate: fallback to original text", "translator", t.style, "err", err)
		} else {
			slog.Warn("translate: upstream call failed, fallback to original text", "translator", t.style, "err", err)
		}
		return text, nil
	}
	return &translated, nil
}

// Yoda 处理洞穴栖息地或传说中的物种。
type Yoda struct {
	styleTranslator
}

func NewYoda(client *Client) *Yoda {
	return &Yoda{styleTranslator{style: styleYoda, client: client}}
}

// CanHandle 栖息地精确匹配 "cave"（区分大小写），或为传说物种。
func (y *Yoda) CanHandle(info *pokedex.Info) (bool, error) {
	if info == nil {
		return false, fmt.Errorf("%w: info is nil", pokedex.ErrInvalidArgument)
	}
	return (info.Habitat != nil && *info.Habitat == caveHabitat) || info.IsLegendary, nil
}

// Shakespeare 兜底翻译器，必须注册在链的最后。
type Shakespeare struct {
	styleTranslator
}

func NewShakespeare(client *Client) *Shakespeare {
	return &Shakespeare{styleTranslator{style: styleShakespeare, client: client}}
}

func (s *Shakespeare) CanHandle(info *pokedex.Info) (bool, error) {
	if info == nil {
		return false, fmt.Errorf("%w: info is nil", pokedex.ErrInvalidArgument)
	}
	return true, nil
}

var (
	_ pokedex.Translator = (*Yoda)(nil)
	_ pokedex.Translator = (*Shakespeare)(nil)
)
