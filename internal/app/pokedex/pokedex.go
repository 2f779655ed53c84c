package pokedex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidArgument 表示调用方传入了非法参数（空名称、空 key、nil 记录）。
// 属于本地前置条件错误，不重试，HTTP 层映射为 400。
var ErrInvalidArgument = errors.New("invalid argument")

// Info 是对外暴露的物种信息（也是缓存的 payload）。
//
// 约定：
// - Description / Habitat 为 nil 表示上游没有该字段
// - 构造后不再修改；翻译等变换总是返回新的 *Info
type Info struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Habitat     *string `json:"habitat"`
	IsLegendary bool    `json:"isLegendary"`
}

// WithDescription 返回替换了描述的新记录，原记录不变。
func (i *Info) WithDescription(description *string) *Info {
	return &Info{
		Name:        i.Name,
		Description: description,
		Habitat:     i.Habitat,
		IsLegendary: i.IsLegendary,
	}
}

// Outcome 是一次上游调用的结果：Success 时 Data 非空且 StatusCode 为 200；失败时 Data 为空。
type Outcome struct {
	Success    bool
	StatusCode int
	Message    string
	Data       *Info
}

func Succeeded(info *Info) Outcome {
	return Outcome{
		Success:    true,
		StatusCode: http.StatusOK,
		Data:       info,
	}
}

func Failed(statusCode int, message string) Outcome {
	return Outcome{
		StatusCode: statusCode,
		Message:    message,
	}
}

// UpstreamError 是请求处理层返回给调用方的失败结果，状态码沿用上游。
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure (%d): %s", e.StatusCode, e.Message)
}

// SpeciesService 获取并规范化单个物种记录。
type SpeciesService interface {
	FetchRecord(ctx context.Context, name string) (Outcome, error)
}

// Translator 是翻译链中的一个节点。
// CanHandle 为纯判断，不做 I/O；Translate 可能访问上游。
type Translator interface {
	Name() string
	CanHandle(info *Info) (bool, error)
	Translate(ctx context.Context, text *string) (*string, error)
}

// TranslationService 对整条记录应用翻译链。
type TranslationService interface {
	Translate(ctx context.Context, info *Info) (*Info, error)
}

// Clock 只用于在写缓存时计算 Now + TTL，便于测试注入。
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

const (
	basicKeyPrefix      = "basic:"
	translatedKeyPrefix = "translated:"
)

// BasicKey / TranslatedKey 是两个读路径的缓存 key，前缀不同，因此永不冲突。
func BasicKey(name string) string {
	return basicKeyPrefix + name
}

func TranslatedKey(name string) string {
	return translatedKeyPrefix + name
}

// RequireName 校验名称非空白。
func RequireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidArgument)
	}
	return nil
}
