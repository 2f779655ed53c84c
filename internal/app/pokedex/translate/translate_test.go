package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pokedex.local/internal/app/pokedex"
)

func strPtr(s string) *string { return &s }

type upstream struct {
	calls    atomic.Int32
	lastPath atomic.Value
	lastText atomic.Value
}

// newUpstream 启动假的翻译 API，handler 决定返回内容
func newUpstream(t *testing.T, status int, body string) (*upstream, *Client) {
	t.Helper()
	u := &upstream{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		u.lastPath.Store(r.URL.Path)
		var req translationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u.lastText.Store(req.Text)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return u, NewClient(srv.URL+"/translate", srv.Client())
}

func translatedBody(text string) string {
	return `{"success":{"total":1},"contents":{"translated":"` + text + `","text":"desc","translation":"yoda"}}`
}

func TestYoda_CanHandle(t *testing.T) {
	y := NewYoda(nil)
	cases := []struct {
		name string
		info *pokedex.Info
		want bool
	}{
		{"cave", &pokedex.Info{Name: "zubat", Habitat: strPtr("cave")}, true},
		{"legendary", &pokedex.Info{Name: "mewtwo", Habitat: strPtr("rare"), IsLegendary: true}, true},
		{"upper case", &pokedex.Info{Name: "a", Habitat: strPtr("Cave")}, false},
		{"all caps", &pokedex.Info{Name: "a", Habitat: strPtr("CAVE")}, false},
		{"prefix", &pokedex.Info{Name: "a", Habitat: strPtr("cavey")}, false},
		{"no habitat", &pokedex.Info{Name: "a"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := *tc.info
			got, err := y.CanHandle(tc.info)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, before, *tc.info)
		})
	}

	_, err := y.CanHandle(nil)
	require.ErrorIs(t, err, pokedex.ErrInvalidArgument)
}

func TestShakespeare_CanHandleEverything(t *testing.T) {
	s := NewShakespeare(nil)
	ok, err := s.CanHandle(&pokedex.Info{Name: "pidgey"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.CanHandle(nil)
	require.ErrorIs(t, err, pokedex.ErrInvalidArgument)
}

func TestTranslator_TranslateReturnsUpstreamText(t *testing.T) {
	u, client := newUpstream(t, http.StatusOK, translatedBody("Desc, hmm."))

	got, err := NewYoda(client).Translate(context.Background(), strPtr("desc"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Desc, hmm.", *got)
	assert.Equal(t, "/translate/yoda.json", u.lastPath.Load())
	assert.Equal(t, "desc", u.lastText.Load())

	_, err = NewShakespeare(client).Translate(context.Background(), strPtr("desc"))
	require.NoError(t, err)
	assert.Equal(t, "/translate/shakespeare.json", u.lastPath.Load())
}

func TestTranslator_NilTextSkipsUpstream(t *testing.T) {
	u, client := newUpstream(t, http.StatusOK, translatedBody("x"))
	for _, tr := range []pokedex.Translator{NewYoda(client), NewShakespeare(client)} {
		got, err := tr.Translate(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, int32(0), u.calls.Load())
}

func TestTranslator_FallsBackToOriginal(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"rate limited":  {http.StatusTooManyRequests, `{"error":{"code":429}}`},
		"server error":  {http.StatusInternalServerError, ""},
		"not json":      {http.StatusOK, "<html>"},
		"no contents":   {http.StatusOK, `{"success":{"total":1}}`},
		"empty":         {http.StatusOK, translatedBody("")},
		"null contents": {http.StatusOK, `{"contents":null}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			u, client := newUpstream(t, tc.status, tc.body)
			original := strPtr("desc")
			got, err := NewYoda(client).Translate(context.Background(), original)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "desc", *got)
			assert.Equal(t, int32(1), u.calls.Load())
		})
	}
}

func TestTranslator_TransportErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.URL, srv.Client())
	srv.Close()

	got, err := NewShakespeare(client).Translate(context.Background(), strPtr("desc"))
	require.NoError(t, err)
	assert.Equal(t, "desc", *got)
}

func TestTranslator_CancellationIsReturned(t *testing.T) {
	_, client := newUpstream(t, http.StatusOK, translatedBody("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewYoda(client).Translate(ctx, strPtr("desc"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// fakeTranslator 记录调用，用于验证链的选择逻辑
type fakeTranslator struct {
	name      string
	canHandle bool
	output    string
	calls     int
}

func (f *fakeTranslator) Name() string { return f.name }

func (f *fakeTranslator) CanHandle(info *pokedex.Info) (bool, error) {
	if info == nil {
		return false, pokedex.ErrInvalidArgument
	}
	return f.canHandle, nil
}

func (f *fakeTranslator) Translate(_ context.Context, text *string) (*string, error) {
	f.calls++
	if text == nil {
		return nil, nil
	}
	out := f.output
	return &out, nil
}

func TestService_FirstCapableTranslatorWins(t *testing.T) {
	first := &fakeTranslator{name: "first", canHandle: true, output: "one"}
	second := &fakeTranslator{name: "second", canHandle: true, output: "two"}
	svc := NewService(first, second)

	in := &pokedex.Info{Name: "mewtwo", Description: strPtr("desc"), Habitat: strPtr("rare"), IsLegendary: true}
	out, err := svc.Translate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "one", *out.Description)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)

	swapped, err := NewService(second, first).Translate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "two", *swapped.Description)
}

func TestService_SkipsIncapableTranslators(t *testing.T) {
	skip := &fakeTranslator{name: "skip", canHandle: false, output: "nope"}
	use := &fakeTranslator{name: "use", canHandle: true, output: "yes"}

	out, err := NewService(skip, use).Translate(context.Background(), &pokedex.Info{Name: "a", Description: strPtr("desc")})
	require.NoError(t, err)
	assert.Equal(t, "yes", *out.Description)
	assert.Equal(t, 0, skip.calls)
}

func TestService_NoMatchReturnsSameRecord(t *testing.T) {
	in := &pokedex.Info{Name: "a", Description: strPtr("desc")}

	out, err := NewService().Translate(context.Background(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)

	out, err = NewService(&fakeTranslator{name: "never"}).Translate(context.Background(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestService_ReturnsNewRecordWithoutMutatingInput(t *testing.T) {
	in := &pokedex.Info{Name: "zubat", Description: strPtr("desc"), Habitat: strPtr("cave")}
	out, err := NewService(&fakeTranslator{name: "t", canHandle: true, output: "Desc, hmm."}).
		Translate(context.Background(), in)
	require.NoError(t, err)

	assert.NotSame(t, in, out)
	assert.Equal(t, "desc", *in.Description)
	assert.Equal(t, "Desc, hmm.", *out.Description)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Habitat, out.Habitat)
	assert.Equal(t, in.IsLegendary, out.IsLegendary)
}

func TestService_NilRecord(t *testing.T) {
	_, err := NewService().Translate(context.Background(), nil)
	require.ErrorIs(t, err, pokedex.ErrInvalidArgument)
}

func TestService_WithRealTranslators(t *testing.T) {
	u, client := newUpstream(t, http.StatusOK, translatedBody("Desc, hmm."))
	svc := NewService(NewYoda(client), NewShakespeare(client))

	out, err := svc.Translate(context.Background(), &pokedex.Info{Name: "zubat", Description: strPtr("desc"), Habitat: strPtr("cave")})
	require.NoError(t, err)
	assert.Equal(t, "Desc, hmm.", *out.Description)
	assert.Equal(t, "/translate/yoda.json", u.lastPath.Load())

	_, err = svc.Translate(context.Background(), &pokedex.Info{Name: "pidgey", Description: strPtr("desc"), Habitat: strPtr("forest")})
	require.NoError(t, err)
	assert.Equal(t, "/translate/shakespeare.json", u.lastPath.Load())
}
