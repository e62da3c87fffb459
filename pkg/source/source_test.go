package source

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sentinel/pkg/domain"
)

type stubAdapter struct{ name string }

func (s stubAdapter) Name() string { return s.name }
func (s stubAdapter) Collect(context.Context, domain.Source) ([]domain.Candidate, error) {
	return []domain.Candidate{{Title: s.name}}, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register(stubAdapter{name: "feed"}, domain.KindFeed, domain.KindRSS)
	reg.Register(stubAdapter{name: "web"}, domain.KindWeb)

	tests := []struct {
		kind   domain.SourceKind
		want   string
		wantOk bool
	}{
		{domain.KindFeed, "feed", true},
		{domain.KindRSS, "feed", true},
		{"RSS", "feed", true},
		{" web ", "web", true},
		{domain.KindSocial, "", false},
		{"", "", false},
		{"carrier-pigeon", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			a, ok := reg.Dispatch(domain.Source{ID: "s1", Kind: tt.kind})
			assert.Equal(t, tt.wantOk, ok)
			if !tt.wantOk {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Equal(t, tt.want, a.Name())
		})
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(stubAdapter{name: "old"}, domain.KindWeb)
	reg.Register(stubAdapter{name: "new"}, domain.KindWeb)

	a, ok := reg.Dispatch(domain.Source{Kind: domain.KindWeb})
	require.True(t, ok)
	assert.Equal(t, "new", a.Name())
	assert.Equal(t, []domain.SourceKind{domain.KindWeb}, reg.Kinds())
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry()
	reg.Register(stubAdapter{name: "feed"}, domain.KindFeed)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, ok := reg.Dispatch(domain.Source{Kind: domain.KindFeed})
			assert.True(t, ok)
			assert.Equal(t, "feed", a.Name())
		}()
	}
	wg.Wait()
}

func TestSetBrowserHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	require.NoError(t, err)

	SetBrowserHeaders(req, "sentinel-test/1.0", AcceptFeed)
	assert.Equal(t, "sentinel-test/1.0", req.Header.Get("User-Agent"))
	assert.Equal(t, AcceptFeed, req.Header.Get("Accept"))
	assert.Equal(t, "no-cache", req.Header.Get("Cache-Control"))
	assert.Contains(t, acceptLanguages, req.Header.Get("Accept-Language"))

	req2, err := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	require.NoError(t, err)
	SetBrowserHeaders(req2, "", AcceptHTML)
	assert.Empty(t, req2.Header.Get("User-Agent"))
}
