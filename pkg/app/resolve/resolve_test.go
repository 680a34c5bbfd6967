/*
Copyright 2025 The nagare media authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package resolve

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nagare-media/play/pkg/app"
	"github.com/nagare-media/play/pkg/config/v1alpha1"
	"github.com/nagare-media/play/pkg/event"
	"github.com/nagare-media/play/pkg/http/router"
	"github.com/nagare-media/play/pkg/player"
)

type testRegistry map[string]*player.Resolver

func (reg testRegistry) Get(name string) (*player.Resolver, bool) {
	r, ok := reg[name]
	return r, ok
}

type testExecCtx struct {
	registry player.Registry
}

func (c *testExecCtx) Logger() *zap.SugaredLogger           { return zap.NewNop().Sugar() }
func (c *testExecCtx) PathPrefix(override ...string) string { return "/" }
func (c *testExecCtx) ResolverRegistry() player.Registry    { return c.registry }

func newTestApp(t *testing.T, resolverName string) (app.App, *fiber.App) {
	t.Helper()

	resolver, err := player.New(v1alpha1.Resolver{Name: "default"})
	require.NoError(t, err)

	a, err := New(v1alpha1.App{
		Name:    "resolve",
		Resolve: &v1alpha1.ResolveApp{ResolverRef: v1alpha1.Reference{Name: resolverName}},
	})
	require.NoError(t, err)

	a.SetCtx(context.Background())
	a.SetExecCtx(&testExecCtx{registry: testRegistry{"default": resolver}})

	fiberApp := fiber.New()
	require.NoError(t, a.(*resolveApp).RegisterHTTPRoutes(router.New(fiberApp), true))
	return a, fiberApp
}

func resolveReq(t *testing.T, fiberApp *fiber.App, query url.Values) (int, player.Source) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/sources/resolve?"+query.Encode(), nil)
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint

	var src player.Source
	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&src))
	}
	return resp.StatusCode, src
}

func TestNew(t *testing.T) {
	t.Run("missing resolverRef", func(t *testing.T) {
		_, err := New(v1alpha1.App{Name: "resolve", Resolve: &v1alpha1.ResolveApp{}})
		assert.Error(t, err)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := New(v1alpha1.App{
			Name:    "no spaces",
			Resolve: &v1alpha1.ResolveApp{ResolverRef: v1alpha1.Reference{Name: "default"}},
		})
		assert.Error(t, err)
	})
}

func TestHandleResolve(t *testing.T) {
	a, fiberApp := newTestApp(t, "default")
	events := a.EventStream().Sub()

	t.Run("missing src", func(t *testing.T) {
		status, _ := resolveReq(t, fiberApp, url.Values{})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("explicit type passes through", func(t *testing.T) {
		status, src := resolveReq(t, fiberApp, url.Values{
			"src":  []string{"https://gw.example/ipfs/bafy"},
			"type": []string{"application/x-mpegURL"},
		})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "application/x-mpegURL", src.Type)

		e := <-events
		assert.Equal(t, event.SourceResolvedEvent, e.EventType())
	})

	t.Run("extension hint", func(t *testing.T) {
		status, src := resolveReq(t, fiberApp, url.Values{
			"src": []string{"https://gw.example/ipfs/bafy/movie.webm"},
		})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "video/webm", src.Type)
		<-events
	})

	t.Run("non-gateway source passes through untyped", func(t *testing.T) {
		status, src := resolveReq(t, fiberApp, url.Values{
			"src": []string{"https://cdn.example/movie"},
		})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "https://cdn.example/movie", src.Src)
		assert.Equal(t, "", src.Type)

		e := <-events
		assert.Equal(t, event.SourcePassthroughEvent, e.EventType())
		se, ok := e.(event.SourceEvent)
		require.True(t, ok)
		assert.Equal(t, "", se.Method)
	})
}

func TestHandleResolveUnknownResolver(t *testing.T) {
	_, fiberApp := newTestApp(t, "missing")

	status, _ := resolveReq(t, fiberApp, url.Values{
		"src": []string{"https://gw.example/ipfs/bafy"},
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
