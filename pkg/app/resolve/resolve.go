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
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nagare-media/play/pkg/app"
	"github.com/nagare-media/play/pkg/config/v1alpha1"
	"github.com/nagare-media/play/pkg/event"
	"github.com/nagare-media/play/pkg/http"
	"github.com/nagare-media/play/pkg/http/router"
	"github.com/nagare-media/play/pkg/player"
)

// resolveApp exposes a resolver over HTTP: given a source URL and an optional
// explicit type it answers with the {src, type} pair a playback engine should
// be handed.
type resolveApp struct {
	cfg         v1alpha1.App
	eventStream event.Stream
	ctx         context.Context
	execCtx     app.ExecCtx
}

func New(cfg v1alpha1.App) (app.App, error) {
	if err := app.CheckAndSetDefaults(&cfg); err != nil {
		return nil, err
	}
	if cfg.Resolve.ResolverRef.Name == "" {
		return nil, errors.New("resolve.New: resolverRef is missing")
	}

	return &resolveApp{
		cfg:         cfg,
		eventStream: event.NewStream(),
	}, nil
}

func (a *resolveApp) Config() v1alpha1.App {
	return a.cfg
}

func (a *resolveApp) HTTPConfig() *v1alpha1.HTTPApp {
	return a.cfg.HTTP
}

func (a *resolveApp) EventStream() event.Stream {
	return a.eventStream
}

func (a *resolveApp) SetCtx(ctx context.Context) {
	a.ctx = ctx
	a.eventStream.Start(ctx)
}

func (a *resolveApp) SetExecCtx(execCtx app.ExecCtx) {
	a.execCtx = execCtx
}

func (a *resolveApp) RegisterHTTPRoutes(router router.Router, handleOptions bool) error {
	router.Get("/sources/resolve", a.handleResolve)

	if handleOptions { // preflight requests
		router.Options("/sources/resolve", http.NoContentHandler)
	}

	return nil
}

func (a *resolveApp) handleResolve(c *fiber.Ctx) error {
	log := a.execCtx.Logger()

	src := c.Query("src")
	if src == "" {
		return http.ErrMissingSourceURL
	}

	resolver, ok := a.execCtx.ResolverRegistry().Get(a.cfg.Resolve.ResolverRef.Name)
	if !ok {
		log.Errorf("resolver named '%s' not found", a.cfg.Resolve.ResolverRef.Name)
		return http.ErrUnknownResolver
	}

	res := resolver.Resolve(c.Context(), player.Source{
		Src:  src,
		Type: c.Query("type"),
	})

	if res.Weak {
		log.Debugw("transport stream classification rests on a single sync byte",
			"src", src)
	}
	a.pubSourceEvent(res)

	return c.JSON(res.Source)
}

func (a *resolveApp) pubSourceEvent(res player.Resolution) {
	t := event.SourceResolvedEvent
	if res.Method == player.MethodNone {
		t = event.SourcePassthroughEvent
	}
	e := event.NewSourceEvent(t, res.Source.Src, res.Source.Type, string(res.Method))
	e.Brand = res.Brand
	e.Weak = res.Weak
	a.eventStream.Pub(e)
}
