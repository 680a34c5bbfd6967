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

package router

import (
	"github.com/gobwas/glob"
	"github.com/gofiber/fiber/v2"
)

type RootRouter interface {
	Router
	Host(pattern string) Router
	FiberApp() *fiber.App
}

// rootRouter scopes fiber routes by host glob and path prefix. Host matching
// is implemented as a per-route guard; different host patterns should not
// register the same path.
type rootRouter struct {
	app    *fiber.App
	prefix string
	guard  fiber.Handler
	pre    []fiber.Handler
}

func New(app *fiber.App) RootRouter {
	return &rootRouter{
		app:    app,
		prefix: "/",
	}
}

func (r *rootRouter) FiberApp() *fiber.App {
	return r.app
}

// Host returns a router limited to hosts matching pattern. Patterns are
// globs with "." as separator; "" and "*" match any host.
func (r *rootRouter) Host(pattern string) Router {
	if pattern == "" || pattern == "*" {
		return &rootRouter{app: r.app, prefix: r.prefix, pre: r.pre}
	}

	m, err := glob.Compile(pattern, '.')
	if err != nil {
		panic("host pattern invalid")
	}
	guard := func(c *fiber.Ctx) error {
		if !m.Match(c.Hostname()) {
			return fiber.ErrNotFound
		}
		return c.Next()
	}
	return &rootRouter{app: r.app, prefix: r.prefix, guard: guard, pre: r.pre}
}

func (r *rootRouter) Use(handlers ...fiber.Handler) Router {
	if r.guard == nil && r.prefix == "/" {
		for _, h := range handlers {
			r.app.Use(h)
		}
		return r
	}
	r.pre = append(r.pre, handlers...)
	return r
}

func (r *rootRouter) Get(path string, handlers ...fiber.Handler) Router {
	return r.add(fiber.MethodGet, path, handlers)
}

func (r *rootRouter) Head(path string, handlers ...fiber.Handler) Router {
	return r.add(fiber.MethodHead, path, handlers)
}

func (r *rootRouter) Post(path string, handlers ...fiber.Handler) Router {
	return r.add(fiber.MethodPost, path, handlers)
}

func (r *rootRouter) Options(path string, handlers ...fiber.Handler) Router {
	return r.add(fiber.MethodOptions, path, handlers)
}

func (r *rootRouter) All(path string, handlers ...fiber.Handler) Router {
	for _, method := range []string{
		fiber.MethodGet, fiber.MethodHead, fiber.MethodPost, fiber.MethodPut,
		fiber.MethodDelete, fiber.MethodOptions, fiber.MethodPatch,
	} {
		r.add(method, path, handlers)
	}
	return r
}

func (r *rootRouter) Group(prefix string, handlers ...fiber.Handler) Router {
	pre := make([]fiber.Handler, 0, len(r.pre)+len(handlers))
	pre = append(pre, r.pre...)
	pre = append(pre, handlers...)
	return &rootRouter{
		app:    r.app,
		prefix: absPath(r.prefix, prefix),
		guard:  r.guard,
		pre:    pre,
	}
}

func (r *rootRouter) add(method, path string, handlers []fiber.Handler) Router {
	hs := make([]fiber.Handler, 0, len(r.pre)+len(handlers)+1)
	if r.guard != nil {
		hs = append(hs, r.guard)
	}
	hs = append(hs, r.pre...)
	hs = append(hs, handlers...)
	r.app.Add(method, absPath(r.prefix, path), hs...)
	return r
}
