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

package player

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/nagare-media/play/pkg/config/v1alpha1"
	"github.com/nagare-media/play/pkg/mime"
	"github.com/nagare-media/play/pkg/sniff"
)

var NameRegex = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// Method names the path a resolution took.
type Method string

const (
	// MethodNone marks a passthrough: the source matched no recognized gateway.
	MethodNone Method = ""

	MethodExplicit  Method = "explicit"
	MethodExtension Method = "extension"
	MethodSignature Method = "signature"
	MethodHeader    Method = "header"
	MethodDefault   Method = "default"
)

// Resolution is the outcome of resolving one source.
type Resolution struct {
	Source Source
	Method Method

	// Brand is the ftyp major brand, if the sniffer parsed one.
	Brand string

	// Weak marks the single-sync-byte transport stream classification.
	Weak bool
}

// ResolveFunc supplies the type for a source before playback begins.
type ResolveFunc func(ctx context.Context, src Source) Source

// SourceInterceptor is the source-resolution hook surface of an external
// playback engine.
type SourceInterceptor interface {
	InterceptSource(resolve ResolveFunc)
}

// Resolver owns type detection for one gateway configuration and guards the
// playback engine hook against duplicate registration. Resolution keeps no
// state between calls; concurrent resolutions are independent.
type Resolver struct {
	cfg      v1alpha1.Resolver
	sniffer  *sniff.Sniffer
	gateways *GatewayMatcher

	mtx        sync.Mutex
	registered bool
}

// Registry gives access to configured resolvers by name.
type Registry interface {
	Get(name string) (*Resolver, bool)
}

func New(cfg v1alpha1.Resolver) (*Resolver, error) {
	if err := CheckAndSetDefaults(&cfg); err != nil {
		return nil, err
	}

	gateways, err := NewGatewayMatcher(cfg.Gateways)
	if err != nil {
		return nil, err
	}

	opts := sniff.Options{}
	if cfg.Probe != nil {
		opts.Timeout = cfg.Probe.Timeout
		opts.MaxPrefixSize = int(cfg.Probe.MaxPrefixSize)
	}

	return &Resolver{
		cfg:      cfg,
		sniffer:  sniff.New(opts),
		gateways: gateways,
	}, nil
}

func CheckAndSetDefaults(cfg *v1alpha1.Resolver) error {
	if !NameRegex.MatchString(cfg.Name) {
		return errors.New("player: Name invalid")
	}
	if cfg.DefaultType == "" {
		cfg.DefaultType = mime.VideoMP4
	}
	if !mime.IsCanonical(cfg.DefaultType) {
		return fmt.Errorf("player: DefaultType '%s' is not a canonical player type", cfg.DefaultType)
	}
	if len(cfg.Gateways) == 0 {
		cfg.Gateways = DefaultGateways
	}
	return nil
}

func (r *Resolver) Config() v1alpha1.Resolver {
	return r.cfg
}

// Register installs this resolver as the source-resolution middleware of p.
// Only the first call per resolver has an effect; later calls (e.g. from
// additional player instances) are no-ops and return false.
func (r *Resolver) Register(p SourceInterceptor) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.registered {
		return false
	}
	r.registered = true

	p.InterceptSource(func(ctx context.Context, src Source) Source {
		return r.Resolve(ctx, src).Source
	})
	return true
}

// Resolve determines the type of src. Sources carrying an explicit type, and
// sources not served by a recognized gateway, pass through untouched. For
// everything else the URL extension is consulted first, then the byte prefix
// is sniffed; inconclusive detection substitutes the configured default, so a
// resolved gateway source always carries a type.
func (r *Resolver) Resolve(ctx context.Context, src Source) Resolution {
	if src.Type != "" {
		return Resolution{Source: src, Method: MethodExplicit}
	}
	if !r.gateways.Match(src.Src) {
		return Resolution{Source: src, Method: MethodNone}
	}

	if ext := extHint(src.Src); ext != "" {
		if t := mime.PreferredTypeExt(ext); t != "" {
			return Resolution{
				Source: Source{Src: src.Src, Type: t},
				Method: MethodExtension,
			}
		}
	}

	res := r.sniffer.Detect(ctx, src.Src)
	out := Resolution{
		Source: Source{Src: src.Src, Type: res.Type},
		Brand:  res.Brand,
		Weak:   res.Weak,
	}
	switch res.Method {
	case sniff.MethodSignature:
		out.Method = MethodSignature
	case sniff.MethodHeader:
		out.Method = MethodHeader
	default:
		out.Source.Type = r.cfg.DefaultType
		out.Method = MethodDefault
	}
	return out
}

// extHint extracts a usable lowercase extension from a gateway URL, looking
// at the path first and then at the filename query parameter supported by
// content-addressed gateways. Returns "" when there is none, which is the
// normal case for opaque content-addressed URLs.
func extHint(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		ext = path.Ext(u.Query().Get("filename"))
	}
	return strings.ToLower(ext)
}
