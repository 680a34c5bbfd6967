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
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"github.com/nagare-media/play/pkg/config/v1alpha1"
)

// DefaultGateways recognizes IPFS style path gateways on any host.
var DefaultGateways = []v1alpha1.Gateway{
	{Host: "*", PathMarkers: []string{"/ipfs/", "/ipns/"}},
}

type gatewayPattern struct {
	host        glob.Glob // nil matches any host
	pathMarkers []string
}

// GatewayMatcher decides whether a URL points at a recognized
// content-addressed gateway.
type GatewayMatcher struct {
	patterns []gatewayPattern
}

func NewGatewayMatcher(cfgs []v1alpha1.Gateway) (*GatewayMatcher, error) {
	patterns := make([]gatewayPattern, len(cfgs))
	for i, cfg := range cfgs {
		p := gatewayPattern{pathMarkers: cfg.PathMarkers}
		if cfg.Host != "" && cfg.Host != "*" {
			g, err := glob.Compile(cfg.Host, '.')
			if err != nil {
				return nil, fmt.Errorf("NewGatewayMatcher: host pattern '%s' invalid: %w", cfg.Host, err)
			}
			p.host = g
		}
		patterns[i] = p
	}
	return &GatewayMatcher{patterns: patterns}, nil
}

// Match reports whether rawURL is served by a recognized gateway. Unparsable
// and non-HTTP(S) URLs never match.
func (m *GatewayMatcher) Match(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	for _, p := range m.patterns {
		if p.host != nil && !p.host.Match(u.Hostname()) {
			continue
		}
		if len(p.pathMarkers) == 0 {
			return true
		}
		for _, marker := range p.pathMarkers {
			if strings.Contains(u.Path, marker) {
				return true
			}
		}
	}
	return false
}
