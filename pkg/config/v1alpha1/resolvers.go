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

package v1alpha1

import (
	"time"

	"github.com/inhies/go-bytesize"
)

type Resolver struct {
	Name string `mapstructure:"name"`

	// Gateways describes the recognized content-addressed gateway URLs.
	// Sources not matching any gateway pass through unresolved.
	Gateways []Gateway `mapstructure:"gateways,omitempty"`

	// DefaultType is substituted when detection is inconclusive. Must be one of
	// the canonical player MIME types.
	DefaultType string `mapstructure:"defaultType,omitempty"`

	Probe *Probe `mapstructure:"probe,omitempty"`
}

type Gateway struct {
	// Host is a glob pattern matched against the URL hostname, e.g.
	// "*.ipfs.dweb.link". "*" matches any host.
	Host string `mapstructure:"host"`

	// PathMarkers are substrings of which at least one must appear in the URL
	// path, e.g. "/ipfs/". An empty list makes the host match sufficient.
	PathMarkers []string `mapstructure:"pathMarkers,omitempty"`
}

type Probe struct {
	Timeout       time.Duration     `mapstructure:"timeout,omitempty"`
	MaxPrefixSize bytesize.ByteSize `mapstructure:"maxPrefixSize,omitempty"`
}
