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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagare-media/play/pkg/config/v1alpha1"
)

func TestGatewayMatcherDefaults(t *testing.T) {
	m, err := NewGatewayMatcher(DefaultGateways)
	require.NoError(t, err)

	tests := []struct {
		url      string
		expected bool
	}{
		{"https://gateway.example.com/ipfs/QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", true},
		{"http://localhost:8080/ipns/docs.example.com/video.mp4", true},
		{"https://cdn.example.com/assets/video.mp4", false},
		{"ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", false},
		{"://not a url", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, m.Match(tt.url), tt.url)
	}
}

func TestGatewayMatcherHostPatterns(t *testing.T) {
	m, err := NewGatewayMatcher([]v1alpha1.Gateway{
		{Host: "*.ipfs.dweb.example"},
		{Host: "media.example", PathMarkers: []string{"/content/"}},
	})
	require.NoError(t, err)

	tests := []struct {
		url      string
		expected bool
	}{
		// subdomain gateway, any path
		{"https://bafybeigdyrzt5example.ipfs.dweb.example/", true},
		// separator aware: '*' must not cross label boundaries
		{"https://a.b.ipfs.dweb.example/", false},
		{"https://ipfs.dweb.example/", false},
		// host plus marker
		{"https://media.example/content/abc123", true},
		{"https://media.example/other/abc123", false},
		{"https://other.example/content/abc123", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, m.Match(tt.url), tt.url)
	}
}

func TestGatewayMatcherInvalidPattern(t *testing.T) {
	_, err := NewGatewayMatcher([]v1alpha1.Gateway{{Host: "[invalid"}})
	assert.Error(t, err)
}
