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

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagare-media/play/pkg/config/v1alpha1"
)

func viperFromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestUnmarshalExact(t *testing.T) {
	v := viperFromYAML(t, `
resolvers:
  - name: default
    gateways:
      - host: "*.ipfs.dweb.link"
      - host: "*"
        pathMarkers: ["/ipfs/", "/ipns/"]
    defaultType: video/mp4
    probe:
      timeout: 750ms
      maxPrefixSize: 1KB
servers:
  - name: api
    address: ":8080"
    http: {}
    apps:
      - name: resolve
        resolve:
          resolverRef:
            name: default
`)

	cfg := &v1alpha1.Config{}
	require.NoError(t, UnmarshalExact(v, cfg))

	require.Len(t, cfg.Resolvers, 1)
	r := cfg.Resolvers[0]
	assert.Equal(t, "default", r.Name)
	require.Len(t, r.Gateways, 2)
	assert.Equal(t, "*.ipfs.dweb.link", r.Gateways[0].Host)
	assert.Equal(t, []string{"/ipfs/", "/ipns/"}, r.Gateways[1].PathMarkers)
	require.NotNil(t, r.Probe)
	assert.Equal(t, 750*time.Millisecond, r.Probe.Timeout)
	assert.Equal(t, bytesize.KB, r.Probe.MaxPrefixSize)

	require.Len(t, cfg.Servers, 1)
	s := cfg.Servers[0]
	assert.Equal(t, ":8080", s.Address)
	require.NotNil(t, s.HTTP)
	require.Len(t, s.Apps, 1)
	require.NotNil(t, s.Apps[0].Resolve)
	assert.Equal(t, "default", s.Apps[0].Resolve.ResolverRef.Name)
}

func TestUnmarshalExactUnknownKey(t *testing.T) {
	v := viperFromYAML(t, `
resolvers:
  - name: default
    cache: true
`)
	assert.Error(t, UnmarshalExact(v, &v1alpha1.Config{}))
}
