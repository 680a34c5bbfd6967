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

package cloudevent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nagare-media/play/pkg/app"
	"github.com/nagare-media/play/pkg/config/v1alpha1"
	"github.com/nagare-media/play/pkg/event"
	"github.com/nagare-media/play/pkg/function"
	"github.com/nagare-media/play/pkg/player"
)

type testApp struct {
	stream event.Stream
}

func (a *testApp) Config() v1alpha1.App           { return v1alpha1.App{Name: "test"} }
func (a *testApp) EventStream() event.Stream      { return a.stream }
func (a *testApp) SetCtx(ctx context.Context)     {}
func (a *testApp) SetExecCtx(execCtx app.ExecCtx) {}

type testExecCtx struct {
	app app.App
}

func (c *testExecCtx) Logger() *zap.SugaredLogger           { return zap.NewNop().Sugar() }
func (c *testExecCtx) PathPrefix(override ...string) string { return "/" }
func (c *testExecCtx) ResolverRegistry() player.Registry    { return nil }
func (c *testExecCtx) App() app.App                         { return c.app }

func newFn(t *testing.T, url string) function.Function {
	t.Helper()
	fn, err := New(v1alpha1.Function{
		Name:       "cloudevent",
		CloudEvent: &v1alpha1.CloudEventFunction{URL: url},
	})
	require.NoError(t, err)
	return fn
}

func TestExecForwardsEvents(t *testing.T) {
	type received struct {
		contentType string
		body        []byte
	}
	got := make(chan received, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{r.Header.Get("Content-Type"), body}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := event.NewStream()
	stream.Start(ctx)
	execCtx := &testExecCtx{app: &testApp{stream: stream}}

	fn := newFn(t, srv.URL)
	done := make(chan error, 1)
	go func() { done <- fn.Exec(ctx, execCtx) }()

	e := event.NewSourceEvent(event.SourceResolvedEvent, "https://gw.example/ipfs/bafy", "video/mp4", "signature")
	stream.Pub(e)

	var r received
	select {
	case r = <-got:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded event")
	}
	assert.Equal(t, "application/cloudevents+json", r.contentType)

	var envelope struct {
		ID     string            `json:"id"`
		Source string            `json:"source"`
		Type   string            `json:"type"`
		Data   event.SourceEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(r.body, &envelope))
	assert.NotEmpty(t, envelope.ID)
	assert.Equal(t, "/play.nagare.media/function/cloudevent", envelope.Source)
	assert.Equal(t, "media.nagare.play.source-resolved", envelope.Type)
	assert.Equal(t, e, envelope.Data)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("function did not stop on context cancel")
	}
}

func TestExecStopsOnStreamClose(t *testing.T) {
	streamCtx, stopStream := context.WithCancel(context.Background())
	stream := event.NewStream()
	stream.Start(streamCtx)
	execCtx := &testExecCtx{app: &testApp{stream: stream}}

	fn := newFn(t, "http://localhost:0")
	done := make(chan error, 1)
	go func() { done <- fn.Exec(context.Background(), execCtx) }()

	// let the function subscribe before tearing the stream down
	time.Sleep(50 * time.Millisecond)
	stopStream()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("function did not stop when the event stream closed")
	}
}

func TestExecInvalidURL(t *testing.T) {
	stream := event.NewStream()
	execCtx := &testExecCtx{app: &testApp{stream: stream}}

	fn := newFn(t, "://not a url")
	assert.Error(t, fn.Exec(context.Background(), execCtx))
}

func TestSendEventStatus(t *testing.T) {
	e := event.NewSourceEvent(event.SourcePassthroughEvent, "https://cdn.example/a", "", "")

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		fn := newFn(t, srv.URL).(*cloudEvent)
		assert.NoError(t, fn.sendEvent(context.Background(), e))
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		fn := newFn(t, srv.URL).(*cloudEvent)
		assert.Error(t, fn.sendEvent(context.Background(), e))
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		fn := newFn(t, url).(*cloudEvent)
		assert.Error(t, fn.sendEvent(context.Background(), e))
	})
}
