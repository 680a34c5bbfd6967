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

package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvTimeout(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestStreamFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStream()
	s.Start(ctx)

	sub1 := s.Sub()
	sub2 := s.SubBuf(1)

	e := NewSourceEvent(SourceResolvedEvent, "https://gw.example/ipfs/bafy", "video/mp4", "signature")
	s.Pub(e)

	assert.Equal(t, e, recvTimeout(t, sub1))
	assert.Equal(t, e, recvTimeout(t, sub2))
}

func TestStreamDesub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStream()
	s.Start(ctx)

	keep := s.Sub()
	drop := s.Sub()
	s.Desub(drop)

	// dropped subscriber channel is closed
	_, ok := <-drop
	assert.False(t, ok)

	s.Pub(NewSourceEvent(SourcePassthroughEvent, "https://cdn.example/a", "", ""))
	e := recvTimeout(t, keep)
	require.IsType(t, SourceEvent{}, e)
	assert.Equal(t, SourcePassthroughEvent, e.EventType())
}

func TestStreamSlowSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewStream()
	s.Start(ctx)

	// never drained beyond its buffer of one
	stalled := s.SubBuf(1)
	healthy := s.Sub()

	e1 := NewSourceEvent(SourceResolvedEvent, "https://gw.example/ipfs/a", "video/mp4", "default")
	e2 := NewSourceEvent(SourceResolvedEvent, "https://gw.example/ipfs/b", "video/webm", "signature")
	s.Pub(e1)
	s.Pub(e2)

	// the stalled subscriber must not hold up delivery to the healthy one
	got := []Event{recvTimeout(t, healthy), recvTimeout(t, healthy)}
	assert.ElementsMatch(t, []Event{e1, e2}, got)
	assert.NotNil(t, recvTimeout(t, stalled))
}

func TestStreamCloseOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := NewStream()
	s.Start(ctx)
	sub := s.Sub()

	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed")
	}

	// deferred unsubscribes after shutdown must not close twice
	assert.NotPanics(t, func() { s.Desub(sub) })
}
