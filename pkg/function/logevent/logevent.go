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

package logevent

import (
	"context"

	"github.com/nagare-media/play/pkg/config/v1alpha1"
	"github.com/nagare-media/play/pkg/event"
	"github.com/nagare-media/play/pkg/function"
)

// logEvent writes source resolution events of the enclosing app to the log.
type logEvent struct {
	cfg v1alpha1.Function
}

func New(cfg v1alpha1.Function) (function.Function, error) {
	if err := function.CheckAndSetDefaults(&cfg); err != nil {
		return nil, err
	}

	return &logEvent{cfg: cfg}, nil
}

func (fn *logEvent) Config() v1alpha1.Function {
	return fn.cfg
}

func (fn *logEvent) Exec(ctx context.Context, execCtx function.ExecCtx) error {
	log := execCtx.Logger()

	eventStream := execCtx.App().EventStream().Sub()
	defer execCtx.App().EventStream().Desub(eventStream)

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-eventStream:
			if !ok {
				return nil
			}
			switch e := e.(type) {
			case event.SourceEvent:
				log.Infow("source resolved",
					"src", e.Src,
					"mimeType", e.MIMEType,
					"method", e.Method,
					"brand", e.Brand,
					"weak", e.Weak,
				)
			default:
				log.Infow("event", "type", e.EventType())
			}
		}
	}
}
