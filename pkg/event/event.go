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

type Type string

const (
	SourceResolvedEvent    Type = "source-resolved"
	SourcePassthroughEvent Type = "source-passthrough"
)

type Event interface {
	EventType() Type
}

// SourceEvent is published for every source handed to a resolver.
type SourceEvent struct {
	Type Type `json:"type"`

	// Src is the source URL.
	Src string `json:"src"`

	// MIMEType is the type the source left resolution with. Empty for
	// passthrough of an untyped non-gateway source.
	MIMEType string `json:"mimeType,omitempty"`

	// Method names the resolution path: explicit, extension, signature,
	// header or default.
	Method string `json:"method,omitempty"`

	// Brand is the ftyp major brand for MPEG-4 family containers, if known.
	Brand string `json:"brand,omitempty"`

	// Weak marks a classification resting on a single transport stream sync
	// byte.
	Weak bool `json:"weak,omitempty"`
}

func NewSourceEvent(t Type, src, mimeType, method string) SourceEvent {
	return SourceEvent{
		Type:     t,
		Src:      src,
		MIMEType: mimeType,
		Method:   method,
	}
}

func (e SourceEvent) EventType() Type { return e.Type }
