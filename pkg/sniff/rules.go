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

package sniff

import (
	"bytes"
	"strings"

	"github.com/nagare-media/play/pkg/mime"
)

// Rule classifies a media container format from a byte prefix. All matchers
// bounds-check the prefix; a prefix shorter than a rule needs simply does not
// match.
type Rule interface {
	Match(prefix []byte) bool
	MIMEType() string
}

// Rules is the ordered signature table. Evaluation is first match wins; rules
// are ordered most specific first, with the weak transport stream sync byte
// check last.
var Rules = []Rule{
	TextPrefixRule{FirstByte: '#', Text: "#EXTM3U", Type: mime.ApplicationMPEGURL},
	ExactBytesRule{Offset: 4, Bytes: []byte("ftyp"), Type: mime.VideoMP4},
	ExactBytesRule{Bytes: []byte{0x1A, 0x45, 0xDF, 0xA3}, Type: mime.VideoWebM},
	ExactBytesRule{Bytes: []byte("OggS"), Type: mime.VideoOgg},
	RIFFSubtypeRule{Subtype: []byte("AVI "), Type: mime.VideoXMsVideo},
	SyncByteRule{Sync: 0x47, Interval: 188, Type: mime.VideoMP2T},
}

// Classify runs prefix through the signature table and returns the matched
// MIME type or "" if no rule matched.
func Classify(prefix []byte) string {
	if r := MatchRule(prefix); r != nil {
		return r.MIMEType()
	}
	return ""
}

// MatchRule returns the first rule matching prefix or nil.
func MatchRule(prefix []byte) Rule {
	for _, r := range Rules {
		if r.Match(prefix) {
			return r
		}
	}
	return nil
}

// ExactBytesRule matches fixed bytes at a fixed offset.
type ExactBytesRule struct {
	Offset int
	Bytes  []byte
	Type   string
}

func (r ExactBytesRule) Match(prefix []byte) bool {
	if len(prefix) < r.Offset+len(r.Bytes) {
		return false
	}
	return bytes.Equal(prefix[r.Offset:r.Offset+len(r.Bytes)], r.Bytes)
}

func (r ExactBytesRule) MIMEType() string { return r.Type }

// TextPrefixRule matches a literal text prefix. The decode to text is gated
// behind an exact first byte check so that binary data is not run through the
// text comparison.
type TextPrefixRule struct {
	FirstByte byte
	Text      string
	Type      string
}

func (r TextPrefixRule) Match(prefix []byte) bool {
	if len(prefix) == 0 || prefix[0] != r.FirstByte {
		return false
	}
	return strings.HasPrefix(string(prefix), r.Text)
}

func (r TextPrefixRule) MIMEType() string { return r.Type }

// RIFFSubtypeRule matches a RIFF container carrying the given subtype at
// bytes 8-11.
type RIFFSubtypeRule struct {
	Subtype []byte
	Type    string
}

var riffMagic = []byte("RIFF")

func (r RIFFSubtypeRule) Match(prefix []byte) bool {
	if len(prefix) < 8+len(r.Subtype) {
		return false
	}
	return bytes.Equal(prefix[0:4], riffMagic) && bytes.Equal(prefix[8:8+len(r.Subtype)], r.Subtype)
}

func (r RIFFSubtypeRule) MIMEType() string { return r.Type }

// SyncByteRule matches an MPEG transport stream by its sync byte. A single
// sync byte is a weak signal with a nontrivial false positive rate; the match
// is confident only if the sync byte repeats one packet length later. Both
// forms classify to the same type.
type SyncByteRule struct {
	Sync     byte
	Interval int
	Type     string
}

func (r SyncByteRule) Match(prefix []byte) bool {
	return len(prefix) > 0 && prefix[0] == r.Sync
}

// Confident reports whether the sync byte repeats at the packet interval.
func (r SyncByteRule) Confident(prefix []byte) bool {
	return r.Match(prefix) && len(prefix) > r.Interval && prefix[r.Interval] == r.Sync
}

func (r SyncByteRule) MIMEType() string { return r.Type }
