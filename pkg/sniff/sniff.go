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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	mp4ff "github.com/edgeware/mp4ff/mp4"

	"github.com/nagare-media/play/pkg/mime"
)

const (
	// DefaultMaxPrefixSize is the number of leading bytes fetched per probe. It
	// is large enough to contain every signature in the table (including a full
	// transport stream packet boundary at offset 188) while staying cheap
	// enough to run on every resolved source.
	DefaultMaxPrefixSize = 201

	DefaultTimeout = 5 * time.Second
)

// Method describes how a probe arrived at its result.
type Method string

const (
	MethodNone      Method = ""
	MethodSignature Method = "signature"
	MethodHeader    Method = "header"
)

// Result of a single probe. A zero Result means detection was inconclusive;
// callers must treat it as "unknown", never as a failure.
type Result struct {
	// Type is the detected MIME type or "" if no signature matched and no
	// usable Content-Type header was present.
	Type string

	// Method is the detection path that produced Type.
	Method Method

	// Brand is the ftyp major brand for MPEG-4 family containers, if the box
	// could be parsed. Diagnostic only.
	Brand string

	// Weak is set when the match rests on a single transport stream sync byte
	// without the repetition at the packet interval.
	Weak bool
}

// Options configure a Sniffer. The zero value selects defaults.
type Options struct {
	// Client used for probe requests. Defaults to http.DefaultClient.
	Client *http.Client

	// MaxPrefixSize is the number of leading bytes requested and inspected.
	MaxPrefixSize int

	// Timeout bounds a single probe. A probe that never resolves would
	// otherwise stall source resolution indefinitely.
	Timeout time.Duration
}

// Sniffer classifies the media container format of a remote resource by
// inspecting a short byte prefix. It keeps no state across probes; repeated
// detection of the same URL fetches again.
type Sniffer struct {
	client    *http.Client
	maxPrefix int
	timeout   time.Duration
}

func New(opts Options) *Sniffer {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.MaxPrefixSize <= 0 {
		opts.MaxPrefixSize = DefaultMaxPrefixSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Sniffer{
		client:    opts.Client,
		maxPrefix: opts.MaxPrefixSize,
		timeout:   opts.Timeout,
	}
}

// Detect fetches the leading bytes of url with a byte range request and runs
// them through the signature table, falling back to the normalized transport
// Content-Type header. Network failures of any kind degrade to a zero Result;
// Detect never reports an error. No retries are attempted.
func (s *Sniffer) Detect(ctx context.Context, url string) Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", s.maxPrefix-1))

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}
	}
	defer resp.Body.Close() //nolint

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return Result{}
	}

	// the server may ignore the Range header and send the full resource; only
	// the first maxPrefix bytes are inspected regardless
	prefix := make([]byte, s.maxPrefix)
	n, err := io.ReadFull(resp.Body, prefix)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Result{}
	}
	prefix = prefix[:n]

	if r := MatchRule(prefix); r != nil {
		res := Result{
			Type:   r.MIMEType(),
			Method: MethodSignature,
		}
		switch r := r.(type) {
		case SyncByteRule:
			res.Weak = !r.Confident(prefix)
		case ExactBytesRule:
			if bytes.Equal(r.Bytes, []byte("ftyp")) {
				res.Brand = ftypMajorBrand(prefix)
			}
		}
		return res
	}

	// content-addressed gateways do not always set this correctly, so the
	// transport header is consulted last
	if ct := mime.Bare(resp.Header.Get("Content-Type")); ct != "" {
		return Result{
			Type:   mime.Normalize(ct),
			Method: MethodHeader,
		}
	}

	return Result{}
}

// ftypMajorBrand decodes the leading ftyp box and returns its major brand, or
// "" if the box cannot be parsed from the prefix.
func ftypMajorBrand(prefix []byte) string {
	box, err := mp4ff.DecodeBox(0, bytes.NewReader(prefix))
	if err != nil {
		return ""
	}
	ftyp, ok := box.(*mp4ff.FtypBox)
	if !ok {
		return ""
	}
	return ftyp.MajorBrand()
}
