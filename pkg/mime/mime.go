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

package mime

import "strings"

// Canonical MIME types understood by the playback engines nagare media play
// configures.
const (
	ApplicationMPEGURL = "application/x-mpegURL"
	VideoMP2T          = "video/mp2t"
	VideoMP4           = "video/mp4"
	VideoOgg           = "video/ogg"
	VideoWebM          = "video/webm"
	VideoXMsVideo      = "video/x-msvideo"
)

// Normalize collapses known alias MIME types into the canonical vocabulary.
// Unknown types are returned unchanged; it is up to the caller whether to
// accept them. Normalization is idempotent.
func Normalize(t string) string {
	if nt, ok := normalized[t]; ok {
		return nt
	}
	return t
}

// IsCanonical reports whether t is part of the canonical vocabulary.
func IsCanonical(t string) bool {
	return normalized[t] == t
}

// Bare strips any parameter suffix and surrounding whitespace from a MIME
// type as reported in a Content-Type header, e.g.
// "video/mp4; codecs=avc1.42E01E" becomes "video/mp4".
func Bare(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

func TypesExt(ext string) []string {
	return extToTypes[ext]
}

func PreferredTypeExt(ext string) string {
	if ts, ok := extToTypes[ext]; ok {
		return ts[0]
	}
	return ""
}

func MatchExt(t string, ext string) bool {
	if ts, ok := extToTypes[ext]; ok {
		for _, match := range ts {
			if t == match {
				return true
			}
		}
	}
	return false
}

var (
	normalized = map[string]string{
		// canonical types map to themselves so that normalizing twice equals
		// normalizing once
		ApplicationMPEGURL: ApplicationMPEGURL,
		VideoMP2T:          VideoMP2T,
		VideoMP4:           VideoMP4,
		VideoOgg:           VideoOgg,
		VideoWebM:          VideoWebM,
		VideoXMsVideo:      VideoXMsVideo,

		// RFC 8216 only allows "audio/mpegurl" and "application/vnd.apple.mpegurl"
		// Other MIME types are used according to https://en.wikipedia.org/wiki/M3U
		"application/mpegurl":           ApplicationMPEGURL,
		"application/vnd.apple.mpegurl": ApplicationMPEGURL,
		"application/x-mpegurl":         ApplicationMPEGURL,
		"audio/mpegurl":                 ApplicationMPEGURL,
		"audio/x-mpegurl":               ApplicationMPEGURL,

		// MP4, MOV and QuickTime share the ftyp box; playback engines treat them
		// identically
		"application/mp4":   VideoMP4,
		"video/quicktime":   VideoMP4,
		"video/x-m4v":       VideoMP4,
		"video/x-quicktime": VideoMP4,

		// WebM and Matroska share the EBML container
		"video/x-matroska": VideoWebM,

		"application/ogg": VideoOgg,
		"video/x-ogg":     VideoOgg,

		// RFC 3555 registered the uppercase form
		"video/MP2T": VideoMP2T,

		"video/avi":     VideoXMsVideo,
		"video/msvideo": VideoXMsVideo,
	}

	extToTypes = map[string][]string{
		".avi":  {VideoXMsVideo},
		".m3u":  {ApplicationMPEGURL},
		".m3u8": {ApplicationMPEGURL},
		".m4v":  {VideoMP4},
		".mkv":  {VideoWebM},
		".mov":  {VideoMP4},
		".mp4":  {VideoMP4},
		".ogg":  {VideoOgg},
		".ogv":  {VideoOgg},
		".ts":   {VideoMP2T},
		".webm": {VideoWebM},
	}
)
