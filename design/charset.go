// Copyright 2026 The nJoy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package design

import (
	"errors"
	"io"
	"os"
	"sync"

	gencoding "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// charsetEnv names the environment variable design/device-map loading
// consults for a legacy, non-UTF-8 source encoding, mirroring the
// teacher's own environment-driven charset selection in tScreen.Init/
// getCharset, and its local GetEncoding/RegisterEncoding registry
// (encoding.go) — rebuilt here against github.com/gdamore/encoding's
// real charmap tables instead of the teacher's manually-populated one.
const charsetEnv = "NJOY_DESIGN_CHARSET"

var (
	charsetLk sync.Mutex
	charsets  = map[string]encoding.Encoding{
		"CP437":     gencoding.CP437,
		"CP850":     gencoding.CP850,
		"CP852":     gencoding.CP852,
		"CP866":     gencoding.CP866,
		"ISO8859-1": gencoding.ISO8859_1,
		"ISO8859-2": gencoding.ISO8859_2,
		"ISO8859-9": gencoding.ISO8859_9,
		"KOI8-R":    gencoding.KOI8R,
		"KOI8-U":    gencoding.KOI8U,
	}
)

// getEncoding looks up a registered charset by name, nil if unknown.
func getEncoding(name string) encoding.Encoding {
	charsetLk.Lock()
	defer charsetLk.Unlock()
	return charsets[name]
}

func getCharset() string {
	if cs := os.Getenv(charsetEnv); cs != "" {
		return cs
	}
	return "UTF-8"
}

// decodingReader wraps r with a transform.Reader for the environment's
// declared charset, or returns r unchanged for UTF-8/US-ASCII (§4.9,
// grounded on tScreen.Init's encoder/decoder selection).
func decodingReader(r io.Reader) (io.Reader, error) {
	charset := getCharset()
	switch charset {
	case "UTF-8", "US-ASCII", "":
		return r, nil
	}
	enc := getEncoding(charset)
	if enc == nil {
		return nil, errors.New("njoy: no support for charset " + charset)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
