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

package njoy

import "fmt"

// HatValue enumerates the nine directions a hat (POV) switch can report.
// Diagonals are the bitwise OR of their two components, per the GLOSSARY.
type HatValue uint8

const (
	HatCenter HatValue = 0
	HatUp     HatValue = 1
	HatRight  HatValue = 2
	HatDown   HatValue = 4
	HatLeft   HatValue = 8

	HatUpRight   = HatUp | HatRight
	HatUpLeft    = HatUp | HatLeft
	HatDownRight = HatDown | HatRight
	HatDownLeft  = HatDown | HatLeft
)

// validHatValues is the set of the nine enumerated directions; any other
// 4-bit pattern (e.g. UP|DOWN) is not a direction the wire codec accepts.
var validHatValues = map[HatValue]bool{
	HatCenter: true, HatUp: true, HatRight: true, HatDown: true, HatLeft: true,
	HatUpRight: true, HatUpLeft: true, HatDownRight: true, HatDownLeft: true,
}

// IsValid reports whether v is one of the nine enumerated hat directions.
func (v HatValue) IsValid() bool {
	return validHatValues[v]
}

func (v HatValue) String() string {
	switch v {
	case HatCenter:
		return "center"
	case HatUp:
		return "up"
	case HatRight:
		return "right"
	case HatDown:
		return "down"
	case HatLeft:
		return "left"
	case HatUpRight:
		return "up-right"
	case HatUpLeft:
		return "up-left"
	case HatDownRight:
		return "down-right"
	case HatDownLeft:
		return "down-left"
	default:
		return fmt.Sprintf("HatValue(%d)", uint8(v))
	}
}

// hatDirectionNames maps the device-map grammar's direction spellings
// (§6) to their HatValue, used by the design parser (C9).
var hatDirectionNames = map[string]HatValue{
	"up": HatUp, "down": HatDown, "left": HatLeft, "right": HatRight,
	"up-left": HatUpLeft, "up-right": HatUpRight,
	"down-left": HatDownLeft, "down-right": HatDownRight,
}

// HatDirectionByName looks up a hat direction by its device-map spelling.
func HatDirectionByName(name string) (HatValue, bool) {
	v, ok := hatDirectionNames[name]
	return v, ok
}
