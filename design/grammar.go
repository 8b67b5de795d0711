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

// Grammar types for the two text documents of §6: the design document
// (physical device declarations + virtual control declarations) and the
// device map document (a physical device's raw control ids rewritten to
// the aliases a design references). participle builds its parser
// directly from these struct tags; the engine never sees the documents'
// textual form again once parsing succeeds.

// designDocument is the root production of a design document:
//
//	nJoyDesign "<name>": <statement>*
type designDocument struct {
	Name       string       `"nJoyDesign" @String ":"`
	Statements []*statement `@@*`
}

// statement is one top-level declaration, either a physical device or a
// virtual control; ParseDesign sorts a parsed document's statements back
// into the two lists devices/controls care about.
type statement struct {
	Device  *deviceDecl      `  @@`
	Control *virtualCtrlDecl `| @@`
}

// deviceDecl declares a physical device referenced later by alias.
type deviceDecl struct {
	Alias string  `"device" "alias" "=" @String`
	Guid  *string `( "guid" "=" @String )?`
	Name  *string `( "name" "=" @String )?`
}

// virtualCtrlDecl declares one virtual control: its kind, the processor
// bound to it, and its ordered list of inputs.
type virtualCtrlDecl struct {
	Kind      string      `@("axis" | "button" | "hat")`
	Alias     *string     `( "alias" "=" @String )?`
	Processor string      `"processor" "=" @Ident`
	Inputs    []*inputRef `"inputs" "=" "[" @@ { ";" @@ } "]"`
}

// inputRef names one declared input by the alias of the device it lives
// on and its control id within that device's kind-specific table.
type inputRef struct {
	Device string `"dev" "=" @Ident`
	Ctrl   int    `"," "ctrl" "=" @Int`
}

// deviceMapDocument is the root production of a device map document:
//
//	nJoyDeviceMap "<device name>": <entry>*
type deviceMapDocument struct {
	DeviceName string             `"nJoyDeviceMap" @String ":"`
	Entries    []*deviceMapEntry  `{ @@ }`
}

// deviceMapEntry is one of the four entry forms; exactly one field is
// non-nil after a successful parse.
type deviceMapEntry struct {
	Axis    *axisMapEntry    `( @@`
	Button  *buttonMapEntry  `| @@`
	Hat     *hatMapEntry     `| @@`
	Neither *neitherMapEntry `| @@ )`
}

type axisMapEntry struct {
	ID      int      `"axis" @Int "=" ">"`
	Aliases []string `@Ident { "," @Ident }`
}

type buttonMapEntry struct {
	ID      int      `"button" @Int "=" ">"`
	Aliases []string `@Ident { "," @Ident }`
}

type hatMapEntry struct {
	ID        int      `"hat" @Int`
	Direction string   `@Ident ( @"-" @Ident )? "=" ">"`
	Aliases   []string `@Ident { "," @Ident }`
}

// neitherMapEntry is the "neither buttons" pseudo-button form: on only
// when every listed raw button id is off.
type neitherMapEntry struct {
	IDs     []int    `"neither" "buttons" @Int+ "=" ">"`
	Aliases []string `@Ident { "," @Ident }`
}
