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

// ErrCycle reports a cycle detected in the declared virtual-control input
// graph (§3 invariant 2: "The input DAG of virtual controls is acyclic").
type ErrCycle struct {
	Path []string
}

func (e *ErrCycle) Error() string {
	s := "njoy: cyclic virtual control input graph: "
	for i, n := range e.Path {
		if i > 0 {
			s += " -> "
		}
		s += n
	}
	return s
}

// dagNode is the minimal shape cycle-checking needs: a name and the
// names of its declared inputs.
type dagNode struct {
	name   string
	inputs []string
}

const (
	unvisited = iota
	visiting
	visited
)

// checkAcyclic runs a plain DFS over the declared virtual-control graph,
// rejecting any cycle before the core wires real Control objects
// together. A design with a handful of virtual controls needs nothing
// more elaborate than this (§4.9).
func checkAcyclic(nodes []dagNode) error {
	byName := make(map[string]dagNode, len(nodes))
	for _, n := range nodes {
		byName[n.name] = n
	}

	state := make(map[string]int, len(nodes))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return &ErrCycle{Path: append(append([]string(nil), path...), name)}
		}
		state[name] = visiting
		path = append(path, name)

		n, ok := byName[name]
		if ok {
			for _, in := range n.inputs {
				if err := visit(in); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		state[name] = visited
		return nil
	}

	for _, n := range nodes {
		if state[n.name] == unvisited {
			if err := visit(n.name); err != nil {
				return err
			}
		}
	}
	return nil
}
