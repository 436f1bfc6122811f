// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scenario

import "fmt"

// NodeField names an editable column of the node table.
type NodeField int

const (
	NodeFieldID NodeField = iota
	NodeFieldX
	NodeFieldY
	NodeFieldZ
	NodeFieldVX
	NodeFieldVY
	NodeFieldVZ
)

// NodeFieldCount is the number of node table columns, id included.
const NodeFieldCount = 7

// AddNode appends an empty node whose id is the current node count.
func (s *NodeSection) AddNode() NodeRecord {
	n := NodeRecord{ID: len(s.Nodes)}
	s.Nodes = append(s.Nodes, n)
	return n
}

// DeleteNode removes the node at index i and renumbers the rest.
func (s *NodeSection) DeleteNode(i int) error {
	if i < 0 || i >= len(s.Nodes) {
		return fmt.Errorf("delete node %d: %w", i, ErrNodeIndex)
	}
	s.Nodes = append(s.Nodes[:i], s.Nodes[i+1:]...)
	s.Renumber()
	return nil
}

// Renumber assigns ids 0..n-1 in list order.
func (s *NodeSection) Renumber() {
	for i := range s.Nodes {
		s.Nodes[i].ID = i
	}
}

// SetNodeField edits one cell of node i. The id column is read-only.
func (s *NodeSection) SetNodeField(i int, field NodeField, value string) error {
	if i < 0 || i >= len(s.Nodes) {
		return fmt.Errorf("edit node %d: %w", i, ErrNodeIndex)
	}
	n := &s.Nodes[i]
	switch field {
	case NodeFieldID:
		return ErrNodeIDReadOnly
	case NodeFieldX:
		n.X = value
	case NodeFieldY:
		n.Y = value
	case NodeFieldZ:
		n.Z = value
	case NodeFieldVX:
		n.VX = value
	case NodeFieldVY:
		n.VY = value
	case NodeFieldVZ:
		n.VZ = value
	default:
		return fmt.Errorf("node field %d: %w", field, ErrInvalidValue)
	}
	return nil
}

// Field returns the text of one column; the id is formatted in decimal.
func (n NodeRecord) Field(field NodeField) string {
	switch field {
	case NodeFieldID:
		return fmt.Sprintf("%d", n.ID)
	case NodeFieldX:
		return n.X
	case NodeFieldY:
		return n.Y
	case NodeFieldZ:
		return n.Z
	case NodeFieldVX:
		return n.VX
	case NodeFieldVY:
		return n.VY
	case NodeFieldVZ:
		return n.VZ
	}
	return ""
}
