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

// Package scenario holds the simulation scenario configuration and everything
// that reads, writes and checks it.
package scenario

// Document is the whole scenario configuration edited by the tool.
// All four sections are always present.
type Document struct {
	Nodes     NodeSection
	Network   NetworkSection
	Comm      CommSection
	Hydrology HydrologySection
}

// NodeSection holds the reference coordinate and the node list.
type NodeSection struct {
	CenterLongitude string
	CenterLatitude  string
	// Nodes are kept in display order, which is also save order.
	Nodes []NodeRecord
}

// NodeRecord is one simulated node. Position and velocity are free text.
type NodeRecord struct {
	ID         int
	X, Y, Z    string
	VX, VY, VZ string
}

// NetworkSection holds the network simulation parameters.
type NetworkSection struct {
	TotalTime         string
	IterationInterval string
	DataRate          string
	PacketSize        string
	MAC               MACProtocol
	Routing           RoutingProtocol
}

// CommSection holds the radio link parameters.
type CommSection struct {
	BandwidthIndex   BandwidthIndex
	ModOrder         string
	CodeRate         CodeRate
	NumSymPerFrame   string
	NumFrames        string
	CarrierFrequency string

	EnableFading         bool
	ChannelVisualization bool
	EnableCFO            bool
	EnableCPE            bool
}

// HydrologySection is an imported table whose header is only known at import time.
// Rows are positionally aligned to Columns.
type HydrologySection struct {
	Columns []string
	Rows    [][]string
}

// NewDocument returns a document with every section at its default.
func NewDocument() *Document {
	return &Document{
		Network: NetworkSection{
			MAC:     DefaultMACProtocol,
			Routing: DefaultRoutingProtocol,
		},
		Comm: CommSection{
			BandwidthIndex: DefaultBandwidthIndex,
			CodeRate:       DefaultCodeRate,
		},
	}
}

// Empty reports whether the section carries no data rows.
func (h HydrologySection) Empty() bool {
	return len(h.Rows) == 0
}

// Validate checks that every row has exactly one cell per column.
func (h HydrologySection) Validate() error {
	for i, row := range h.Rows {
		if len(row) != len(h.Columns) {
			return &RowWidthError{Row: i, Got: len(row), Want: len(h.Columns)}
		}
	}
	return nil
}
