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

import (
	"fmt"
	"strconv"
	"strings"
)

// Section identifies one group of configuration fields.
type Section string

const (
	SectionNode      Section = "node"
	SectionNetwork   Section = "network"
	SectionComm      Section = "comm"
	SectionHydrology Section = "hydrology"
)

// MACProtocol selects the medium access protocol.
type MACProtocol string

const (
	MACAloha   MACProtocol = "Aloha"
	MACJamming MACProtocol = "Jamming"

	DefaultMACProtocol = MACAloha
)

// MACProtocols lists the selectable MAC protocols in display order.
var MACProtocols = []MACProtocol{MACAloha, MACJamming}

// Valid reports whether m is a known protocol.
func (m MACProtocol) Valid() bool {
	for _, v := range MACProtocols {
		if m == v {
			return true
		}
	}
	return false
}

func (m MACProtocol) String() string { return string(m) }

// ParseMACProtocol converts stored text to a MACProtocol. Empty text yields the default.
func ParseMACProtocol(s string) (MACProtocol, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMACProtocol, nil
	}
	m := MACProtocol(s)
	if !m.Valid() {
		return "", fmt.Errorf("mac protocol %q: %w", s, ErrInvalidValue)
	}
	return m, nil
}

// RoutingProtocol selects the routing protocol.
type RoutingProtocol string

const (
	RoutingDummy RoutingProtocol = "Dummy"

	DefaultRoutingProtocol = RoutingDummy
)

// RoutingProtocols lists the selectable routing protocols.
var RoutingProtocols = []RoutingProtocol{RoutingDummy}

// Valid reports whether r is a known protocol.
func (r RoutingProtocol) Valid() bool {
	for _, v := range RoutingProtocols {
		if r == v {
			return true
		}
	}
	return false
}

func (r RoutingProtocol) String() string { return string(r) }

// ParseRoutingProtocol converts stored text to a RoutingProtocol. Empty text yields the default.
func ParseRoutingProtocol(s string) (RoutingProtocol, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRoutingProtocol, nil
	}
	r := RoutingProtocol(s)
	if !r.Valid() {
		return "", fmt.Errorf("routing protocol %q: %w", s, ErrInvalidValue)
	}
	return r, nil
}

// BandwidthIndex selects one of the seven supported channel bandwidths.
type BandwidthIndex int

const (
	MinBandwidthIndex BandwidthIndex = 1
	MaxBandwidthIndex BandwidthIndex = 7

	DefaultBandwidthIndex = MinBandwidthIndex
)

// BandwidthIndexes lists every selectable index in ascending order.
func BandwidthIndexes() []BandwidthIndex {
	out := make([]BandwidthIndex, 0, MaxBandwidthIndex)
	for i := MinBandwidthIndex; i <= MaxBandwidthIndex; i++ {
		out = append(out, i)
	}
	return out
}

// Valid reports whether b is within 1..7.
func (b BandwidthIndex) Valid() bool {
	return b >= MinBandwidthIndex && b <= MaxBandwidthIndex
}

func (b BandwidthIndex) String() string { return strconv.Itoa(int(b)) }

// ParseBandwidthIndex converts stored text to a BandwidthIndex. Empty text yields the default.
// Spreadsheets may hand back integral values as "3.0", which is accepted.
func ParseBandwidthIndex(s string) (BandwidthIndex, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBandwidthIndex, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("bandwidth index %q: %w", s, ErrInvalidValue)
	}
	b := BandwidthIndex(int(f))
	if !b.Valid() {
		return 0, fmt.Errorf("bandwidth index %q: %w", s, ErrInvalidValue)
	}
	return b, nil
}

// CodeRate selects the channel coding rate.
type CodeRate string

const (
	CodeRate1of2 CodeRate = "1/2"
	CodeRate2of3 CodeRate = "2/3"
	CodeRate3of4 CodeRate = "3/4"
	CodeRate5of6 CodeRate = "5/6"

	DefaultCodeRate = CodeRate1of2
)

// CodeRates lists the selectable code rates in display order.
var CodeRates = []CodeRate{CodeRate1of2, CodeRate2of3, CodeRate3of4, CodeRate5of6}

// Valid reports whether c is a known code rate.
func (c CodeRate) Valid() bool {
	for _, v := range CodeRates {
		if c == v {
			return true
		}
	}
	return false
}

func (c CodeRate) String() string { return string(c) }

// ParseCodeRate converts stored text to a CodeRate. Empty text yields the default.
func ParseCodeRate(s string) (CodeRate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCodeRate, nil
	}
	c := CodeRate(s)
	if !c.Valid() {
		return "", fmt.Errorf("code rate %q: %w", s, ErrInvalidValue)
	}
	return c, nil
}
