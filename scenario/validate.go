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
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Field names in errors come from
// the label tag so messages match what the operator sees on screen.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
}

// The check structs mirror the required fields of each section. Field order
// inside a struct is the order failures are reported in.

type nodeChecks struct {
	CenterLongitude string       `validate:"required" label:"center longitude"`
	CenterLatitude  string       `validate:"required" label:"center latitude"`
	Nodes           []NodeRecord `validate:"min=1" label:"nodes"`
}

type networkChecks struct {
	TotalTime         string `validate:"required" label:"total simulation time"`
	IterationInterval string `validate:"required" label:"iteration interval"`
	DataRate          string `validate:"required" label:"data rate"`
	PacketSize        string `validate:"required" label:"packet size"`
}

// Bandwidth, code rate and the flags always hold a value and are not checked.
type commChecks struct {
	ModOrder         string `validate:"required" label:"modOrder"`
	NumSymPerFrame   string `validate:"required" label:"numSymPerFrame"`
	NumFrames        string `validate:"required" label:"numFrames"`
	CarrierFrequency string `validate:"required" label:"fc"`
}

// Validate reports the first required field left empty, checking the node,
// network and comm sections in that order. Only presence is checked: values
// are never parsed, so placeholder text passes.
func Validate(doc *Document) error {
	checks := []struct {
		section Section
		value   any
	}{
		{SectionNode, nodeChecks{
			CenterLongitude: doc.Nodes.CenterLongitude,
			CenterLatitude:  doc.Nodes.CenterLatitude,
			Nodes:           doc.Nodes.Nodes,
		}},
		{SectionNetwork, networkChecks{
			TotalTime:         doc.Network.TotalTime,
			IterationInterval: doc.Network.IterationInterval,
			DataRate:          doc.Network.DataRate,
			PacketSize:        doc.Network.PacketSize,
		}},
		{SectionComm, commChecks{
			ModOrder:         doc.Comm.ModOrder,
			NumSymPerFrame:   doc.Comm.NumSymPerFrame,
			NumFrames:        doc.Comm.NumFrames,
			CarrierFrequency: doc.Comm.CarrierFrequency,
		}},
	}

	for _, c := range checks {
		if err := validate.Struct(c.value); err != nil {
			return toValidationError(c.section, err)
		}
	}
	return nil
}

func toValidationError(section Section, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %s settings: %w", section, err)
	}

	fe := fieldErrs[0]
	msg := fmt.Sprintf("%s must not be empty", fe.Field())
	if fe.Tag() == "min" {
		msg = "at least one node is required"
	}
	return &ValidationError{
		Section: section,
		Field:   fe.Field(),
		Message: msg,
	}
}
