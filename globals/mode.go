////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package globals

import (
	"github.com/pkg/errors"
	"strings"
)

// Mode selects what a single unit of simulation work represents.
type Mode uint8

const (
	// ProbeScan: every unit is one electron-probe scan position
	ProbeScan Mode = iota

	// PlaneWaveTilts: every unit is one plane-wave tilt
	PlaneWaveTilts

	numModes
)

var modeNames = [numModes]string{"probe", "tilt"}

func (m Mode) String() string {
	if m >= numModes {
		return "INVALID MODE"
	}
	return modeNames[m]
}

// ParseMode returns the Mode with the given name. An empty name is ProbeScan.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ProbeScan, nil
	}
	for i, name := range modeNames {
		if strings.EqualFold(name, s) {
			return Mode(i), nil
		}
	}
	return ProbeScan, errors.Errorf("unknown simulation mode %q", s)
}

// Algorithm is the propagation method used by the kernels.
type Algorithm uint8

const (
	Multislice Algorithm = iota
	PRISM

	numAlgorithms
)

var algorithmNames = [numAlgorithms]string{"multislice", "prism"}

func (a Algorithm) String() string {
	if a >= numAlgorithms {
		return "INVALID ALGORITHM"
	}
	return algorithmNames[a]
}

// ParseAlgorithm returns the Algorithm with the given name. An empty name is
// PRISM.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return PRISM, nil
	}
	for i, name := range algorithmNames {
		if strings.EqualFold(name, s) {
			return Algorithm(i), nil
		}
	}
	return PRISM, errors.Errorf("unknown algorithm %q", s)
}
