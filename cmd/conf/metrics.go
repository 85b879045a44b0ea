///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package conf

// Contains Metrics config params
type Metrics struct {
	// Listening address of the prometheus endpoint, disabled when empty
	Address string `yaml:"address"`
	// Where the run summary is written, disabled when empty
	Summary string `yaml:"summary"`
}
