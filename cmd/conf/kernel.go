////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package conf

import "time"

// Contains the synthetic kernel's config params
type Kernel struct {
	CPULatency time.Duration `yaml:"cpuLatency"`
	GPULatency time.Duration `yaml:"gpuLatency"`
}
