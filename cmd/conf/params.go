///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package conf

import (
	"fmt"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"gitlab.com/elixxir/prism/globals"
	"gitlab.com/elixxir/prism/kernel"
	"gitlab.com/elixxir/prism/services"
	"net"
	"runtime"
	"time"
)

// The default number of streams opened on each GPU
const defaultStreamsPerGPU = 3

// This object is used to build a run.
// It should be constructed using a viper object
type Params struct {
	RunID      string     `yaml:"runID"`
	Simulation Simulation `yaml:"simulation"`
	Devices    Devices    `yaml:"devices"`
	Kernel     Kernel     `yaml:"kernel"`
	Database   Database   `yaml:"database"`
	Metrics    Metrics    `yaml:"metrics"`
	LogPath    string     `yaml:"log"`

	DevMode bool `yaml:"devMode"`
}

// Contains the scan config params
type Simulation struct {
	Mode      string `yaml:"mode"`
	Algorithm string `yaml:"algorithm"`
	ProbesX   uint64 `yaml:"probesX"`
	ProbesY   uint64 `yaml:"probesY"`
	NumTilts  uint64 `yaml:"numTilts"`
	BatchSize uint64 `yaml:"batchSize"`
}

// NewParams gets elements of the viper object
// and updates the params object. It returns params
// unless it fails to parse in which it case returns error
func NewParams(vip *viper.Viper) (*Params, error) {

	var err error

	params := Params{}

	params.RunID = vip.GetString("runID")

	params.Simulation.Mode = vip.GetString("simulation.mode")
	if _, err = globals.ParseMode(params.Simulation.Mode); err != nil {
		return nil, err
	}
	params.Simulation.Algorithm = vip.GetString("simulation.algorithm")
	if _, err = globals.ParseAlgorithm(params.Simulation.Algorithm); err != nil {
		return nil, err
	}
	params.Simulation.ProbesX = vip.GetUint64("simulation.probesX")
	params.Simulation.ProbesY = vip.GetUint64("simulation.probesY")
	params.Simulation.NumTilts = vip.GetUint64("simulation.numTilts")

	params.Simulation.BatchSize = vip.GetUint64("simulation.batchSize")
	if params.Simulation.BatchSize == 0 {
		params.Simulation.BatchSize = 1
	}

	// An unset thread count uses every core; zero is an explicit choice
	if vip.IsSet("devices.numThreads") {
		params.Devices.NumThreads = vip.GetUint32("devices.numThreads")
	} else {
		params.Devices.NumThreads = uint32(runtime.NumCPU())
	}
	params.Devices.NumGPUs = vip.GetUint32("devices.numGPUs")
	params.Devices.NumStreamsPerGPU = vip.GetUint32("devices.numStreamsPerGPU")
	if params.Devices.NumGPUs > 0 && params.Devices.NumStreamsPerGPU == 0 {
		params.Devices.NumStreamsPerGPU = defaultStreamsPerGPU
	}
	vip.SetDefault("devices.alsoDoCPUWork", true)
	params.Devices.AlsoDoCPUWork = vip.GetBool("devices.alsoDoCPUWork")

	params.Devices.EarlyStop.Policy = vip.GetString("devices.earlyStop.policy")
	params.Devices.EarlyStop.Reserve = vip.GetUint64("devices.earlyStop.reserve")
	params.Devices.EarlyStop.CPURate = vip.GetFloat64("devices.earlyStop.cpuRate")
	params.Devices.EarlyStop.GPURate = vip.GetFloat64("devices.earlyStop.gpuRate")

	params.Kernel.CPULatency = vip.GetDuration("kernel.cpuLatency")
	params.Kernel.GPULatency = vip.GetDuration("kernel.gpuLatency")

	// Obtain database connection info
	rawAddr := vip.GetString("database.address")
	var addr, port string
	if rawAddr != "" {
		addr, port, err = net.SplitHostPort(rawAddr)
		if err != nil {
			jww.FATAL.Panicf("Unable to get database port from %s: %+v", rawAddr, err)
		}
	}
	params.Database.Name = vip.GetString("database.name")
	params.Database.Username = vip.GetString("database.username")
	params.Database.Password = vip.GetString("database.password")
	params.Database.Address = addr
	params.Database.Port = port

	params.Metrics.Address = vip.GetString("metrics.address")
	params.Metrics.Summary = vip.GetString("metrics.summary")

	params.LogPath = vip.GetString("log")
	if params.LogPath == "" {
		params.LogPath = "./prism.log"
	}

	params.DevMode = vip.GetBool("devMode")

	return &params, nil
}

// Parameters builds the simulation parameter snapshot
func (p *Params) Parameters() (*globals.Parameters, error) {
	mode, err := globals.ParseMode(p.Simulation.Mode)
	if err != nil {
		return nil, err
	}
	algorithm, err := globals.ParseAlgorithm(p.Simulation.Algorithm)
	if err != nil {
		return nil, err
	}

	pars := &globals.Parameters{
		Mode:      mode,
		Algorithm: algorithm,
		ProbesX:   p.Simulation.ProbesX,
		ProbesY:   p.Simulation.ProbesY,
		NumTilts:  p.Simulation.NumTilts,
		BatchSize: p.Simulation.BatchSize,
		Devices:   p.Devices.Devices,
	}
	return pars, pars.Validate()
}

// Create a new Definition object from the Params object
func (p *Params) ConvertToDefinition() (*services.Definition, error) {
	pars, err := p.Parameters()
	if err != nil {
		return nil, errors.WithMessage(err, "Could not build simulation parameters")
	}

	policy, err := p.Devices.EarlyStop.NewPolicy(pars.Devices, pars.BatchSize)
	if err != nil {
		return nil, err
	}

	runID := p.RunID
	if runID == "" {
		runID = fmt.Sprintf("prism-%d", time.Now().UnixNano())
	}

	def := &services.Definition{
		ID:     runID,
		Params: pars,
		Kernel: &kernel.Synthetic{
			CPULatency: p.Kernel.CPULatency,
			GPULatency: p.Kernel.GPULatency,
		},
		Policy: policy,
	}

	return def, nil
}
