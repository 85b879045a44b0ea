///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package conf

import (
	"github.com/spf13/viper"
	"gitlab.com/elixxir/prism/globals"
	"gitlab.com/elixxir/prism/kernel"
	"gitlab.com/elixxir/prism/services"
	"reflect"
	"testing"
	"time"
)

var ExpectedDatabase = Database{
	Name:     "prism",
	Username: "prism",
	Password: "password",
	Address:  "127.0.0.1",
	Port:     "5432",
}

var ExpectedDevices = Devices{
	Devices: globals.Devices{
		NumThreads:       8,
		NumGPUs:          2,
		NumStreamsPerGPU: 3,
		AlsoDoCPUWork:    true,
	},
	EarlyStop: EarlyStop{
		Policy:  PolicyThroughput,
		CPURate: 2,
		GPURate: 16,
	},
}

var ExpectedMetrics = Metrics{
	Address: "0.0.0.0:9090",
	Summary: "~/.prism/summary.yaml",
}

func loadParams(t *testing.T) *Params {
	vip := viper.New()
	vip.AddConfigPath(".")
	vip.SetConfigFile("params.yaml")

	err := vip.ReadInConfig()
	if err != nil {
		t.Fatalf("Failed to read in params.yaml into viper: %+v", err)
	}

	params, err := NewParams(vip)
	if err != nil {
		t.Fatalf("Failed in unmarshaling from viper object: %+v", err)
	}
	return params
}

func TestNewParams_ReturnsParamsWhenGivenValidViper(t *testing.T) {
	params := loadParams(t)

	expectedSim := Simulation{Mode: "probe", Algorithm: "prism",
		ProbesX: 64, ProbesY: 48, BatchSize: 16}
	if !reflect.DeepEqual(expectedSim, params.Simulation) {
		t.Errorf("Params simulation value does not match expected value"+
			"\n\texpected: %+v\n\treceived: %+v", expectedSim, params.Simulation)
	}

	if !reflect.DeepEqual(ExpectedDevices, params.Devices) {
		t.Errorf("Params devices value does not match expected value"+
			"\n\texpected: %+v\n\treceived: %+v", ExpectedDevices, params.Devices)
	}

	if !reflect.DeepEqual(ExpectedDatabase, params.Database) {
		t.Errorf("Params database value does not match expected value"+
			"\n\texpected: %+v\n\treceived: %+v", ExpectedDatabase, params.Database)
	}

	if !reflect.DeepEqual(ExpectedMetrics, params.Metrics) {
		t.Errorf("Params metrics value does not match expected value")
	}

	if params.Kernel.CPULatency != 2*time.Millisecond ||
		params.Kernel.GPULatency != 250*time.Microsecond {
		t.Errorf("Unexpected kernel latencies: %+v", params.Kernel)
	}

	if params.RunID != "stem-test" {
		t.Errorf("Unexpected run ID %q", params.RunID)
	}

	if params.LogPath != "~/.prism/prism.log" {
		t.Errorf("Unexpected log path %q", params.LogPath)
	}

	if !params.DevMode {
		t.Errorf("Expected dev mode to be set")
	}
}

// An empty config fills in defaults.
func TestNewParams_Defaults(t *testing.T) {
	params, err := NewParams(viper.New())
	if err != nil {
		t.Fatalf("NewParams() failed: %+v", err)
	}

	if params.Simulation.BatchSize != 1 {
		t.Errorf("Expected default batch size 1, got %d",
			params.Simulation.BatchSize)
	}
	if params.Devices.NumThreads == 0 {
		t.Errorf("Expected the thread count to default to the core count")
	}
	if !params.Devices.AlsoDoCPUWork {
		t.Errorf("Expected CPU work to be enabled by default")
	}
	if params.Devices.NumStreamsPerGPU != 0 {
		t.Errorf("Streams per GPU set without GPUs: %d",
			params.Devices.NumStreamsPerGPU)
	}
	if params.LogPath != "./prism.log" {
		t.Errorf("Unexpected default log path %q", params.LogPath)
	}
}

// GPUs without a stream count get the default number of streams.
func TestNewParams_DefaultStreams(t *testing.T) {
	vip := viper.New()
	vip.Set("devices.numGPUs", 2)
	vip.Set("devices.numThreads", 0)

	params, err := NewParams(vip)
	if err != nil {
		t.Fatalf("NewParams() failed: %+v", err)
	}
	if params.Devices.NumStreamsPerGPU != defaultStreamsPerGPU {
		t.Errorf("Expected %d streams per GPU, got %d", defaultStreamsPerGPU,
			params.Devices.NumStreamsPerGPU)
	}
	if params.Devices.NumThreads != 0 {
		t.Errorf("Explicit zero threads was overridden: %d",
			params.Devices.NumThreads)
	}
}

func TestNewParams_BadMode(t *testing.T) {
	vip := viper.New()
	vip.Set("simulation.mode", "hrtem")
	if _, err := NewParams(vip); err == nil {
		t.Errorf("Expected an error for an unknown mode")
	}

	vip = viper.New()
	vip.Set("simulation.algorithm", "bloch")
	if _, err := NewParams(vip); err == nil {
		t.Errorf("Expected an error for an unknown algorithm")
	}
}

func TestParams_ConvertToDefinition(t *testing.T) {
	params := loadParams(t)

	def, err := params.ConvertToDefinition()
	if err != nil {
		t.Fatalf("ConvertToDefinition() failed: %+v", err)
	}

	if def.ID != "stem-test" {
		t.Errorf("Unexpected run ID %q", def.ID)
	}
	if def.Params.NumPositions() != 64*48 {
		t.Errorf("Unexpected number of positions %d", def.Params.NumPositions())
	}
	if def.Params.Algorithm != globals.PRISM || def.Params.Mode != globals.ProbeScan {
		t.Errorf("Unexpected parameters: %s", def.Params)
	}

	expectedPolicy := services.ThroughputPolicy{CPURate: 2, GPURate: 16,
		NumGPUStreams: 6, ChunkSize: 16}
	if !reflect.DeepEqual(expectedPolicy, def.Policy) {
		t.Errorf("Unexpected policy"+
			"\n\texpected: %+v\n\treceived: %+v", expectedPolicy, def.Policy)
	}

	k, ok := def.Kernel.(*kernel.Synthetic)
	if !ok {
		t.Fatalf("Unexpected kernel type %T", def.Kernel)
	}
	if k.CPULatency != 2*time.Millisecond {
		t.Errorf("Unexpected CPU latency %s", k.CPULatency)
	}

	// The definition builds a run
	if _, err = services.NewRun(def); err != nil {
		t.Errorf("NewRun() failed: %+v", err)
	}
}

// Without a configured ID every definition gets its own.
func TestParams_ConvertToDefinition_GeneratedID(t *testing.T) {
	params := loadParams(t)
	params.RunID = ""

	def, err := params.ConvertToDefinition()
	if err != nil {
		t.Fatalf("ConvertToDefinition() failed: %+v", err)
	}
	if def.ID == "" {
		t.Errorf("Expected a generated run ID")
	}
}

func TestParams_ConvertToDefinition_Invalid(t *testing.T) {
	params := loadParams(t)
	params.Simulation.ProbesX = 0
	if _, err := params.ConvertToDefinition(); err == nil {
		t.Errorf("Expected an error for a scan without positions")
	}

	params = loadParams(t)
	params.Devices.EarlyStop.Policy = "sometimes"
	if _, err := params.ConvertToDefinition(); err == nil {
		t.Errorf("Expected an error for an unknown policy")
	}
}
