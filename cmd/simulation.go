////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"context"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"gitlab.com/elixxir/prism/cmd/conf"
	"gitlab.com/elixxir/prism/internal/measure"
	"gitlab.com/elixxir/prism/services"
	"gitlab.com/elixxir/prism/storage"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
)

// StartSimulation reads configuration options, runs one simulation to
// completion and records its outcome. The run is cancelled when ctx is done.
func StartSimulation(ctx context.Context, vip *viper.Viper) (*services.Summary, error) {
	jww.INFO.Printf("Config Filename: %v", vip.ConfigFileUsed())

	params, err := conf.NewParams(vip)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to load params")
	}

	def, err := params.ConvertToDefinition()
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to build run definition")
	}
	jww.INFO.Printf("Run %s parameters: %s", def.ID, def.Params)

	// Initialize the backend
	store, err := storage.NewStorage(
		params.Database.Username,
		params.Database.Password,
		params.Database.Name,
		params.Database.Address,
		params.Database.Port,
		params.DevMode,
	)
	if err != nil {
		return nil, errors.Errorf("Unable to initialize storage: %+v", err)
	}

	collectors := measure.NewCollectors()
	if params.Metrics.Address != "" {
		reg := prometheus.NewRegistry()
		if err = collectors.Register(reg); err != nil {
			return nil, err
		}
		go serveMetrics(params.Metrics.Address, reg)
	}

	def.Collectors = collectors
	def.Reporter = services.MultiReporter(services.NewLogReporter(def.ID, 10),
		collectors)
	def.Hook = store.ChunkHook(def.ID)

	run, err := services.NewRun(def)
	if err != nil {
		return nil, err
	}

	if err = store.StartRun(run); err != nil {
		return nil, errors.WithMessagef(err, "Could not record run %s", def.ID)
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	go monitorMemoryUsage(monitorCtx, run.GetResources(),
		performanceCheckPeriod, deltaMemoryThreshold)

	summary, runErr := run.Execute(ctx)
	stopMonitor()

	if err = store.EndRun(summary); err != nil {
		jww.ERROR.Printf("Could not record the outcome of run %s: %+v",
			def.ID, err)
	}

	if runErr == nil {
		if err = store.Coverage(def.ID); err != nil {
			runErr = errors.WithMessagef(err, "run %s", def.ID)
		}
	}

	if params.Metrics.Summary != "" {
		if err = writeSummary(params.Metrics.Summary, summary); err != nil {
			jww.ERROR.Printf("Could not write the summary of run %s: %+v",
				def.ID, err)
		}
	}

	return summary, runErr
}

// serveMetrics exposes reg on /metrics at address
func serveMetrics(address string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	jww.INFO.Printf("Serving metrics on %s/metrics", address)
	jww.ERROR.Println(http.ListenAndServe(address, mux))
}

// writeSummary saves the summary as YAML, expanding a leading ~ in path
func writeSummary(path string, summary *services.Summary) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	data, err := summary.Marshal()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}
