// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset loads NumPy datasets and optionally shares them with an
// external numerical runtime.
//
// Example usage:
//
//	import "github.com/born-ml/dataset/dataset"
//
//	// Raw array, dtype as stored on disk.
//	res, err := dataset.Load("32-50K.npy", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Array.Shape())
//
//	// Shared handle at the runtime's precision.
//	strategy, _ := dataset.NewHostStrategy(tensor.Float32)
//	loader := dataset.New(dataset.Options{Strategy: strategy})
//	res, err = loader.Load("32-50K.npy", true)
package dataset

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/dataset/internal/arrowshare"
	"github.com/born-ml/dataset/internal/dataset"
	"github.com/born-ml/dataset/internal/metrics"
	"github.com/born-ml/dataset/internal/npy"
	"github.com/born-ml/dataset/tensor"
)

// DefaultPath is the dataset file loaded for an empty path.
const DefaultPath = dataset.DefaultPath

// DefaultPrecision is the precision of the default share strategy.
const DefaultPrecision = dataset.DefaultPrecision

// Error kinds, tested with errors.Is.
var (
	ErrNotFound  = npy.ErrNotFound
	ErrMalformed = npy.ErrMalformed
)

// Loader loads datasets.
type Loader = dataset.Loader

// Options configures a Loader.
type Options = dataset.Options

// Result is the outcome of a Load.
type Result = dataset.Result

// ShareStrategy is the capability an external runtime provides to the loader.
type ShareStrategy = dataset.ShareStrategy

// SharedHandle is an array boxed for an external runtime.
type SharedHandle = dataset.SharedHandle

// HostStrategy keeps shared handles in process memory.
type HostStrategy = dataset.HostStrategy

// ArrowStrategy shares arrays as Apache Arrow tensors.
type ArrowStrategy = arrowshare.Strategy

// ArrowHandle is the handle returned by ArrowStrategy.
type ArrowHandle = arrowshare.Handle

// Metrics holds the loader's Prometheus collectors.
type Metrics = metrics.Metrics

var defaultLoader = dataset.New(dataset.Options{})

// New creates a Loader.
func New(opts Options) *Loader {
	return dataset.New(opts)
}

// Load reads path with the default loader. With shared == false the raw
// array is returned; with shared == true a HostStrategy handle at
// DefaultPrecision is returned.
func Load(path string, shared bool) (*Result, error) {
	return defaultLoader.Load(path, shared)
}

// NewHostStrategy returns an in-process ShareStrategy for a float precision.
func NewHostStrategy(precision tensor.DataType) (*HostStrategy, error) {
	return dataset.NewHostStrategy(precision)
}

// NewArrowStrategy returns an Arrow ShareStrategy for float32 or float64.
func NewArrowStrategy(precision tensor.DataType) (*ArrowStrategy, error) {
	return arrowshare.New(precision)
}

// NewMetrics registers the loader's collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.New(reg)
}
