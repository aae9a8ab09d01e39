package dataset

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/born-ml/dataset/internal/metrics"
	"github.com/born-ml/dataset/internal/npy"
	"github.com/born-ml/dataset/internal/tensor"
)

// DefaultPath is the dataset file loaded when Load is given an empty path.
const DefaultPath = "32-50K.npy"

// Options configures a Loader. The zero value is ready to use.
type Options struct {
	Strategy ShareStrategy    // Runtime used for shared loads (default: HostStrategy at DefaultPrecision)
	Read     npy.ReadOptions  // File reading options
	Logger   *zerolog.Logger  // Debug events per load (default: disabled)
	Metrics  *metrics.Metrics // Prometheus collectors (default: none)
}

// Loader loads datasets. It is immutable and safe for concurrent use.
type Loader struct {
	strategy ShareStrategy
	read     npy.ReadOptions
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// Result is the outcome of a Load. Exactly one of Array and Shared is set.
type Result struct {
	Path   string            // File that was read
	Header npy.Header        // Header as stored on disk
	Array  *tensor.RawTensor // Raw array (shared == false)
	Shared SharedHandle      // Shared handle (shared == true)
}

// New creates a Loader from opts.
func New(opts Options) *Loader {
	l := &Loader{
		strategy: opts.Strategy,
		read:     opts.Read,
		log:      zerolog.Nop(),
		metrics:  opts.Metrics,
	}
	if l.strategy == nil {
		l.strategy = &HostStrategy{precision: DefaultPrecision}
	}
	if opts.Logger != nil {
		l.log = *opts.Logger
	}
	return l
}

// Strategy returns the strategy used for shared loads.
func (l *Loader) Strategy() ShareStrategy {
	return l.strategy
}

// Load reads the array stored at path ("" selects DefaultPath).
//
// With shared == false the array is returned with the dtype it has on disk.
// With shared == true it is cast to the strategy's precision (no copy when
// the dtype already matches) and handed to the strategy with borrowing
// allowed; the resulting handle is returned.
//
// File errors satisfy errors.Is(err, npy.ErrNotFound) or
// errors.Is(err, npy.ErrMalformed). Strategy errors are wrapped unchanged.
func (l *Loader) Load(path string, shared bool) (*Result, error) {
	if path == "" {
		path = DefaultPath
	}
	mode := metrics.ModeRaw
	if shared {
		mode = metrics.ModeShared
	}

	start := time.Now()
	res, err := l.load(path, shared)
	elapsed := time.Since(start)

	nbytes := 0
	if err == nil {
		nbytes = res.Header.ByteSize()
	}
	l.metrics.ObserveLoad(mode, nbytes, elapsed, err)

	if err != nil {
		l.log.Debug().Err(err).Str("path", path).Str("mode", mode).Msg("dataset load failed")
		return nil, err
	}

	l.log.Debug().
		Str("path", path).
		Str("mode", mode).
		Str("dtype", res.Header.DType.String()).
		Ints("shape", []int(res.Header.Shape)).
		Int("bytes", nbytes).
		Dur("elapsed", elapsed).
		Msg("dataset loaded")
	return res, nil
}

func (l *Loader) load(path string, shared bool) (*Result, error) {
	raw, hdr, err := npy.Load(path, l.read)
	if err != nil {
		return nil, err
	}
	if !shared {
		return &Result{Path: path, Header: hdr, Array: raw}, nil
	}

	cast := tensor.Cast(raw, l.strategy.Precision())
	handle, err := l.strategy.Share(cast, true)
	if err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", path, err)
	}
	return &Result{Path: path, Header: hdr, Shared: handle}, nil
}
