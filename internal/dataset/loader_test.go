package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dataset/internal/metrics"
	"github.com/born-ml/dataset/internal/npy"
	"github.com/born-ml/dataset/internal/tensor"
)

// saveFixture writes a .npy file holding data with the given shape.
func saveFixture[T tensor.DType](t *testing.T, name string, data []T, shape tensor.Shape) string {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, npy.Save(path, raw))
	return path
}

// recordingStrategy captures what the loader hands to the runtime.
type recordingStrategy struct {
	precision tensor.DataType
	got       *tensor.RawTensor
	borrow    bool
	err       error
}

func (s *recordingStrategy) Precision() tensor.DataType { return s.precision }

func (s *recordingStrategy) Share(array *tensor.RawTensor, borrow bool) (SharedHandle, error) {
	s.got, s.borrow = array, borrow
	if s.err != nil {
		return nil, s.err
	}
	return &HostHandle{array: array, borrowed: borrow}, nil
}

func TestLoadRawRoundTrip(t *testing.T) {
	want := []float32{0.5, 1, 2, 3.5, -4, 5}
	path := saveFixture(t, "raw.npy", want, tensor.Shape{2, 3})

	res, err := New(Options{}).Load(path, false)
	require.NoError(t, err)

	require.NotNil(t, res.Array)
	assert.Nil(t, res.Shared)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, tensor.Float32, res.Array.DType(), "raw load keeps the on-disk dtype")
	assert.Equal(t, tensor.Shape{2, 3}, res.Array.Shape())
	assert.Equal(t, want, res.Array.AsFloat32())
}

func TestLoadRawKeepsIntegerDType(t *testing.T) {
	path := saveFixture(t, "labels.npy", []int64{3, 1, 4, 1, 5}, tensor.Shape{5})

	res, err := New(Options{}).Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, res.Array.DType())
	assert.Equal(t, []int64{3, 1, 4, 1, 5}, res.Array.AsInt64())
}

func TestLoadSharedCastsToPrecision(t *testing.T) {
	path := saveFixture(t, "shared.npy", []float64{0.1, 0.2, 0.3, 1e40}, tensor.Shape{2, 2})

	strategy, err := NewHostStrategy(tensor.Float32)
	require.NoError(t, err)

	res, err := New(Options{Strategy: strategy}).Load(path, true)
	require.NoError(t, err)

	require.NotNil(t, res.Shared)
	assert.Nil(t, res.Array)
	assert.True(t, res.Shared.Borrowed())
	assert.Equal(t, tensor.Float32, res.Shared.Precision())

	arr := res.Shared.Array()
	assert.Equal(t, tensor.Shape{2, 2}, arr.Shape())
	want := []float64{0.1, 0.2, 0.3, 1e40}
	for i, v := range arr.AsFloat32() {
		assert.Equal(t, float32(want[i]), v, "element %d", i)
	}
	assert.Equal(t, tensor.Float64, res.Header.DType, "header still reports the stored dtype")
}

func TestLoadSharedPassesBorrowAndCastArray(t *testing.T) {
	path := saveFixture(t, "ints.npy", []int32{1, 2, 3}, tensor.Shape{3})
	strategy := &recordingStrategy{precision: tensor.Float16}

	res, err := New(Options{Strategy: strategy}).Load(path, true)
	require.NoError(t, err)

	assert.True(t, strategy.borrow, "loader must allow read-only sharing")
	require.NotNil(t, strategy.got)
	assert.Equal(t, tensor.Float16, strategy.got.DType())
	assert.Same(t, strategy.got, res.Shared.Array())

	got := strategy.got.AsFloat16()
	for i, want := range []float32{1, 2, 3} {
		assert.Equal(t, want, got[i].Float32())
	}
}

func TestLoadSharedMatchingDTypeIsView(t *testing.T) {
	path := saveFixture(t, "f64.npy", []float64{1, 2}, tensor.Shape{2})
	strategy := &recordingStrategy{precision: tensor.Float64}

	res, err := New(Options{Strategy: strategy}).Load(path, true)
	require.NoError(t, err)

	// No cast happened, so the handle aliases the loaded buffer itself.
	assert.Equal(t, []float64{1, 2}, res.Shared.Array().AsFloat64())
	assert.True(t, res.Shared.Value(true).SharesMemory(res.Shared.Array()))
	assert.False(t, res.Shared.Value(false).SharesMemory(res.Shared.Array()))
}

func TestLoadDefaultStrategyUsesDefaultPrecision(t *testing.T) {
	path := saveFixture(t, "u8.npy", []uint8{0, 128, 255}, tensor.Shape{3})

	l := New(Options{})
	assert.Equal(t, DefaultPrecision, l.Strategy().Precision())

	res, err := l.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 128, 255}, res.Shared.Array().AsFloat64())
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	dir := t.TempDir()
	raw, err := tensor.FromSlice([]float32{7}, tensor.Shape{1})
	require.NoError(t, err)
	require.NoError(t, npy.Save(filepath.Join(dir, DefaultPath), raw))
	t.Chdir(dir)

	res, err := New(Options{}).Load("", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, res.Path)
	assert.Equal(t, []float32{7}, res.Array.AsFloat32())
}

func TestLoadNotFound(t *testing.T) {
	l := New(Options{})
	for _, shared := range []bool{false, true} {
		_, err := l.Load(filepath.Join(t.TempDir(), "nonexistent.file"), shared)
		require.Error(t, err)
		assert.ErrorIs(t, err, npy.ErrNotFound)
	}
}

func TestLoadMalformed(t *testing.T) {
	header := func(dict string) []byte {
		// Version 1.0 preamble with a header that is not newline-terminated.
		b := []byte(npy.MagicBytes + "\x01\x00")
		b = append(b, byte(len(dict)), byte(len(dict)>>8))
		return append(b, dict...)
	}

	contents := map[string][]byte{
		"text":         []byte("definitely not a numpy array"),
		"no newline":   header("{'descr': '<f8', 'fortran_order': False, 'shape': (1,), }"),
		"no brace":     header("{'descr': '<f8', 'fortran_order': False, 'shape': (1,), \n"),
		"huge shape":   header("{'descr': '<f8', 'fortran_order': False, 'shape': (4611686018427387905,), }\n"),
		"wrapped size": header("{'descr': '<f8', 'fortran_order': False, 'shape': (4611686018427387904, 4), }\n"),
	}

	l := New(Options{})
	for name, data := range contents {
		path := filepath.Join(t.TempDir(), "corrupt.file")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		for _, shared := range []bool{false, true} {
			_, err := l.Load(path, shared)
			require.Error(t, err, name)
			assert.ErrorIs(t, err, npy.ErrMalformed, name)
		}
	}
}

func TestLoadStrategyErrorPropagates(t *testing.T) {
	path := saveFixture(t, "x.npy", []float32{1}, tensor.Shape{1})
	boom := errors.New("runtime unavailable")

	_, err := New(Options{Strategy: &recordingStrategy{precision: tensor.Float32, err: boom}}).Load(path, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, npy.ErrMalformed)
}

func TestLoadTwiceIndependent(t *testing.T) {
	path := saveFixture(t, "twice.npy", []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	l := New(Options{})

	a, err := l.Load(path, false)
	require.NoError(t, err)
	b, err := l.Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, a.Array.AsFloat64(), b.Array.AsFloat64())
	assert.False(t, a.Array.SharesMemory(b.Array))

	a.Array.AsFloat64()[0] = -1
	assert.Equal(t, 1.0, b.Array.AsFloat64()[0], "mutating one result must not affect the other")
}

func TestLoadIdempotent(t *testing.T) {
	path := saveFixture(t, "idem.npy", []int16{9, 8, 7}, tensor.Shape{3})
	l := New(Options{Read: npy.ReadOptions{UseMmap: true}})

	first, err := l.Load(path, true)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := l.Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, first.Header, again.Header)
		assert.Equal(t, first.Shared.Array().AsFloat64(), again.Shared.Array().AsFloat64())
	}
}

func TestLoadLogsDebugEvents(t *testing.T) {
	path := saveFixture(t, "logged.npy", []float32{1, 2}, tensor.Shape{1, 2})

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	l := New(Options{Logger: &logger})

	_, err := l.Load(path, false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"dataset loaded"`)
	assert.Contains(t, buf.String(), `"dtype":"float32"`)
	assert.Contains(t, buf.String(), `"shape":[1,2]`)

	buf.Reset()
	_, err = l.Load(filepath.Join(t.TempDir(), "missing.npy"), false)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"message":"dataset load failed"`)
}

func TestLoadRecordsMetrics(t *testing.T) {
	path := saveFixture(t, "metrics.npy", []float64{1, 2, 3}, tensor.Shape{3})
	corrupt := filepath.Join(t.TempDir(), "corrupt.npy")
	require.NoError(t, os.WriteFile(corrupt, []byte("junk"), 0o600))

	m := metrics.New(prometheus.NewRegistry())
	l := New(Options{Metrics: m})

	_, err := l.Load(path, false)
	require.NoError(t, err)
	_, err = l.Load(path, true)
	require.NoError(t, err)
	_, err = l.Load(corrupt, false)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues(metrics.ModeRaw, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues(metrics.ModeShared, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues(metrics.ModeRaw, metrics.ResultMalformed)))
	assert.Equal(t, 48.0, testutil.ToFloat64(m.BytesRead))
}

func TestNewHostStrategyRejectsNonFloat(t *testing.T) {
	_, err := NewHostStrategy(tensor.Int32)
	assert.Error(t, err)
}

func TestHostStrategyShare(t *testing.T) {
	s, err := NewHostStrategy(tensor.Float32)
	require.NoError(t, err)

	arr, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)

	borrowed, err := s.Share(arr, true)
	require.NoError(t, err)
	assert.True(t, borrowed.Array().SharesMemory(arr))

	owned, err := s.Share(arr, false)
	require.NoError(t, err)
	assert.False(t, owned.Borrowed())
	assert.False(t, owned.Array().SharesMemory(arr))

	wrong, err := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	require.NoError(t, err)
	_, err = s.Share(wrong, true)
	assert.Error(t, err, "strategy expects arrays already cast to its precision")
}
