// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dataset/dataset"
)

func TestLoadErrorsArePublic(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nonexistent.file"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
	assert.NotErrorIs(t, err, dataset.ErrMalformed)
}

func TestDefaultLoaderPrecision(t *testing.T) {
	l := dataset.New(dataset.Options{})
	assert.Equal(t, dataset.DefaultPrecision, l.Strategy().Precision())
	assert.Equal(t, "32-50K.npy", dataset.DefaultPath)
}
