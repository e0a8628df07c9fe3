package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/axgraph/axes"
	"github.com/born-ml/axgraph/checkpoint"
)

func TestDemo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, "cpu", []string{"demo"}))
	assert.Equal(t, "0 + 1.5 = 1.5\n1 + 1.5 = 2.5\n2 + 1.5 = 3.5\n3 + 1.5 = 4.5\n4 + 1.5 = 5.5\n", out.String())
}

func TestBackendsAndVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, "cpu", []string{"backends"}))
	assert.Contains(t, out.String(), "cpu\n")

	out.Reset()
	require.NoError(t, run(context.Background(), &out, "cpu", []string{"version"}))
	assert.Contains(t, out.String(), version)

	assert.Error(t, run(context.Background(), &out, "cpu", []string{"bogus"}))
	assert.Error(t, run(context.Background(), &out, "nope", []string{"demo"}))
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckpt")
	f, err := os.Create(path)
	require.NoError(t, err)
	c := axes.NewAxis(3, "C")
	require.NoError(t, checkpoint.Encode(f, []checkpoint.Entry{
		{Name: "layer/W", Axes: axes.MustAxes(c), Data: []float32{1, 2, 3}},
	}, nil))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, "cpu", []string{"inspect", path}))
	assert.Contains(t, out.String(), "layer/W")
}
