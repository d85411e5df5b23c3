package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJob = `
title: oxygen sto reduction
element: o
method: linear
strategy: reduce
algorithm: mayfly
target: 1.0e-3
reoptAll: true
shellMins: [2, 1]
shells:
  - l: s
    exps: [100.0, 20.0, 4.0]
  - l: p
    exps: [5.0, 1.0]
`

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullJob(t *testing.T) {
	c, err := Load(writeJob(t, sampleJob))
	require.NoError(t, err)

	assert.Equal(t, "o", c.Element)
	assert.Equal(t, "reduce", c.Strategy)
	assert.Equal(t, "mayfly", c.Algorithm)
	assert.Equal(t, 1e-3, c.Target)
	assert.True(t, c.ReoptAll)
	assert.Equal(t, []int{2, 1}, c.ShellMins)
	require.Len(t, c.Shells, 2)
	assert.Equal(t, "p", c.Shells[1].L)

	// Untouched fields pick up defaults.
	assert.Equal(t, "energy", c.EvalType)
	assert.Equal(t, 18, c.MaxN)
	assert.Equal(t, -1, c.MaxL)
	assert.Equal(t, 1, c.NPass)
}

func TestLoadMinimalJobDefaults(t *testing.T) {
	c, err := Load(writeJob(t, "element: h\nshells:\n  - l: s\n    exps: [1.0]\n"))
	require.NoError(t, err)
	assert.Equal(t, "default", c.Strategy)
	assert.Equal(t, "neldermead", c.Algorithm)
	assert.Equal(t, 1e-5, c.Target)
}

func TestLoadEvenTemperNeedsNoShells(t *testing.T) {
	_, err := Load(writeJob(t, "element: c\nstrategy: eventemper\n"))
	assert.NoError(t, err)
}

func TestLoadRejectsBadJobs(t *testing.T) {
	cases := map[string]string{
		"missing element":  "strategy: default\nshells:\n  - l: s\n    exps: [1.0]\n",
		"unknown element":  "element: xx\nshells:\n  - l: s\n    exps: [1.0]\n",
		"unknown strategy": "element: h\nstrategy: magic\nshells:\n  - l: s\n    exps: [1.0]\n",
		"no shells":        "element: h\nstrategy: default\n",
		"short shellMins":  "element: o\nstrategy: reduce\nshellMins: [2]\nshells:\n  - l: s\n    exps: [1.0]\n  - l: p\n    exps: [1.0]\n",
		"bad shell label":  "element: h\nshells:\n  - l: z\n    exps: [1.0]\n",
		"not yaml":         "{{{",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeJob(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBuildBasis(t *testing.T) {
	c, err := Load(writeJob(t, sampleJob))
	require.NoError(t, err)

	b := c.BuildBasis()
	require.Len(t, b["o"], 2)
	assert.Equal(t, []float64{100.0, 20.0, 4.0}, b["o"][0].Exps)
	assert.Equal(t, "p", b["o"][1].L)
	require.Len(t, b["o"][0].Coefs, 3)
}
