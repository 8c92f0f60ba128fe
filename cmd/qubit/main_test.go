package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/logger"
)

func TestGivenEnv(t *testing.T) {
	env, err := givenEnv([]string{"rate = 0.5", "base=200", "half = base * rate"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "half", "rate"}, env.Vars())
	v, ok := env.Lookup("half")
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestGivenEnvErrors(t *testing.T) {
	cases := []struct {
		name  string
		given string
		want  string
	}{
		{"function", "f(x)=x", `bad variable definition "f(x)=x": not name=value`},
		{"parse", "x = 1 +", `bad variable definition "x = 1 +"`},
		{"reserved", "pi = 3", `bad variable definition "pi = 3"`},
		{"undefined", "x = y", "setting x:"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env, err := givenEnv([]string{c.given})
			require.Error(t, err)
			assert.Nil(t, env)
			assert.Contains(t, err.Error(), c.want)
			assert.NotContains(t, err.Error(), "<nil>")
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format:\n  precision: 4\nlog:\n  level: warn\n"), 0o644))
	cfg, err := loadConfig(flags{cfgname: path, prec: 6, group: true, loglevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, qubit.Format{Precision: 6, NaN: "-", GroupDigits: true}, cfg.QubitFormat())
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())

	_, err = loadConfig(flags{cfgname: path, prec: 40})
	assert.Error(t, err)
}

func TestRunErrorClosesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := loadConfig(flags{cfgname: path})
	require.NoError(t, err)
	// A failing run returns its error instead of exiting, so the caller
	// still closes the log.
	err = run(flags{given: []string{"f(x)=x"}}, cfg, logger.Discard())
	assert.ErrorContains(t, err, "not name=value")

	err = run(flags{editor: true, inname: filepath.Join(t.TempDir(), "missing")}, cfg, logger.Discard())
	assert.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	r := qubit.EvalText("x = 2\nx * 3\nnope")
	var buf bytes.Buffer
	printResult(&buf, qubit.DefaultFormat, r, true, true)
	out := buf.String()
	assert.Contains(t, out, "x = (2) : 2\n")
	assert.Contains(t, out, "((x) * (3)) : 6\n")
	assert.Contains(t, out, "total: 8")
	assert.False(t, math.IsNaN(r.Total))
}
