package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("toml", func(t *testing.T) {
		cfg, err := LoadConfig(write("rpn.toml", `
prompt = "rpn> "
history_file = "/tmp/rpn_history"
precision = 6
preload = ["lib.rpn", "units.rpn"]

[limits]
params = 64
calls = 8
`))
		require.NoError(t, err)
		if assert.NotNil(t, cfg.Prompt) {
			assert.Equal(t, "rpn> ", *cfg.Prompt)
		}
		assert.Nil(t, cfg.ContinuePrompt)
		assert.Equal(t, "/tmp/rpn_history", cfg.HistoryFile)
		assert.Equal(t, 6, cfg.Precision)
		assert.Equal(t, []string{"lib.rpn", "units.rpn"}, cfg.Preload)
		assert.Equal(t, &Limits{Params: 64, Calls: 8}, cfg.Limits)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := LoadConfig(write("rpn.yml", `
continue_prompt: "| "
trace: true
limits:
  strings: 16
`))
		require.NoError(t, err)
		assert.Nil(t, cfg.Prompt)
		if assert.NotNil(t, cfg.ContinuePrompt) {
			assert.Equal(t, "| ", *cfg.ContinuePrompt)
		}
		assert.True(t, cfg.Trace)
		assert.Equal(t, &Limits{Strings: 16}, cfg.Limits)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadConfig(write("bad.yaml", "limits: [1, 2"))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "yaml config parse error")
		}
	})

	t.Run("precision range", func(t *testing.T) {
		_, err := LoadConfig(write("prec.toml", "precision = 30\n"))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "invalid precision")
		}
	})
}

func TestConfig_Options(t *testing.T) {
	prompt := "rpn> "
	cfg := Config{
		Limits:    &Limits{Params: 2},
		Prompt:    &prompt,
		Precision: 3,
	}
	in := New(cfg.Options()...)

	assert.Equal(t, 2, in.params.Limit, "expected configured params limit")
	assert.Equal(t, defaultLimits.Calls, in.calls.Limit, "expected default calls limit")
	assert.Equal(t, "rpn> ", in.Prompt(false))
	assert.Equal(t, "... ", in.Prompt(true))
	assert.Equal(t, Integer(3), in.root.variable("precision").Value())

	assert.Empty(t, Config{}.Options(), "expected no options from an empty config")
}

func TestConfig_interp(t *testing.T) {
	cfg := Config{
		Precision: 3,
		Preload:   []string{"lib.rpn"},
	}
	interpTestCases{
		interpTest("configured").
			withOptions(cfg.Options()...).
			withFile("lib.rpn", `: third 1.0 3.0 / ;`).
			withInput(`third .`).
			expectOutput("0.333 "),
	}.run(t)
}
