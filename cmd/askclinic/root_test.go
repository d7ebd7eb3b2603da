package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["ingest"])
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestCommandsFailWithoutAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ASKCLINIC_LLM_API_KEY", "")

	for _, sub := range []string{"serve", "ingest"} {
		t.Run(sub, func(t *testing.T) {
			root := newRootCommand()
			root.SetArgs([]string{sub})
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "llm.api_key is required")
		})
	}
}
