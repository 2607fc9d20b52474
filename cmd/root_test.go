package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, name := range []string{"scrape", "competitors", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "brand-insights", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestScrapeCommand_Flags(t *testing.T) {
	flag := scrapeCmd.Flags().Lookup("save")
	require.NotNil(t, flag, "scrape command should have --save flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestCompetitorsCommand_Flags(t *testing.T) {
	flag := competitorsCmd.Flags().Lookup("discover")
	require.NotNil(t, flag, "competitors command should have --discover flag")

	limit := competitorsCmd.Flags().Lookup("limit")
	require.NotNil(t, limit, "competitors command should have --limit flag")
	assert.Equal(t, "5", limit.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
