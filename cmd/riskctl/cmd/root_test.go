package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsramaa/trading-journal/config"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	require.NoError(t, err, buf.String())
	return buf.String()
}

// The commands share package-level flag state, so the flow runs in one test.
func TestCLI(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, "version")
	assert.Contains(t, out, "riskctl version")

	cfgPath := filepath.Join(dir, "riskctl.yaml")
	out = execute(t, "config", "init", "-o", cfgPath)
	assert.Contains(t, out, cfgPath)

	c, err := config.LoadFromFile(cfgPath)
	require.NoError(t, err)
	c.Store.DBPath = filepath.Join(dir, "journal.db")
	c.Account.UserID = "cli-user"
	c.Metrics.Textfile = filepath.Join(dir, "riskctl.prom")
	require.NoError(t, c.SaveToFile(cfgPath))

	out = execute(t, "config", "validate", "-f", cfgPath)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "cli-user")

	out = execute(t, "--config", cfgPath, "size", "--balance", "10000", "--risk", "2", "--entry", "100", "--stop", "95")
	assert.Contains(t, out, "$200.00")
	assert.Contains(t, out, "40.000000")

	out = execute(t, "--config", cfgPath, "orchestrate", "--calendar", "1", "--regime", "0.7", "--volatility", "0.5")
	assert.Contains(t, out, "Reduce 50% (high risk)")
	assert.Contains(t, out, "volatility")

	out = execute(t, "--config", cfgPath, "style", "swing")
	assert.Contains(t, out, "1-4 weeks")

	out = execute(t, "--config", cfgPath, "style", "swing", "--event-in", "24")
	assert.Contains(t, out, "yes")
	styleEventIn = -1

	out = execute(t, "--config", cfgPath, "profile", "init")
	assert.Contains(t, out, "5.00%")

	out = execute(t, "--config", cfgPath, "day", "open", "--instrument", "BTCUSDT", "--entry", "100", "--stop", "92")
	assert.Contains(t, out, "25.00%")

	out = execute(t, "--config", cfgPath, "day", "pnl", "--amount", "-400")
	assert.Contains(t, out, "80.00% (warning_70)")
	assert.Contains(t, out, "warning_70")

	out = execute(t, "--config", cfgPath, "events", "--from", "2000-01-01", "--to", "2100-01-01")
	assert.Contains(t, out, "warning_70")

	out = execute(t, "--config", cfgPath, "assess", "--entry", "100", "--stop", "92")
	assert.Contains(t, out, "DAILY_LOSS_LIMIT")
	assert.Contains(t, out, "remaining budget $100.00")

	out = execute(t, "--config", cfgPath, "journal", "record",
		"--instrument", "BTCUSDT", "--units", "1", "--entry", "100", "--stop", "95", "--exit", "90")
	assert.Contains(t, out, "** Trade: BTCUSDT long")
	assert.Contains(t, out, ":R_MULTIPLE: -2.00")

	out = execute(t, "--config", cfgPath, "journal", "today")
	assert.Contains(t, out, "BTCUSDT")

	_, err = os.Stat(filepath.Join(dir, "riskctl.prom"))
	assert.NoError(t, err)
}
