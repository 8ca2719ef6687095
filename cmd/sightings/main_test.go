package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config whose paths all live under dir
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	content := fmt.Sprintf(`seed: 11
k_nearest_neighbor: 3
min_site_separation_meters: 300
cap_start_hr: 8
date_range:
  start_date: "2023-03-01"
  num_days: 2
workers: 2
paths:
  candidates: %[1]s/candidates.csv
  sites: %[1]s/sites.csv
  subscribers: %[1]s/subscribers.csv
  output: %[1]s/out/records.csv
database:
  path: %[1]s/sightings.db
logging:
  level: error
`, filepath.ToSlash(dir))
	path := filepath.Join(dir, "sightings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := run(t, "candidates", "--config", cfg, "--n", "60", "--bbox", "121.03,14.49,121.10,14.56")
	require.NoError(t, err)

	_, err = run(t, "dedup", "--config", cfg)
	require.NoError(t, err)
	sites, err := os.ReadFile(filepath.Join(dir, "sites.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sites), "site_id,coordinate\nglo-cel-001,POINT"), string(sites))

	_, err = run(t, "subscribers", "--config", cfg, "--n", "5")
	require.NoError(t, err)

	out, err := run(t, "generate", "--config", cfg, "--json")
	require.NoError(t, err)
	var report struct {
		Run struct {
			ID          string `json:"id"`
			Subscribers int    `json:"subscribers"`
			Records     int    `json:"records"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.Run.ID)
	assert.Equal(t, 5, report.Run.Subscribers)
	assert.GreaterOrEqual(t, report.Run.Records, 10)

	records, err := os.ReadFile(filepath.Join(dir, "out", "records.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(records)), "\n")
	assert.Equal(t, "record_id,subscriber_id,site_id,date,hour", lines[0])
	assert.Len(t, lines, report.Run.Records+1)
	assert.True(t, strings.HasPrefix(lines[1], "glo-txn-00001,glo-sub-001,"))
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	t.Setenv("SIGHTINGS_CAP_START_HR", "24")

	_, err := run(t, "generate", "--config", cfg, "--no-db")
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "out", "records.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sightings version "+version)
}
