package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fragments = []string{"C", "CC", "O", "N", "c1ccccc1", "C(=O)O", "Cl", "C#N", "OC", "C1CCCC1"}

// writeData writes n molecules built from two fragments and a chain of length m.
func writeData(t *testing.T, dir string, n int) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	for i := 0; i < n; i++ {
		a, b, m := fragments[i%len(fragments)], fragments[(i/len(fragments))%len(fragments)], i%5
		smiles := "C" + a + strings.Repeat("C", m) + b
		gap := 5 + 0.1*float64(len(a)) - 0.2*float64(m) + 0.05*float64(strings.Count(smiles, "c"))
		fmt.Fprintf(zw, `{"mol_id":"m%d","smiles":%q,"gap":%g}`+"\n", i, smiles, gap)
	}
	require.NoError(t, zw.Close())
	path := filepath.Join(dir, "data.jsonl.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunAndPredict(t *testing.T) {
	dir := t.TempDir()
	data := writeData(t, dir, 120)
	cfgPath := filepath.Join(dir, "moldesc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model:\n  cv: 3\n  n_alphas: 10\n"), 0o600))
	model := filepath.Join(dir, "model.json.gz")
	metrics := filepath.Join(dir, "moldesc.prom")

	out, err := execute(t, "run", "--config", cfgPath, "--data", data,
		"--components", "4,0", "--model-out", model, "--metrics-out", metrics,
		"--log-level", "error", "--output", "json")
	require.NoError(t, err)

	var summary struct {
		Molecules  int    `json:"molecules"`
		ModelPath  string `json:"model_path"`
		Evaluation struct {
			Results []struct {
				Components int     `json:"components"`
				R2         float64 `json:"r2"`
			} `json:"results"`
		} `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 120, summary.Molecules)
	assert.Equal(t, model, summary.ModelPath)
	require.Len(t, summary.Evaluation.Results, 2)
	assert.Equal(t, 4, summary.Evaluation.Results[0].Components)
	assert.FileExists(t, metrics)

	input := filepath.Join(dir, "new.smi")
	require.NoError(t, os.WriteFile(input, []byte("# new structures\nCCCO first\n\nC1CC broken\n"), 0o600))
	out, err = execute(t, "predict", "--model", model, "--input", input, "--log-level", "error", "CCN")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "prediction")
	assert.Contains(t, lines[1], "CCN")
	assert.Contains(t, lines[2], "first")
	assert.Contains(t, lines[3], "broken")
	assert.Contains(t, lines[3], "error:")
}

func TestDescriptorsCommand(t *testing.T) {
	dir := t.TempDir()
	data := writeData(t, dir, 30)
	csv := filepath.Join(dir, "descriptors.csv")

	out, err := execute(t, "descriptors", "--data", data, "--csv-out", csv, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "molecules")
	assert.Contains(t, out, "30 (0 failed to parse)")
	assert.FileExists(t, csv)
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "run", "--log-level", "error")
	assert.ErrorContains(t, err, "data.path")

	_, err = execute(t, "predict", "--log-level", "error", "CCO")
	assert.ErrorContains(t, err, "model")

	_, err = execute(t, "descriptors", "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "run", "--output", "xml")
	assert.Error(t, err)
}
