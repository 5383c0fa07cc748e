package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docket/internal/common"
)

const fixtures = "../../internal/extract/testdata"

type testEnv struct {
	dir    string
	config string
}

// newTestEnv copies the extraction fixtures into a temporary inbox and
// points the ledger at a temporary database.
func newTestEnv(t *testing.T, files ...string) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{dir: filepath.Join(root, "inbox"), config: filepath.Join(root, "config.yaml")}

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(fixtures, f))
		require.NoError(t, err)
		dst := filepath.Join(env.dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o750))
		require.NoError(t, os.WriteFile(dst, data, 0o600))
	}

	cfg := "ledger:\n  path: " + filepath.Join(root, "ledger.db") + "\nclassify:\n  workers: 2\n"
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0o600))
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassify(t *testing.T) {
	env := newTestEnv(t, "debit.json", "statement.json", "nested/letter.json", "nested/broken.pdf")

	out, err := env.run(t, "classify", env.dir)
	require.ErrorIs(t, err, ErrDocumentsFailed)

	assert.Contains(t, out, "debit.json = 2019.03.01 db debit ajuntament ibi ciencies.pdf")
	assert.Contains(t, out, "statement.json = 2018.04.24 citibankuk statement")
	assert.Contains(t, out, "letter.json --> UNKNOWN")
	assert.Contains(t, out, "broken.pdf: load")
	assert.Contains(t, out, "Classified:   2")
	assert.Contains(t, out, "Failed:       1")

	_, err = os.Stat(filepath.Join(env.dir, "debit.json"))
	require.NoError(t, err, "files are not renamed without --rename")

	again, err := env.run(t, "classify", env.dir)
	require.ErrorIs(t, err, ErrDocumentsFailed, "the broken document is retried")
	assert.Equal(t, 3, strings.Count(again, "(known: "))
	assert.Contains(t, again, "Skipped:      3")

	history, err := env.run(t, "history", "--status", "failed")
	require.NoError(t, err)
	assert.Contains(t, history, "broken.pdf")
	assert.NotContains(t, history, "debit.json")

	all, err := env.run(t, "history", "--bank", "db")
	require.NoError(t, err)
	assert.Contains(t, all, "2019.03.01 db debit ajuntament ibi ciencies.pdf")
}

func TestClassify_Rename(t *testing.T) {
	env := newTestEnv(t, "debit.json")

	out, err := env.run(t, "classify", "--rename", "--dry-run", env.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "= 2019.03.01 db debit ajuntament ibi ciencies.json")
	_, err = os.Stat(filepath.Join(env.dir, "debit.json"))
	require.NoError(t, err, "dry run leaves the file alone")

	_, err = env.run(t, "classify", "--rename", env.dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dir, "2019.03.01 db debit ajuntament ibi ciencies.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dir, "debit.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestClassify_NoLedger(t *testing.T) {
	env := newTestEnv(t, "statement.json")

	for range 2 {
		out, err := env.run(t, "classify", "--no-ledger", env.dir)
		require.NoError(t, err)
		assert.NotContains(t, out, "(known: ")
	}

	out, err := env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents")
}

func TestClassify_NoDocuments(t *testing.T) {
	env := newTestEnv(t, "readme.txt")

	_, err := env.run(t, "classify", env.dir)
	assert.ErrorIs(t, err, common.ErrNoDocuments)
}

func TestClassify_InvalidConfig(t *testing.T) {
	env := newTestEnv(t, "debit.json")

	_, err := env.run(t, "classify", "--workers", "-1", env.dir)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestClassify_ZeroWorkers(t *testing.T) {
	env := newTestEnv(t, "debit.json")

	out, err := env.run(t, "classify", "--workers", "0", env.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "= 2019.03.01 db debit ajuntament ibi ciencies.pdf")
}

func TestHistory_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "history", "--status", "done")
	assert.Error(t, err)
}

func TestBanksAndVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "banks")
	require.NoError(t, err)
	assert.Contains(t, out, "1. db")
	assert.Contains(t, out, "4. firstdirect")

	out, err = env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "docket version dev\n", out)
}
