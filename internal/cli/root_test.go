package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/internal/models"
	"square-feet-api/internal/snapshot"
)

// executeCommand runs a command with the given args and captures output.
// Every run uses the memory store and an empty config directory.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--config", t.TempDir(), "--driver", "memory"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	_, err := executeCommand(t, "--help")
	require.NoError(t, err)
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	configFlag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "./config", configFlag.DefValue)
	assert.NotNil(t, root.PersistentFlags().Lookup("driver"))
}

func TestSubcommandsRejectArgs(t *testing.T) {
	for _, name := range []string{"create-table", "generate", "load", "export", "reconcile"} {
		t.Run(name, func(t *testing.T) {
			_, err := executeCommand(t, name, "extra")
			assert.Error(t, err)
		})
	}
}

func TestGenerateWritesSnapshot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data", "properties.json")

	output, err := executeCommand(t, "generate", "--count", "5", "--seed", "7", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, output, "Generated 5 properties")

	props, err := snapshot.Read(context.Background(), nil, snapshot.Location{Path: out})
	require.NoError(t, err)
	require.Len(t, props, 5)
	for _, p := range props {
		assert.NotEmpty(t, p.PropertyID)
		assert.True(t, p.Status.Valid())
		assert.Equal(t, "Hyderabad", p.Address.City)
	}
}

func TestGenerateFixedStatus(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pending.json")

	_, err := executeCommand(t, "generate", "--count", "3", "--status", "pending", "--out", out)
	require.NoError(t, err)

	props, err := snapshot.Read(context.Background(), nil, snapshot.Location{Path: out})
	require.NoError(t, err)
	for _, p := range props {
		assert.Equal(t, models.StatusPending, p.Status)
		assert.Nil(t, p.ApprovedAt)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero count", []string{"generate", "--count", "0"}},
		{"unknown status", []string{"generate", "--status", "archived"}},
		{"bad s3 location", []string{"generate", "--out", "s3://bucket-only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.json")
	_, err := executeCommand(t, "generate", "--count", "4", "--out", path)
	require.NoError(t, err)

	output, err := executeCommand(t, "load", "--in", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Loaded 4 properties")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := executeCommand(t, "load", "--in", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644))

	_, err := executeCommand(t, "load", "--in", path)
	assert.Error(t, err)
}

func TestExportRequiresOut(t *testing.T) {
	_, err := executeCommand(t, "export")
	assert.Error(t, err)
}

func TestExportEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")

	output, err := executeCommand(t, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Exported 0 properties")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCreateTableMemory(t *testing.T) {
	output, err := executeCommand(t, "create-table")
	require.NoError(t, err)
	assert.Contains(t, output, "Schema ready for memory store")
}

func TestReconcilePrintsReport(t *testing.T) {
	output, err := executeCommand(t, "reconcile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"examined":0,"duplicates":[]}`, output)
}

func TestUnknownDriver(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"--config", t.TempDir(), "--driver", "sqlite", "reconcile"})
	err := root.Execute()
	assert.ErrorContains(t, err, "unknown store driver")
}
