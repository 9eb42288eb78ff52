package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tokfilter/internal/tokens"
)

// ---------------------------------------------------------------------------
// completion
// ---------------------------------------------------------------------------

func TestCompletion_Shells(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, completionShells())

	for _, shell := range completionShells() {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := executeCommand("completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "tokfilter")
		})
	}
}

func TestCompletion_InvalidShell(t *testing.T) {
	_, _, err := executeCommand("completion", "tcsh")
	require.Error(t, err)
}

func TestCompletion_ReportFormatValues(t *testing.T) {
	stdout, _, err := executeCommand("__complete", "--report-format", "")
	require.NoError(t, err)

	for _, v := range []string{"text", "json", "yaml"} {
		assert.Contains(t, stdout, v)
	}
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func TestWatch_MissingDirectory(t *testing.T) {
	_, _, err := executeCommand("watch", "--dir", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, err.Error(), "watching directory")
}

func TestWatch_RunsUntilCancelled(t *testing.T) {
	dir := writeDataset(t, tokens.Sequence{1, 99}, tokens.Sequence{2})

	ctx, cancel := context.WithCancel(context.Background())

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"watch", "--dir", dir, "--debounce", "10ms", "--quiet"})

	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(&syncBuffer{})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return fileExists(filepath.Join(dir, "meta_filtered.pkl"))
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "Removed 1 outliers from train")
}
