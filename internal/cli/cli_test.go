package cli

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{
		"drift", "advise", "resolve-conflicts",
		"guard", "mirror-status", "execute-safe-upgrade",
	}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestDriftCommandFlags(t *testing.T) {
	cmd := newDriftCommand()
	for _, name := range []string{"inventory", "contract", "output-dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestAdviseCommandFlags(t *testing.T) {
	cmd := newAdviseCommand()
	flags := []string{
		"inventory", "metadata", "contract", "mirror-dir",
		"output-dir", "conservative", "security-first",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestResolveConflictsCommandFlags(t *testing.T) {
	cmd := newResolveConflictsCommand()
	for _, name := range []string{"spec", "output-dir", "conservative"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestGuardCommandFlags(t *testing.T) {
	cmd := newGuardCommand()
	for _, name := range []string{"contract", "upgrades", "output-dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestMirrorStatusCommandFlags(t *testing.T) {
	cmd := newMirrorStatusCommand()
	for _, name := range []string{"mirror-dir", "upgrades", "output-dir", "sync"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestExecuteCommandFlags(t *testing.T) {
	cmd := newExecuteCommand()
	flags := []string{
		"contract", "upgrades", "checkpoint-dir", "output-dir",
		"pip", "batch-size", "no-rollback", "health-check",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	assert.True(t, resolveBool(nil, true, "test_key", "test-flag"))
	assert.False(t, resolveBool(nil, false, "test_key", "test-flag"))
}

func TestResolveInt(t *testing.T) {
	assert.Equal(t, 5, resolveInt(nil, 5, "test_key", "test-flag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "blocked verdict",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("guard verdict blocked: 2 violation(s)"),
			expected: 2,
		},
		{
			name: "needs review verdict",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("guard verdict needs_review: 1 violation(s)"),
			expected: 1,
		},
		{
			name: "execution not completed",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("execution finished rolled_back"),
			expected: 6,
		},
		{
			name: "generic failed precondition",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("something else failed"),
			expected: 4,
		},
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "already exists",
			err: errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("dup"),
			expected: 2,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("nope"),
			expected: 3,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("file missing"),
			expected: 5,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
