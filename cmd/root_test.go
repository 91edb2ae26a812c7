package cmd

import (
	"bytes"
	"testing"

	"github.com/gnames/gnanimal/pkg/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Version verifies -V prints version and build.
func TestGetRootCmd_Version(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "version: v1.2.3\nbuild:   abc123\n", buf.String())
}

// TestGetRootCmd_Subcommands verifies all subcommands are
// registered.
func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()

	var names []string
	for _, v := range cmd.Commands() {
		names = append(names, v.Name())
	}
	for _, v := range []string{"activate", "graph", "ddl", "import", "export"} {
		assert.Contains(t, names, v)
	}

	flag := cmd.PersistentFlags().Lookup("jobs")
	require.NotNil(t, flag, "--jobs flag should exist")
	assert.Equal(t, "j", flag.Shorthand)
}

// TestGetRootCmd_Modules verifies that help lists every module of
// the catalog.
func TestGetRootCmd_Modules(t *testing.T) {
	cmd := getRootCmd()
	for _, v := range element.Modules() {
		assert.Contains(t, cmd.Long, "  - "+v.Name+":", v.Name)
	}
}

// TestSubcommandArgs verifies positional arguments of subcommands.
func TestSubcommandArgs(t *testing.T) {
	root := getRootCmd()
	tests := []struct {
		msg  string
		args []string
		ok   bool
	}{
		{"activate module", []string{"activate", "subject"}, true},
		{"activate nothing", []string{"activate"}, false},
		{"activate two", []string{"activate", "subject", "surgery"}, false},
		{"graph all", []string{"graph"}, true},
		{"graph module", []string{"graph", "injection"}, true},
		{"graph two", []string{"graph", "subject", "surgery"}, false},
		{"ddl nothing", []string{"ddl"}, false},
		{"import file", []string{"import", "data.yaml"}, true},
		{"import nothing", []string{"import"}, false},
		{"export subjects", []string{"export", "S1", "S2"}, true},
		{"export nothing", []string{"export"}, false},
	}

	for _, v := range tests {
		cmd, args, err := root.Find(v.args)
		require.NoError(t, err, v.msg)
		err = cmd.ValidateArgs(args)
		if v.ok {
			assert.NoError(t, err, v.msg)
		} else {
			assert.Error(t, err, v.msg)
		}
	}
}

// TestGetRootCmd_InvalidCommand verifies error on unknown command.
func TestGetRootCmd_InvalidCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"populate"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
