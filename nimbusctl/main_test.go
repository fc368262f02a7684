package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nimbusio/nimbusctl/launch"
	"github.com/nimbusio/nimbusctl/launch/defrag"
	"github.com/samber/lo"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// resetFlags puts every flag back to its default, flags otherwise keep their value
// between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			values := strings.Split(strings.Trim(f.DefValue, "[]"), ",")
			lo.Must0(slice.Replace(lo.Compact(values)))
		} else {
			lo.Must0(f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (stdout string, stderr string, code int) {
	t.Helper()
	resetFlags(nimbusctlCmd)

	var out, errOut bytes.Buffer
	nimbusctlCmd.SetOut(&out)
	nimbusctlCmd.SetErr(&errOut)
	nimbusctlCmd.SetArgs(args)

	err := nimbusctlCmd.ExecuteContext(context.Background())
	code = report(&out, &errOut, err)
	return out.String(), errOut.String(), code
}

func TestReport(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, report(&stdout, &stderr, nil))
	assert.Empty(t, stdout.String()+stderr.String())

	assert.Equal(t, 3, report(&stdout, &stderr, launch.ExitError{Name: "defragger", Code: 3}))
	assert.Empty(t, stdout.String()+stderr.String(), "the child reported its own failure")

	assert.Equal(t, 1, report(&stdout, &stderr, defrag.BasedirError{Path: "/nope"}))
	assert.Equal(t, "Directory does not exist: /nope\n", stdout.String())
	assert.Empty(t, stderr.String())

	stdout.Reset()
	assert.Equal(t, 1, report(&stdout, &stderr, errors.New("boom")))
	assert.Empty(t, stdout.String())
	assert.Equal(t, "boom\n", stderr.String())
}

func TestDefragMissingBasedir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	stdout, _, code := execute(t, "defrag", "--codebase", "/code", missing)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, missing)
}

func TestDefragRequiresBasedir(t *testing.T) {
	_, stderr, code := execute(t, "defrag", "--codebase", "/code")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "accepts 1 arg(s), received 0")
}

func TestDefragDryRun(t *testing.T) {
	stdout, _, code := execute(t, "defrag", "--codebase", "/code", "--dry-run", filepath.Join("testdata", "cluster"))
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "NIMBUSIO_NODE_NAME=sim-node-02 ")
	assert.Contains(t, stdout, "NIMBUSIO_NODE_NAME_SEQ='sim-node-01 sim-node-02' ")
	assert.True(t, strings.HasSuffix(stdout, " python /code/defragger/defragger_main.py\n"), stdout)
}

func TestDefragRun(t *testing.T) {
	script := filepath.Join(t.TempDir(), "defragger_main.sh")
	require.NoError(t, os.WriteFile(script, []byte(`echo "$NIMBUSIO_NODE_NAME"; exit 6`), 0644))

	stdout, _, code := execute(t, "defrag", "--interpreter", "sh", "--script", script, filepath.Join("testdata", "cluster"))
	assert.Equal(t, 6, code)
	assert.Equal(t, "sim-node-02\n", stdout)
}

func TestDocsDryRun(t *testing.T) {
	stdout, _, code := execute(t, "docs", "--codebase", "/code", "--dry-run")
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "(cd /code/docs && NIMBUSIO_NODE_NAME_SEQ='' "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], " CODEBASE=/code PYTHONPATH=/code make clean)"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " make html)"), lines[1])
}

func TestDocsTargets(t *testing.T) {
	stdout, _, code := execute(t, "docs", "--codebase", "/code", "--dry-run", "-t", "latexpdf")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasSuffix(stdout, " make latexpdf)\n"), stdout)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestDocsIgnoresArguments(t *testing.T) {
	withArgs, _, code := execute(t, "docs", "--codebase", "/code", "--dry-run", "extra", "args")
	require.Equal(t, 0, code)

	without, _, _ := execute(t, "docs", "--codebase", "/code", "--dry-run")
	assert.Equal(t, without, withArgs)
}

func TestDocsRun(t *testing.T) {
	codebase := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(codebase, "docs"), 0755))
	makePath := filepath.Join(t.TempDir(), "make")
	require.NoError(t, os.WriteFile(makePath, []byte("#!/bin/sh\necho \"make $1\"\n[ \"$1\" = html ] && exit 2\nexit 0\n"), 0755))

	stdout, _, code := execute(t, "docs", "--verbose", "--codebase", codebase, "--make", makePath)
	assert.Equal(t, 2, code)
	assert.Equal(t, "make clean\nmake html\n", stdout)
}

func TestEnvGolden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir(filepath.Join("testdata", "golden")))
	basedir := filepath.Join("testdata", "cluster")

	for name, args := range map[string][]string{
		"env_shell":      {"env", basedir},
		"env_json":       {"env", "-o", "json", basedir},
		"env_typed_json": {"env", "-o", "json", "--typed", "--strict", basedir},
	} {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, code := execute(t, append(args, "--codebase", "/code")...)
			require.Equal(t, 0, code, stderr)
			g.Assert(t, name, []byte(stdout))
		})
	}
}

func TestEnvYAML(t *testing.T) {
	stdout, stderr, code := execute(t, "env", "--codebase", "/code", "-o", "yaml", filepath.Join("testdata", "cluster"))
	require.Equal(t, 0, code, stderr)

	var values map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &values))
	assert.Equal(t, "8089", values["NIMBUSIO_WEB_SERVER_PORT"])
	assert.Equal(t, "/var/sim/repository/sim node 02", values["NIMBUSIO_REPOSITORY_PATH"])

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &node))
	mapping := node.Content[0]
	require.Len(t, mapping.Content, 16)
	assert.Equal(t, "NIMBUSIO_CLUSTER_NAME", mapping.Content[0].Value, "source order is kept")
	assert.Equal(t, "NIMBUSIO_REPOSITORY_PATH", mapping.Content[14].Value)
}

func TestEnvUnknownFormat(t *testing.T) {
	_, stderr, code := execute(t, "env", "--codebase", "/code", "-o", "toml", filepath.Join("testdata", "cluster"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format 'toml'")
}

func TestEnvMissingConfig(t *testing.T) {
	_, stderr, code := execute(t, "env", "--codebase", "/code", "--node", "2", filepath.Join("testdata", "cluster"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no node config found at "+filepath.Join("testdata", "cluster", "config", "node_02_config.sh"))
}

func TestVersion(t *testing.T) {
	stdout, _, code := execute(t, "version", "--codebase", "/code")
	require.Equal(t, 0, code)
	assert.Equal(t, "nimbusctl version dev (n/a)\ncodebase /code\n", stdout)
}

func TestInvalidLogLevel(t *testing.T) {
	_, stderr, code := execute(t, "version", "--log-level", "LOUD")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to parse log level")
}
