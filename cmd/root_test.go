package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grimm.is/nftjson/internal/nft"
	"grimm.is/nftjson/internal/schema"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, runner nft.CommandRunner, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(WithRunner(runner))
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.hcl")}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(t.Context())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruleset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const addTable = `{"nftables":[{"add":{"table":{"family":"ip","name":"t0"}}}]}`

func TestDecode_Canonical(t *testing.T) {
	r := run(t, nil, `{"nftables": [ {"add": {"table": {"name": "t0", "family": "ip"}}} ]}`, "decode", "--compact")
	require.NoError(t, r.err)
	assert.Equal(t, addTable+"\n", r.stdout)
}

func TestDecode_ErrorNamesPath(t *testing.T) {
	r := run(t, nil, `{"nftables":[{"add":{"table":{"family":"ipx","name":"t0"}}}]}`, "decode")
	var de *schema.DecodeError
	require.ErrorAs(t, r.err, &de)
	assert.Equal(t, "nftables[0].add.table.family", de.Path.String())
}

func TestDecode_Summary(t *testing.T) {
	path := writeFile(t, `{"nftables":[{"metainfo":{"json_schema_version":1}},{"table":{"family":"ip","name":"a"}},{"add":{"table":{"family":"ip","name":"b"}}}]}`)
	r := run(t, nil, "", "decode", "--summary", path)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "3 objects")
	assert.Contains(t, r.stdout, "add table")
	assert.Contains(t, r.stdout, "metainfo")
}

func TestApply(t *testing.T) {
	m := &nft.MockCommandRunner{}
	m.On("Run", addTable, "nft", "-j", "-f", "-").Return(nft.Output{}, nil).Once()

	r := run(t, m, addTable, "apply", "-")
	require.NoError(t, r.err)
	assert.Equal(t, "applied 1 objects\n", r.stdout)
	m.AssertExpectations(t)
}

func TestApply_Replace(t *testing.T) {
	m := &nft.MockCommandRunner{}
	want := `{"nftables":[{"flush":{"ruleset":null}},{"add":{"table":{"family":"ip","name":"t0"}}}]}`
	m.On("Run", want, "nft", "-j", "-f", "-").Return(nft.Output{}, nil).Once()

	r := run(t, m, "", "apply", "--replace", writeFile(t, `{"nftables":[{"table":{"family":"ip","name":"t0"}}]}`))
	require.NoError(t, r.err)
	m.AssertExpectations(t)
}

func TestApply_InvalidDocumentNeverReachesNft(t *testing.T) {
	m := &nft.MockCommandRunner{}
	r := run(t, m, `{"nftables":[{"add":{"tabel":{}}}]}`, "apply", "-")
	require.Error(t, r.err)
	m.AssertNotCalled(t, "Run")
}

func TestApply_FailurePropagates(t *testing.T) {
	m := &nft.MockCommandRunner{}
	m.On("Run", mock.Anything, "nft", "-j", "-f", "-").
		Return(nft.Output{ExitCode: 1, Stderr: []byte("Error: No such file or directory\n")}, nil).Once()

	r := run(t, m, addTable, "apply", "-")
	var pf *nft.ProcessFailedError
	require.ErrorAs(t, r.err, &pf)
	assert.Equal(t, 1, pf.ExitCode)
	assert.Equal(t, "Error: No such file or directory\n", pf.Stderr)
}

func TestCheck(t *testing.T) {
	m := &nft.MockCommandRunner{}
	m.On("Run", addTable, "nft", "-c", "-j", "-f", "-").Return(nft.Output{}, nil).Once()

	r := run(t, m, addTable, "check", "-")
	require.NoError(t, r.err)
	assert.Equal(t, "ruleset is valid\n", r.stdout)
}

func TestList(t *testing.T) {
	m := &nft.MockCommandRunner{}
	m.On("Run", "", "nft", "-j", "list", "tables").
		Return(nft.Output{Stdout: []byte(`{"nftables":[{"table":{"family":"ip","name":"t0","handle":3}}]}`)}, nil).Once()

	r := run(t, m, "", "list", "--compact", "list", "tables")
	require.NoError(t, r.err)
	assert.Equal(t, `{"nftables":[{"table":{"family":"ip","name":"t0","handle":3}}]}`+"\n", r.stdout)
}

func TestDiff(t *testing.T) {
	listed := `{"nftables":[{"metainfo":{"json_schema_version":1}},{"table":{"family":"ip","name":"old","handle":1}}]}`
	desired := `{"nftables":[{"table":{"family":"ip","name":"t0"}}]}`

	t.Run("commands", func(t *testing.T) {
		m := &nft.MockCommandRunner{}
		m.On("Run", "", "nft", "-j", "list", "ruleset").Return(nft.Output{Stdout: []byte(listed)}, nil).Once()

		r := run(t, m, desired, "diff", "--exit-code", "-")
		assert.ErrorIs(t, r.err, errDiffers)
		assert.Contains(t, r.stdout, `"delete"`)
		assert.Contains(t, r.stdout, `"add"`)
	})

	t.Run("unified", func(t *testing.T) {
		m := &nft.MockCommandRunner{}
		m.On("Run", "", "nft", "-j", "list", "ruleset").Return(nft.Output{Stdout: []byte(listed)}, nil).Once()

		r := run(t, m, desired, "diff", "-u", "-")
		require.NoError(t, r.err)
		assert.Contains(t, r.stdout, "--- running")
		assert.Contains(t, r.stdout, `-        "name": "old"`)
		assert.NotContains(t, r.stdout, "metainfo")
	})

	t.Run("apply", func(t *testing.T) {
		m := &nft.MockCommandRunner{}
		m.On("Run", "", "nft", "-j", "list", "ruleset").Return(nft.Output{Stdout: []byte(listed)}, nil).Once()
		m.On("Run", `{"nftables":[{"delete":{"table":{"family":"ip","name":"old"}}},{"add":{"table":{"family":"ip","name":"t0"}}}]}`,
			"nft", "-j", "-f", "-").Return(nft.Output{}, nil).Once()

		r := run(t, m, desired, "diff", "--apply", "-")
		require.NoError(t, r.err)
		m.AssertExpectations(t)
	})

	t.Run("identical", func(t *testing.T) {
		m := &nft.MockCommandRunner{}
		m.On("Run", "", "nft", "-j", "list", "ruleset").
			Return(nft.Output{Stdout: []byte(`{"nftables":[{"table":{"family":"ip","name":"t0","handle":9}}]}`)}, nil).Once()

		r := run(t, m, desired, "diff", "--exit-code", "-")
		require.NoError(t, r.err)
		assert.Equal(t, "No changes detected.\n", r.stdout)
	})
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nftjson.hcl")

	r := run(t, nil, "", "config", "init", path)
	require.NoError(t, r.err)
	assert.Equal(t, "wrote "+path+"\n", r.stdout)

	var stdout bytes.Buffer
	root := NewRootCommand()
	root.SetArgs([]string{"--config", path, "config", "show"})
	root.SetOut(&stdout)
	require.NoError(t, root.ExecuteContext(t.Context()))
	assert.Contains(t, stdout.String(), `program = "nft"`)

	r = run(t, nil, "", "config", "init", path)
	assert.ErrorContains(t, r.err, "already exists")
}

func TestNamespaceFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nftjson.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("nft {\n  namespace = \"ns0\"\n}\n"), 0o644))

	m := &nft.MockCommandRunner{}
	m.On("Run", addTable, "ip", "netns", "exec", "ns0", "nft", "-j", "-f", "-").Return(nft.Output{}, nil).Once()

	root := NewRootCommand(WithRunner(m))
	root.SetArgs([]string{"--config", cfgPath, "apply", "-"})
	root.SetIn(strings.NewReader(addTable))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.ExecuteContext(t.Context()))
	m.AssertExpectations(t)
}
