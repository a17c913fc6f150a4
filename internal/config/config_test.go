package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/nftjson/internal/logging"
)

func TestLoad_Full(t *testing.T) {
	src := `
schema_version = "1.0"

nft {
  program = "/usr/sbin/nft"
  args    = ["--handle"]
  dir     = "/tmp"
}

log {
  level = "debug"
  json  = true
}

decode {
  allow_unknown_fields = true
}

metrics {
  listen   = "127.0.0.1:9000"
  interval = "1m"
}
`
	cfg, err := Load([]byte(src), "nftjson.hcl")
	require.NoError(t, err)

	assert.Equal(t, "/usr/sbin/nft", cfg.NFT.Program)
	assert.Equal(t, []string{"--handle"}, cfg.NFT.Args)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.True(t, cfg.Decode.AllowUnknownFields)

	cc := cfg.ClientConfig()
	assert.Equal(t, "/usr/sbin/nft", cc.Program)
	assert.Equal(t, []string{"--handle"}, cc.Args)
	assert.Equal(t, "/tmp", cc.Dir)
	assert.True(t, cc.Decode.AllowUnknownFields)

	lc, err := cfg.LoggingConfig()
	require.NoError(t, err)
	assert.Equal(t, logging.LevelDebug, lc.Level)
	assert.True(t, lc.JSON)

	d, err := cfg.MetricsInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestLoad_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Load(nil, "empty.hcl")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialBlockGetsDefaults(t *testing.T) {
	cfg, err := Load([]byte("nft {\n  dir = \"/var/lib\"\n}\n"), "x.hcl")
	require.NoError(t, err)
	assert.Equal(t, "nft", cfg.NFT.Program)
	assert.Equal(t, "/var/lib", cfg.NFT.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_JSON(t *testing.T) {
	src := `{"nft": {"namespace": "ns0"}, "log": {"level": "warn"}}`
	cfg, err := Load([]byte(src), "nftjson.json")
	require.NoError(t, err)

	cc := cfg.ClientConfig()
	assert.Equal(t, "ip", cc.Program)
	assert.Equal(t, []string{"netns", "exec", "ns0", "nft"}, cc.Args)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "nft {", "HCL parse error"},
		{"unknown attribute", "bogus = 1\n", "HCL decode error"},
		{"bad level", "log {\n  level = \"loud\"\n}\n", "unknown log level"},
		{"bad interval", "metrics {\n  interval = \"soon\"\n}\n", "metrics: interval"},
		{"negative interval", "metrics {\n  interval = \"-1s\"\n}\n", "must be positive"},
		{"future major", "schema_version = \"2.0\"\n", "not supported"},
		{"bad version", "schema_version = \"one\"\n", "invalid version format"},
		{"namespace and args", "nft {\n  namespace = \"a\"\n  args = [\"b\"]\n}\n", "mutually exclusive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.NFT.Args = []string{"-n"}
	cfg.NFT.Dir = "/srv"
	cfg.Decode.AllowUnknownFields = true

	out := Render(cfg)
	assert.Contains(t, string(out), "nft {")
	assert.Contains(t, string(out), `["-n"]`)

	back, err := Load(out, "rendered.hcl")
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "nftjson.hcl")

	require.NoError(t, WriteDefault(path, false))
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = WriteDefault(path, false)
	assert.ErrorContains(t, err, "already exists")
	require.NoError(t, WriteDefault(path, true))
}

func TestLoadFileOrDefault(t *testing.T) {
	cfg, err := LoadFileOrDefault(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("nft {"), 0o644))
	_, err = LoadFileOrDefault(path)
	assert.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("")
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion{Major: 1, Minor: 0}, v)

	v, err = ParseVersion("1.3")
	require.NoError(t, err)
	assert.True(t, v.Supported())
	assert.Equal(t, 1, v.Compare(SchemaVersion{Major: 1}))
	assert.Equal(t, -1, v.Compare(SchemaVersion{Major: 2}))
	assert.Equal(t, 0, v.Compare(v))
	assert.Equal(t, "1.3", v.String())

	_, err = ParseVersion("1.x")
	assert.Error(t, err)
}
