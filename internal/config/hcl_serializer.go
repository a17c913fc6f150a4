package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Render serializes cfg as native HCL. Nil blocks are omitted.
func Render(cfg *Config) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if cfg.SchemaVersion != "" {
		body.SetAttributeValue("schema_version", cty.StringVal(cfg.SchemaVersion))
	}

	if n := cfg.NFT; n != nil {
		body.AppendNewline()
		b := body.AppendNewBlock("nft", nil).Body()
		b.SetAttributeValue("program", cty.StringVal(n.Program))
		if len(n.Args) > 0 {
			args := make([]cty.Value, len(n.Args))
			for i, a := range n.Args {
				args[i] = cty.StringVal(a)
			}
			b.SetAttributeValue("args", cty.ListVal(args))
		}
		if n.Dir != "" {
			b.SetAttributeValue("dir", cty.StringVal(n.Dir))
		}
		if n.Namespace != "" {
			b.SetAttributeValue("namespace", cty.StringVal(n.Namespace))
		}
	}

	if l := cfg.Log; l != nil {
		body.AppendNewline()
		b := body.AppendNewBlock("log", nil).Body()
		b.SetAttributeValue("level", cty.StringVal(l.Level))
		b.SetAttributeValue("json", cty.BoolVal(l.JSON))
	}

	if d := cfg.Decode; d != nil {
		body.AppendNewline()
		b := body.AppendNewBlock("decode", nil).Body()
		b.SetAttributeValue("allow_unknown_fields", cty.BoolVal(d.AllowUnknownFields))
	}

	if m := cfg.Metrics; m != nil {
		body.AppendNewline()
		b := body.AppendNewBlock("metrics", nil).Body()
		b.SetAttributeValue("listen", cty.StringVal(m.Listen))
		b.SetAttributeValue("interval", cty.StringVal(m.Interval))
	}

	return hclwrite.Format(f.Bytes())
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is only replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, Render(Default()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
