package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"grimm.is/nftjson/internal/schema"
)

func newDecodeCommand(a *app) *cobra.Command {
	var (
		allowUnknown bool
		compact      bool
		summary      bool
	)
	cmd := &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Validate an nftables JSON document and print it in canonical form",
		Long: `Decode reads an nftables JSON document (from FILE, or stdin when FILE is
omitted or "-"), checks it against the schema and prints the canonical
re-encoding. Errors name the JSON path of the first offending value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			doc, err := a.decode(data, allowUnknown)
			if err != nil {
				return err
			}
			if summary {
				return printSummary(cmd.OutOrStdout(), doc)
			}
			return printDocument(cmd.OutOrStdout(), doc, compact)
		},
	}
	cmd.Flags().BoolVar(&allowUnknown, "allow-unknown", false, "ignore object keys the schema does not know")
	cmd.Flags().BoolVar(&compact, "compact", false, "print without indentation")
	cmd.Flags().BoolVar(&summary, "summary", false, "print object counts instead of the document")
	return cmd
}

// decode parses data with the configured options. allowUnknown can only
// relax them.
func (a *app) decode(data []byte, allowUnknown bool) (schema.Document, error) {
	opts := a.cfg.ClientConfig().Decode
	opts.AllowUnknownFields = opts.AllowUnknownFields || allowUnknown
	return schema.DecodeWithOptions(data, opts)
}

func printDocument(w io.Writer, doc schema.Document, compact bool) error {
	var (
		out []byte
		err error
	)
	if compact {
		out, err = schema.Encode(doc)
	} else {
		out, err = schema.EncodeIndent(doc, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func printSummary(w io.Writer, doc schema.Document) error {
	counts := make(map[string]int)
	for _, obj := range doc.Objects {
		switch o := obj.(type) {
		case schema.Command:
			counts[string(o.Verb)+" "+o.Object.Kind()]++
		case schema.ListObject:
			counts[o.Kind()]++
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintf(w, "%d objects\n", len(doc.Objects)); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "  %-24s %d\n", k, counts[k]); err != nil {
			return err
		}
	}
	return nil
}
