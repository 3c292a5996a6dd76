package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Output formats accepted by diff.
const (
	formatText   = "text"
	formatJSON   = "json"
	formatBinary = "binary"
)

func diffCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the patches that turn OLD into NEW",
		Long: `Parse two HTML documents and print the patch list between them.

Either path may be "-" to read from stdin.

Formats:
  text    one patch per line (default)
  json    patch list as JSON
  binary  a single patches frame in the wire format`,
		Example: `  vdiff diff before.html after.html
  vdiff diff --format json before.html after.html
  curl -s localhost:8080 | vdiff diff --format binary --out p.vdp old.html -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], format, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, json, binary)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write output to a file instead of stdout")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath, format, out string) error {
	if format != formatText && format != formatJSON && format != formatBinary {
		return errors.New(errors.CodeUnknownFormat).
			WithDetailf("format %q is not one of text, json, binary", format)
	}

	prev, next, err := readPair(oldPath, newPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	patches := vdom.Patches(vdom.Diff(prev, next))

	w := cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return errors.New(errors.CodeInputUnreadable).
				WithDetailf("cannot create %s", out).
				Wrap(err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(patches, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case formatBinary:
		_, err := w.Write(protocol.NewPatchesFrame(&protocol.PatchesFrame{Patches: patches}).Encode())
		return err
	default:
		return printPatches(w, patches)
	}
}

// printPatches writes one colored line per patch followed by a summary.
func printPatches(w io.Writer, patches vdom.Patches) error {
	if len(patches) == 0 {
		_, err := fmt.Fprintln(w, gray("no changes"))
		return err
	}
	for _, p := range patches {
		if _, err := fmt.Fprintln(w, opColor(p.Op)(p.String())); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", gray(plural(len(patches), "patch", "patches")))
	return err
}

func opColor(op vdom.PatchOp) func(...any) string {
	switch op {
	case vdom.PatchAppendChildren, vdom.PatchInsertBefore:
		return green
	case vdom.PatchRemoveNode, vdom.PatchRemoveAttributes:
		return red
	case vdom.PatchMoveNode:
		return cyan
	default:
		return yellow
	}
}
