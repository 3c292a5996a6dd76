package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

func applyCmd() *cobra.Command {
	var (
		pretty bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "apply OLD NEW",
		Short: "Apply the diff of OLD and NEW to a live OLD document",
		Long: `Mount OLD as a live document, apply the patches that turn it into
NEW and print the resulting markup.

The result is checked against NEW; a mismatch exits with an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], args[1], pretty, quiet)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print the resulting markup")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only verify, do not print markup")

	return cmd
}

func runApply(cmd *cobra.Command, oldPath, newPath string, pretty, quiet bool) error {
	prev, next, err := readPair(oldPath, newPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	doc := dom.NewDocument()
	doc.Mount(prev)
	patches := vdom.Diff(prev, next)
	if err := doc.Apply(patches); err != nil {
		return err
	}

	got := doc.ToVNode()
	canonical := render.NewRenderer(render.RendererConfig{HandlerAttrs: true})
	gotHTML, err := canonical.RenderToString(got)
	if err != nil {
		return err
	}
	wantHTML, err := canonical.RenderToString(next)
	if err != nil {
		return err
	}
	if gotHTML != wantHTML {
		return errors.New(errors.CodeApplyMismatch).
			WithDetailf("after %s the document renders as\n%s\nwant\n%s",
				plural(len(patches), "patch", "patches"), gotHTML, wantHTML)
	}

	w := cmd.OutOrStdout()
	if !quiet {
		out := gotHTML
		if pretty {
			out, err = render.NewRenderer(render.RendererConfig{Pretty: true, HandlerAttrs: true}).RenderToString(got)
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(w, out)
	}
	success(cmd.ErrOrStderr(), "applied %s", plural(len(patches), "patch", "patches"))
	return nil
}
