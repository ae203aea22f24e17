package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/diagram"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		apply  bool
		flags  engineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute node positions, port offsets and edge segments",
		Long: `Compute the layout of a diagram.

The layout command reads a diagram ({"nodes": [...], "edges": [...]}), lays it
out left to right and writes a layout file with every node's anchor, box size
and port offsets and every edge's absolute segment, ready for a renderer.

With --apply the computed positions are also written back into the diagram.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, apply, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&apply, "apply", false, "write positions back into the input diagram")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, apply bool, flags engineFlags) error {
	d, err := diagram.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load diagram: %w", err)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	engine, closeCache, err := c.newEngine(ctx, flags, "")
	if err != nil {
		return err
	}
	defer closeCache()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", engine.Oracle()))
	spinner.Start()

	res, err := engine.Compute(ctx, d.Nodes, d.Edges)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("Layout computed")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	l, err := diagram.FromResult(d, res)
	if err != nil {
		return err
	}
	if output == "" {
		output = diagram.LayoutPath(input)
	}
	if err := diagram.ExportJSON(output, l); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	if apply {
		if err := diagram.ExportJSON(input, diagram.Apply(d, res)); err != nil {
			return fmt.Errorf("update %s: %w", input, err)
		}
		printFile(input)
	}
	printStats(len(d.Nodes), len(l.Edges), res.Oracle, res.Cached)
	printNewline()
	printNextStep("Edit", appName+" edit "+input)

	return nil
}
