package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/internal/tui"
	"github.com/matzehuels/flowboard/pkg/diagram"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		logFile string
		flags   engineFlags
	)

	cmd := &cobra.Command{
		Use:   "edit [diagram.json]",
		Short: "Edit a diagram in the terminal",
		Long: `Edit a diagram in the terminal with the mouse.

Drag nodes to move them. Drag from an output port (○) to an input port (●) to
connect them. Hover a node and press x to delete it (if it allows deletion),
hover an edge and press d to delete it. Arrow keys pan, w writes the diagram
back to the file, q quits.

A missing file starts an empty diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], logFile, flags)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the editor runs")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, logFile string, flags engineFlags) error {
	d, err := diagram.ImportJSON(path)
	switch {
	case ferrors.Is(err, ferrors.ErrCodeFileNotFound):
		d = diagram.Diagram{Nodes: []flow.NodeProps{}, Edges: []flow.EdgeProps{}}
	case err != nil:
		return fmt.Errorf("load diagram: %w", err)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// The terminal belongs to the editor; logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	logger := newLogger(w, c.Logger.GetLevel())

	engine, closeCache, err := c.newEngine(ctx, flags, "")
	if err != nil {
		return err
	}
	defer closeCache()

	m, err := tui.New(ctx, engine, d, tui.Options{Path: path, Logger: logger})
	if err != nil {
		return err
	}
	if err := tui.Run(ctx, m); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("editor: %w", err)
	}
	if m.Dirty() {
		printWarning("Unsaved changes to %s were discarded", path)
	}
	return ctx.Err()
}
