package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/diagram"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check [diagram.json]",
		Short: "Validate a diagram and report edges that would be dropped",
		Long: `Validate a diagram.

Node problems (duplicate or empty ids, negative port counts) are fatal. Edges
with a duplicate id, an unknown endpoint or an out-of-range port are listed;
with --fix they are removed from the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0], fix)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "drop invalid edges and rewrite the file")

	return cmd
}

func (c *CLI) runCheck(input string, fix bool) error {
	d, err := diagram.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load diagram: %w", err)
	}
	kept, problems, err := flow.Sanitize(d.Nodes, d.Edges)
	if err != nil {
		printError("Invalid nodes")
		return fmt.Errorf("%s: %w", input, err)
	}
	c.Logger.Debug("checked diagram", "nodes", len(d.Nodes), "edges", len(d.Edges), "dropped", len(problems))

	if len(problems) == 0 {
		printSuccess("Diagram is valid")
		printDetail("%d nodes, %d edges", len(d.Nodes), len(d.Edges))
		return nil
	}

	printWarning("%d of %d edges are invalid", len(problems), len(d.Edges))
	fmt.Fprintln(out, problemTable(problems))

	if !fix {
		printNextStep("Drop them", appName+" check --fix "+input)
		return ferrors.New(ferrors.ErrCodeInvalidGraph, "%d invalid edges", len(problems))
	}
	d.Edges = kept
	if err := diagram.ExportJSON(input, d); err != nil {
		return fmt.Errorf("write %s: %w", input, err)
	}
	printSuccess("Removed %d edges", len(problems))
	printFile(input)
	return nil
}

func problemTable(problems []flow.Problem) string {
	rows := make([][]string, len(problems))
	for i, p := range problems {
		code := string(ferrors.GetCode(p.Err))
		if code == "" {
			code = "-"
		}
		id := p.EdgeID
		if id == "" {
			id = "(empty #" + strconv.Itoa(i) + ")"
		}
		rows[i] = []string{id, code, ferrors.UserMessage(p.Err)}
	}
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Edge", "Code", "Problem").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			if col == 1 {
				return StyleWarning.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
