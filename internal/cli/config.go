package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/internal/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			fmt.Fprintln(out, StyleTitle.Render(c.configPathOrDefault()))
			printKeyValue("oracle", cfg.Layout.Oracle)
			printKeyValue("box", fmt.Sprintf("%gx%g", cfg.Layout.BoxWidth, cfg.Layout.BoxHeight))
			printKeyValue("separation", fmt.Sprintf("rank %g, node %g", cfg.Layout.RankSep, cfg.Layout.NodeSep))
			printKeyValue("ports", fmt.Sprintf("spacing %g, hit radius %g", cfg.Ports.Spacing, cfg.Ports.HitRadius))
			printKeyValue("cache", cfg.Cache.Backend+" (ttl "+cfg.Cache.TTL.String()+")")
			printKeyValue("server", strconv.Quote(cfg.Server.Addr))
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPathOrDefault()
			if fileExists(path) && !force {
				printWarning("%s already exists", path)
				printNextStep("Overwrite", appName+" config init --force")
				return nil
			}
			if err := config.Save(path, config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Wrote default config")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// fileExists reports whether path names an existing file or directory.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
