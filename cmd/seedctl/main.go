package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/danmuck/muonseed/internal/config"
	"github.com/danmuck/muonseed/internal/eventsetup"
	"github.com/danmuck/muonseed/internal/observability"
	"github.com/danmuck/muonseed/internal/propagation"
	"github.com/spf13/cobra"
)

func main() {
	observability.InitLogger("seedctl")
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "seedctl [command] [flags]",
		Short:         "seedctl builds standalone muon seeds from reconstructed candidates",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Seed every event of an event file",
		RunE:  doRun,
	}
	runCmd.Flags().StringP("config", "c", "", "`<path>` to the seeding config")
	runCmd.Flags().StringP("geometry", "g", "", "`<path>` to the geometry file, overrides the config")
	runCmd.Flags().StringP("events", "e", "", "`<path>` to the YAML event file")
	runCmd.Flags().IntP("workers", "w", 0, "events seeded concurrently, 0 for one per CPU")
	runCmd.Flags().StringP("format", "f", formatYAML, "output `<format>`: yaml or json")
	runCmd.Flags().Bool("metrics", false, "dump seeding metrics to stderr when done")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("events")

	propagatorsCmd := &cobra.Command{
		Use:   "propagators",
		Short: "List built-in propagators",
		Args:  cobra.NoArgs,
		RunE:  doPropagators,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [flags]",
		Short: "Load and validate a seeding config",
		RunE:  doValidate,
	}
	validateCmd.Flags().StringP("config", "c", "", "`<path>` to the seeding config")
	validateCmd.MarkFlagRequired("config")

	initCmd := &cobra.Command{
		Use:   "init [flags]",
		Short: "Write a starting config",
		RunE:  doInit,
	}
	initCmd.Flags().StringP("out", "o", "seedctl.toml", "`<path>` of the config to write")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	rootCmd.AddCommand(
		runCmd,
		propagatorsCmd,
		validateCmd,
		initCmd,
	)
	return rootCmd
}

func doPropagators(cmd *cobra.Command, args []string) error {
	reg := propagation.DefaultRegistry()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIRECTION")
	for _, name := range reg.Names() {
		p, _ := reg.Resolve(name)
		fmt.Fprintf(w, "%s\t%s\n", name, p.Direction())
	}
	return w.Flush()
}

func doValidate(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	surfaces := 0
	if cfg.Geometry != "" {
		record, err := eventsetup.Load(cfg.Geometry, cfg.Field, nil)
		if err != nil {
			return err
		}
		surfaces = record.Geometry().Len()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config ok: propagator=%s scale=%g cleaner=%s surfaces=%d\n",
		cfg.Propagator, cfg.ScaleInnerStateError, cfg.Cleaner, surfaces)
	return nil
}

func doInit(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if err := config.WriteTemplate(out, force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
