package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/store"
)

func configsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Manage stored task configurations",
	}
	cmd.PersistentFlags().String("db", "gradesheet.db", "SQLite database path")
	addLogFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored configurations",
			Args:  cobra.NoArgs,
			RunE:  runConfigsList,
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Print a stored configuration as YAML",
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigsShow,
		},
		&cobra.Command{
			Use:   "save NAME FILE",
			Short: "Store a YAML configuration file under NAME",
			Args:  cobra.ExactArgs(2),
			RunE:  runConfigsSave,
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a stored configuration",
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigsDelete,
		},
	)
	return cmd
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func runConfigsList(cmd *cobra.Command, _ []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	infos, err := db.ListConfigurations()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOINTS\tUPDATED")
	for _, ci := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", ci.Name, ci.TotalPoints, ci.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runConfigsShow(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg, err := db.GetConfiguration(args[0])
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("configuration %q not found", args[0])
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func runConfigsSave(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}
	cfg, err := model.ParseConfiguration(data)
	if err != nil {
		return err
	}
	if err := db.SaveConfiguration(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%d points)\n", args[0], cfg.TotalPoints())
	return nil
}

func runConfigsDelete(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ok, err := db.DeleteConfiguration(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("configuration %q not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
	return nil
}
