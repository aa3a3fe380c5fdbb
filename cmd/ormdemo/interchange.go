package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"simpleorm/internal/codec"
	"simpleorm/internal/orm"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Write every row of a table as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			_, logger, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := tableModel(args[0]).All(cmd.Context())
			if err != nil {
				return err
			}
			doc := codec.Collect(args[0], rows)

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := c.Export(doc, w); err != nil {
				return err
			}
			logger.Info("table exported", "table", args[0], "rows", len(doc.Rows), "format", c.Format())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newImportCmd(g *globalFlags) *cobra.Command {
	var (
		table    string
		keepKeys bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Insert the rows of a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.ForPath(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			doc, err := c.Parse(f)
			if err != nil {
				return err
			}
			if table != "" {
				doc.Table = table
			}
			if doc.Table == "" {
				return fmt.Errorf("%s names no table; pass --table", args[0])
			}

			_, logger, cleanup, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer cleanup()

			m := orm.NewModel(func() *row { return &row{} }, orm.Binding{
				Table:           doc.Table,
				KeepKeyOnInsert: keepKeys,
			})
			for i, fields := range doc.Rows {
				if _, err := m.Create(cmd.Context(), fields); err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
			}

			logger.Info("rows imported", "table", doc.Table, "rows", len(doc.Rows), "source", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows imported\n", doc.Table, len(doc.Rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "target table (overrides the document)")
	cmd.Flags().BoolVar(&keepKeys, "keep-keys", false, "insert primary key values instead of letting the store assign them")
	return cmd
}
