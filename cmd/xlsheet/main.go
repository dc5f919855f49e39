// Command xlsheet renders YAML worksheet layouts into .xlsx workbooks.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/javajack/xlsheet"
	"github.com/javajack/xlsheet/layout"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := loadEnvConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg       *envConfig
	logLevel  string
	logFormat string
	log       zerolog.Logger
}

func newRootCmd(cfg *envConfig, stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: cfg}
	root := &cobra.Command{
		Use:          "xlsheet",
		Short:        "Render worksheet layouts into Excel workbooks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(stderr, a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", cfg.LogFormat, "Log format: console or json")

	root.AddCommand(a.renderCmd(), a.validateCmd(), a.describeCmd())
	return root
}

func (a *app) renderCmd() *cobra.Command {
	var dataPath, outputPath string
	cmd := &cobra.Command{
		Use:   "render [layout.yaml]",
		Short: "Render a layout into an .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := layout.LoadFile(args[0])
			if err != nil {
				return err
			}
			data, err := layout.LoadData(dataPath)
			if err != nil {
				return err
			}
			opts, err := a.workbookOptions()
			if err != nil {
				return err
			}

			wb := xlsheet.NewWorkbook(opts...)
			defer wb.Close()
			if err := layout.Render(wb, doc, data, layout.WithLogger(a.log)); err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			if outputPath == "" {
				return wb.Write(cmd.OutOrStdout())
			}
			if err := wb.SaveAs(outputPath); err != nil {
				return err
			}
			a.log.Info().Str("layout", args[0]).Str("output", outputPath).Int("sheets", len(doc.Sheets)).Msg("workbook written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "YAML data file for expressions")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .xlsx path (default: stdout)")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [layout.yaml]",
		Short: "Check a layout without rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := layout.LoadFile(args[0])
			if err != nil {
				return err
			}
			issues := layout.Validate(doc)
			for _, is := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), is)
			}
			if layout.HasErrors(issues) {
				return fmt.Errorf("%s: layout has errors", args[0])
			}
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
			}
			return nil
		},
	}
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [layout.yaml]",
		Short: "Print the structure of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := layout.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), layout.Describe(doc))
			return nil
		},
	}
}

func (a *app) workbookOptions() ([]xlsheet.Option, error) {
	opts := []xlsheet.Option{xlsheet.WithLogger(a.log)}
	if a.cfg.CommentAuthor != "" {
		opts = append(opts, xlsheet.WithCommentAuthor(a.cfg.CommentAuthor))
	}
	if a.cfg.TableStyle != "" {
		style, err := xlsheet.ParseTableStyle(a.cfg.TableStyle)
		if err != nil {
			return nil, fmt.Errorf("XLSHEET_TABLE_STYLE: %w", err)
		}
		opts = append(opts, xlsheet.WithTableStyle(style))
	}
	return opts, nil
}
