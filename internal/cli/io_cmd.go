package cli

import (
	"fmt"
	"os"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/importer"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole roadmap as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := importer.FormatForPath(output)
			if cmd.Flags().Changed("format") || output == "" {
				var err error
				if f, err = importer.ParseFormat(format); err != nil {
					return err
				}
			}
			body, err := importer.Render(app.Roadmap.Data(), f)
			if err != nil {
				return fmt.Errorf("exporting roadmap: %w", err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			printLine(cmd, formatter.Success("Exported to "+output))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the roadmap with a JSON or YAML document",
		Long: `Replace the roadmap with a JSON or YAML document. Both the keyed and
the legacy array collection shapes are accepted. The document is checked for
broken references and dependency cycles first; the import can be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f := importer.FormatForPath(path)
			if cmd.Flags().Changed("format") {
				var err error
				if f, err = importer.ParseFormat(format); err != nil {
					return err
				}
			}
			body, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			data, err := importer.Parse(body, f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			if err := app.Roadmap.Replace(commandContext(cmd), data); err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Imported %d project(s), %d member(s), %d dependency(ies)",
				len(data.Projects), len(data.TeamMembers), len(data.Dependencies))))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the file extension)")
	return cmd
}
