package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jobsync/jobsync/cmd/jobsync/cli"
	"github.com/jobsync/jobsync/cmd/jobsync/commands"
	"github.com/jobsync/jobsync/parser"
	"github.com/jobsync/jobsync/render"
)

func init() {
	renderCmd.Flags().StringVarP(
		&renderCmdConfig.outDir,
		"out",
		"o",
		"",
		"Directory to write one <job-name>.xml file per job into. Defaults to printing documents to stdout.")
	commands.RootCmd.AddCommand(renderCmd)
}

var renderCmdConfig = struct {
	outDir string
}{}

var renderCmd = &cobra.Command{
	Use:           "render <definition-file>",
	Short:         "Render job configuration documents without contacting a server",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := parser.NewDefinitionParser(parser.ParserLimits{}).ParseFile(args[0])
		if err != nil {
			return err
		}

		if renderCmdConfig.outDir != "" {
			if err := os.MkdirAll(renderCmdConfig.outDir, 0755); err != nil {
				return fmt.Errorf("error making output directory %q: %w", renderCmdConfig.outDir, err)
			}
		}

		for _, job := range jobs.All() {
			doc, err := render.Project(job)
			if err != nil {
				return err
			}
			if renderCmdConfig.outDir == "" {
				cli.Stdout.Print(string(doc))
				continue
			}
			path := filepath.Join(renderCmdConfig.outDir, job.Name().String()+".xml")
			if err := os.WriteFile(path, doc, 0644); err != nil {
				return fmt.Errorf("error writing %q: %w", path, err)
			}
			cli.Stdout.Printf("wrote %s", path)
		}
		return nil
	},
}
