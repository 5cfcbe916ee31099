package sync

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jobsync/jobsync/cmd/jobsync/commands"
	"github.com/jobsync/jobsync/common/logger"
	"github.com/jobsync/jobsync/parser"
	"github.com/jobsync/jobsync/sync"
)

func init() {
	syncCmd.Flags().StringVarP(
		&syncCmdConfig.server,
		"server",
		"s",
		"",
		"Base URL of the CI server to publish to.")
	syncCmd.Flags().StringVarP(
		&syncCmdConfig.username,
		"username",
		"u",
		"",
		"Username for HTTP basic auth against the server.")
	syncCmd.Flags().StringVar(
		&syncCmdConfig.apiToken,
		"api-token",
		"",
		"API token for HTTP basic auth against the server.")
	syncCmd.Flags().StringVar(
		&syncCmdConfig.cliCommand,
		"cli-command",
		"",
		"Publish through the server's control executable instead of HTTP, e.g. \"java -jar jenkins-cli.jar\".")
	syncCmd.Flags().BoolVar(
		&syncCmdConfig.continueOnError,
		"continue-on-error",
		false,
		"Keep publishing the remaining jobs when one fails and report all failures at the end.")
	syncCmd.Flags().BoolVar(
		&syncCmdConfig.dryRun,
		"dry-run",
		false,
		"Render and validate every job without contacting the server.")
	syncCmd.Flags().DurationVar(
		&syncCmdConfig.timeout,
		"timeout",
		sync.DefaultCallTimeout,
		"Timeout applied to each individual remote call.")
	commands.RootCmd.AddCommand(syncCmd)
}

var syncCmdConfig = struct {
	server          string
	username        string
	apiToken        string
	cliCommand      string
	continueOnError bool
	dryRun          bool
	timeout         time.Duration
}{}

var syncCmd = &cobra.Command{
	Use:           "sync <definition-file>",
	Short:         "Create or update CI jobs from a pipeline definition",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// Flags win; unset flags fall back to the config file / environment.
		if syncCmdConfig.server == "" {
			syncCmdConfig.server = viper.GetString("server")
		}
		if syncCmdConfig.username == "" {
			syncCmdConfig.username = viper.GetString("username")
		}
		if syncCmdConfig.apiToken == "" {
			syncCmdConfig.apiToken = viper.GetString("api_token")
		}
		if syncCmdConfig.cliCommand == "" {
			syncCmdConfig.cliCommand = viper.GetString("cli_command")
		}

		logFactory, err := commands.Global.LogFactory()
		if err != nil {
			return err
		}

		jobs, err := parser.NewDefinitionParser(parser.ParserLimits{}).ParseFile(args[0])
		if err != nil {
			return err
		}

		store, err := makeStore(logFactory)
		if err != nil {
			return err
		}

		engine := sync.NewEngine(store, sync.EngineConfig{
			ContinueOnError: syncCmdConfig.continueOnError,
			CallTimeout:     syncCmdConfig.timeout,
		}, logFactory)

		return engine.Publish(ctx, jobs)
	},
}

// makeStore selects the remote store implementation implied by the flags:
// an in-memory store for dry runs, the control executable when a CLI command
// is configured, otherwise the server's HTTP API.
func makeStore(logFactory logger.LogFactory) (sync.Store, error) {
	if syncCmdConfig.dryRun {
		return sync.NewMemoryStore(), nil
	}
	if syncCmdConfig.cliCommand != "" {
		return sync.NewCLIStore(sync.CLIStoreConfig{
			Command:  strings.Fields(syncCmdConfig.cliCommand),
			Endpoint: syncCmdConfig.server,
		}, logFactory)
	}
	if syncCmdConfig.server == "" {
		return nil, errors.New("error a server endpoint is required; set --server or configure one")
	}
	return sync.NewHTTPStore(sync.HTTPStoreConfig{
		Endpoint: syncCmdConfig.server,
		Username: syncCmdConfig.username,
		APIToken: syncCmdConfig.apiToken,
	}, logFactory)
}
