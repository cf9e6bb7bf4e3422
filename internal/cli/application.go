// Package cli wires the ecrtool cobra commands to the registry service.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mchineboy/ecrtool/internal/config"
	"github.com/mchineboy/ecrtool/internal/logging"
	"github.com/mchineboy/ecrtool/internal/registry"
	"github.com/mchineboy/ecrtool/internal/render"
)

const applicationName = "ecrtool"

// ClientFactory creates the ECR API client for the resolved configuration.
type ClientFactory func(ctx context.Context, opts registry.ClientOptions) (registry.API, error)

// DefaultClientFactory builds a real ECR client from the AWS shared config.
func DefaultClientFactory(ctx context.Context, opts registry.ClientOptions) (registry.API, error) {
	return registry.NewClient(ctx, opts)
}

// Application wires the cobra root command, configuration and logger.
type Application struct {
	root          *cobra.Command
	clientFactory ClientFactory
	loggerFactory *logging.Factory
	logger        *zap.Logger
	configuration config.Config
	configFile    string
	stdout        io.Writer
}

// Options customizes an Application. Zero values select the defaults.
type Options struct {
	ClientFactory ClientFactory
	LoggerFactory *logging.Factory
	Stdout        io.Writer
	Stderr        io.Writer
}

// NewApplication assembles the command tree.
func NewApplication(opts Options) *Application {
	app := &Application{
		clientFactory: opts.ClientFactory,
		loggerFactory: opts.LoggerFactory,
		logger:        zap.NewNop(),
		stdout:        opts.Stdout,
	}
	if app.clientFactory == nil {
		app.clientFactory = DefaultClientFactory
	}
	if app.loggerFactory == nil {
		app.loggerFactory = logging.NewFactory()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	root := &cobra.Command{
		Use:           applicationName,
		Short:         "List Amazon ECR repositories and clean out old images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize(cmd)
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(stderr)

	defaults := config.Defaults()
	flags := root.PersistentFlags()
	flags.StringP(config.FlagName(config.KeyRegion), "r", defaults[config.KeyRegion].(string), "AWS region to operate in")
	flags.String(config.FlagName(config.KeyProfile), "", "AWS credentials profile name")
	flags.String(config.FlagName(config.KeyRegistryID), "", "AWS account id of the registry (defaults to the caller's account)")
	flags.Int(config.FlagName(config.KeyPageSize), 0, "Results per listing call, 1-1000 (0 uses the service default)")
	flags.Int(config.FlagName(config.KeyMaxPages), defaults[config.KeyMaxPages].(int), "Give up listing after this many pages")
	flags.StringP(config.FlagName(config.KeyOutput), "o", config.OutputTable, "Output format: table or plain")
	flags.String(config.FlagName(config.KeyLogLevel), defaults[config.KeyLogLevel].(string), "Log level: debug, info, warn or error")
	flags.String(config.FlagName(config.KeyLogFormat), defaults[config.KeyLogFormat].(string), "Log format: console or structured")
	flags.StringVar(&app.configFile, "config", "", "Path to a YAML configuration file")

	root.AddCommand(app.newListCommand(), app.newCleanCommand())

	app.root = root
	return app
}

// Execute runs the command line in args (without the program name).
func (app *Application) Execute(ctx context.Context, args []string) error {
	app.root.SetArgs(args)
	defer func() {
		_ = app.logger.Sync()
	}()
	return app.root.ExecuteContext(ctx)
}

func (app *Application) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags(), app.configFile)
	if err != nil {
		return err
	}
	app.configuration = cfg

	logger, err := app.loggerFactory.CreateLogger(logging.Level(cfg.LogLevel), logging.Format(cfg.LogFormat))
	if err != nil {
		return fmt.Errorf("unable to create logger: %w", err)
	}
	app.logger = logger.Named(applicationName)

	app.logger.Debug("configuration initialized",
		zap.String("command", cmd.Name()),
		zap.String("region", cfg.Region),
		zap.String("profile", cfg.Profile),
		zap.String("output", cfg.Output))
	return nil
}

func (app *Application) newService(ctx context.Context, extra ...registry.Option) (*registry.Service, error) {
	cfg := app.configuration

	api, err := app.clientFactory(ctx, registry.ClientOptions{Region: cfg.Region, Profile: cfg.Profile})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfiguration, err)
	}

	opts := []registry.Option{
		registry.WithRegistryID(cfg.RegistryID),
		registry.WithPageSize(int32(cfg.PageSize)),
		registry.WithMaxPages(cfg.MaxPages),
		registry.WithLogger(app.logger),
	}
	return registry.NewService(api, append(opts, extra...)...), nil
}

func (app *Application) renderer() *render.Renderer {
	return render.New(app.stdout, app.configuration.Output)
}
