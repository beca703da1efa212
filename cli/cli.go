package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/xparse/cli/cmd"
	"github.com/ardnew/xparse/pkg"
	"github.com/ardnew/xparse/tex"
)

// CLI is the top-level command-line interface for xparse.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source   []string `help:"Input document file(s) or '-' for stdin"                           name:"source"   short:"s" type:"existingfile"`
	Preamble []string `help:"Preamble file(s) of command definitions (.tex, .yaml, .toml, .json)" name:"preamble" short:"i"`
	Path     []string `help:"Directories searched for preamble files ahead of ${pathEnv}"        name:"path"     short:"I" type:"path"`

	MaxMacros int  `default:"${maxMacros}" help:"Maximum command expansions per document"`
	MaxBuffer int  `default:"0"            help:"Maximum size in bytes of the expansion buffer (0 for unlimited)"`
	Strict    bool `default:"false"        help:"Ignore literal sentinel text; only values captured for o, s, and t arguments count" negatable:""`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	List cmd.List `cmd:"" help:"List document command definitions"`
	Spec cmd.Spec `cmd:"" help:"Describe an argument specification"`
	Repl cmd.Repl `cmd:"" help:"Expand documents interactively"`

	Expand cmd.Expand `cmd:"" default:"withargs" help:"Expand document commands"`
}

// settings returns the expansion settings selected by global flags.
func (c *CLI) settings() cmd.Settings {
	return cmd.Settings{
		Preambles: c.Preamble,
		Path:      pkg.SearchPath(c.Path...),
		MaxMacros: c.MaxMacros,
		MaxBuffer: c.MaxBuffer,
		Strict:    c.Strict,
	}
}

// Run executes the xparse CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"pathEnv":            "$" + pkg.PathEnv(),
		"maxMacros":          strconv.Itoa(tex.DefaultMaxMacros),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithSettings(ctx, cli.settings())

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
