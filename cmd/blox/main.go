// Command blox runs blox programs, an interactive prompt and the route server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"blox/internal/assets"
	"blox/internal/ast"
	"blox/internal/config"
	"blox/internal/interp"
	"blox/internal/parser"
	"blox/internal/server"
)

const usage = `usage: blox [flags] <command> [args]

commands:
  run FILE    execute a program
  repl        start an interactive prompt
  serve       serve routes/ over HTTP
  ast FILE    print the syntax tree of a program

flags:
`

var errUsage = errors.New("invalid usage")

type cli struct {
	cfg    config.Config
	log    *logrus.Logger
	color  *color.Color
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("blox", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}
	configPath := flags.String("config", config.DefaultFile, "configuration file")
	baseDir := flags.String("base", "", "base directory for modules and routes")
	listen := flags.String("listen", "", "address to serve on")
	logLevel := flags.String("log-level", "", "trace, debug, info, warn or error")
	noWatch := flags.Bool("no-watch", false, "do not reload when files change")
	noColor := flags.Bool("no-color", false, "disable coloured output")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	c := &cli{
		color:  color.New(),
		stdout: stdout,
		stderr: stderr,
	}
	c.color.SetOutput(stderr)
	if *noColor {
		c.color.Disable()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		c.fail(err)
		return 1
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noWatch {
		cfg.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		c.fail(err)
		return 1
	}
	c.cfg = cfg
	c.log = newLogger(cfg, stderr)

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return 2
	}
	switch cmd, params := rest[0], rest[1:]; cmd {
	case "run":
		err = c.runFile(params)
	case "repl":
		err = c.repl()
	case "serve":
		err = c.serve()
	case "ast":
		err = c.printAST(params)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return 2
	}
	if err != nil {
		c.fail(err)
		return 1
	}
	return 0
}

func newLogger(cfg config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func (c *cli) fail(err error) {
	fmt.Fprintln(c.stderr, c.color.Red("error:"), err)
}

func (c *cli) options() interp.Options {
	return interp.Options{
		BaseDir:   c.cfg.BaseDir,
		Logger:    logrus.NewEntry(c.log),
		MaxDepth:  c.cfg.MaxDepth,
		Extension: c.cfg.ModuleExtension,
		Stdout:    c.stdout,
	}
}

func (c *cli) parseFile(params []string) (*ast.Program, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one FILE", errUsage)
	}
	source, err := os.ReadFile(params[0])
	if err != nil {
		return nil, err
	}
	return parser.Parse(string(source), params[0])
}

func (c *cli) runFile(params []string) error {
	program, err := c.parseFile(params)
	if err != nil {
		return err
	}
	ctx, err := interp.NewContext(c.options())
	if err != nil {
		return err
	}
	_, err = ctx.ExecuteProgram(program, ctx.Root.Child())
	return err
}

func (c *cli) printAST(params []string) error {
	program, err := c.parseFile(params)
	if err != nil {
		return err
	}
	fmt.Fprint(c.stdout, ast.PrintTree(program))
	return nil
}

func (c *cli) serve() error {
	log := logrus.NewEntry(c.log)
	var provider assets.Provider
	if c.cfg.Watch {
		provider = assets.NewDirProvider(c.cfg.BaseDir, log)
	} else {
		provider = assets.NewFSProvider(os.DirFS(c.cfg.BaseDir))
	}
	srv, err := server.New(provider, c.options(), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, c.cfg.Listen)
}
