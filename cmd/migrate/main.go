package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bondregistry/internal/infrastructure/migration"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const usage = `usage: migrate [--dsn DSN] <command>

commands:
  up             apply all pending migrations
  down           revert all migrations
  steps N        apply (N > 0) or revert (N < 0) N migrations
  force VERSION  set the schema version without running migrations
  version        print the current schema version
`

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	opts, err := parseArgs(os.Args[1:], os.Getenv("DATABASE_DSN"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(2)
	}

	m, err := migration.New(opts.DSN, logger)
	if err != nil {
		logger.Fatalf("init migrator: %v", err)
	}
	defer m.Close()

	if err := run(m, opts.Command, logger); err != nil {
		logger.Errorf("migrate %s: %v", opts.Command[0], err)
		_ = m.Close()
		os.Exit(1)
	}
}

type options struct {
	DSN     string
	Command []string
}

// parseArgs stops reading flags at the command, so "steps -1" keeps its
// negative count.
func parseArgs(args []string, defaultDSN string) (*options, error) {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)
	dsn := flags.String("dsn", defaultDSN, "postgres connection string (defaults to DATABASE_DSN)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*dsn) == "" {
		return nil, errors.New("DATABASE_DSN or --dsn is required")
	}
	if flags.NArg() == 0 {
		return nil, errors.New("a command is required")
	}
	return &options{DSN: *dsn, Command: flags.Args()}, nil
}

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
}

func run(m migrator, args []string, logger logrus.FieldLogger) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("schema version")
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string) (int, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("%s expects exactly one integer argument", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", args[1], err)
	}
	return n, nil
}
