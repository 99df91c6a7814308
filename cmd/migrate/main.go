// Command migrate manages the wardrobe database schema.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/infrastructure/config"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/migration"
	"github.com/wardrobe/backend/migrations"
)

var errUsage = errors.New("invalid arguments")

// session carries what every command may need. dir is empty when the
// migrations compiled into the binary are used.
type session struct {
	log  *zap.Logger
	cfg  *config.Config
	dir  string
	args []string
	m    *migration.Migrator
}

func (s *session) source() fs.FS {
	if s.dir == "" {
		return migrations.FS
	}
	return os.DirFS(s.dir)
}

func (s *session) arg(i int, what string) (string, error) {
	if len(s.args) <= i {
		return "", fmt.Errorf("%w: %s required", errUsage, what)
	}
	return s.args[i], nil
}

type command struct {
	usage   string
	summary string
	needsDB bool
	run     func(*session) error
}

var commands = map[string]command{
	"up": {"up", "Apply all pending migrations", true, func(s *session) error {
		return s.m.Up()
	}},
	"down": {"down", "Roll back all migrations", true, func(s *session) error {
		return s.m.Down()
	}},
	"step": {"step <n>", "Apply n migrations, negative n rolls back", true, func(s *session) error {
		raw, err := s.arg(0, "step count")
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: step count %q", errUsage, raw)
		}
		return s.m.Steps(n)
	}},
	"goto": {"goto <version>", "Migrate up or down to a version", true, func(s *session) error {
		raw, err := s.arg(0, "version")
		if err != nil {
			return err
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: version %q", errUsage, raw)
		}
		return s.m.GoTo(uint(v))
	}},
	"version": {"version", "Show the applied version", true, func(s *session) error {
		v, dirty, err := s.m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			s.log.Info("No migrations applied")
			return nil
		}
		s.log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"force": {"force <version>", "Set the version without running migrations", true, func(s *session) error {
		raw, err := s.arg(0, "version")
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: version %q", errUsage, raw)
		}
		return s.m.Force(v)
	}},
	"drop": {"drop -confirm", "Drop every table, wardrobe data included", true, func(s *session) error {
		if !hasFlag(s.args, "confirm") {
			return fmt.Errorf("%w: drop needs -confirm", errUsage)
		}
		return s.m.Drop()
	}},
	"create": {"create <name> [desc]", "Write the next numbered up/down pair", false, func(s *session) error {
		if s.dir == "" {
			return fmt.Errorf("%w: create needs -path", errUsage)
		}
		name, err := s.arg(0, "migration name")
		if err != nil {
			return err
		}
		mf, err := migration.CreateMigration(s.dir, name, strings.Join(s.args[1:], " "))
		if err != nil {
			return err
		}
		s.log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	}},
	"list": {"list", "List the available migrations", false, func(s *session) error {
		names, err := migration.ListMigrationsFS(s.source())
		if err != nil {
			return err
		}
		next, err := migration.NextVersion(s.source())
		if err != nil {
			return err
		}
		s.log.Info("Available migrations", zap.Int("count", len(names)), zap.Int("next_version", next))
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return nil
	}},
	"check": {"check", "Fail when a migration has no rollback file", false, func(s *session) error {
		missing, err := migration.MissingRollbacks(s.source())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("migrations without a down file: %s", strings.Join(missing, ", "))
		}
		s.log.Info("Every migration has a rollback")
		return nil
	}},
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	timeout := flag.Duration("timeout", 10*time.Second, "Database connect timeout")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	s := &session{log: log, args: flag.Args()[1:]}
	if *dir != "" {
		if s.dir, err = filepath.Abs(*dir); err != nil {
			log.Fatal("Invalid migrations path", zap.Error(err))
		}
	}

	if err := execute(s, cmd, *timeout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\nusage: migrate %s\n", err, cmd.usage)
			os.Exit(2)
		}
		log.Error("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func execute(s *session, cmd command, timeout time.Duration) error {
	s.log.Debug("Migration CLI started",
		zap.String("command", cmd.usage),
		zap.Bool("embedded", s.dir == ""),
		zap.String("path", s.dir),
	)
	if !cmd.needsDB {
		return cmd.run(s)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	s.cfg = cfg

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if s.dir == "" {
		s.m, err = migration.NewFromFS(db, migrations.FS, ".", s.log)
	} else {
		s.m, err = migration.New(db, s.dir, s.log)
	}
	if err != nil {
		return err
	}
	defer s.m.Close()

	return cmd.run(s)
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if strings.TrimLeft(a, "-") == name && strings.HasPrefix(a, "-") {
			return true
		}
	}
	return false
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Wardrobe schema migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:\n")
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(&b, "  %-22s %s\n", c.usage, c.summary)
	}
	b.WriteString("\nFlags:\n")
	fmt.Fprint(os.Stderr, b.String())
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, `
Database settings come from config.toml and WARDROBE_DATABASE_* variables.
`)
}
