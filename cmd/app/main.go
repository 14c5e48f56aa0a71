package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"eva/internal/evaluator"
	"eva/internal/modules"
	"eva/internal/parser"
	"eva/internal/repl"
	"eva/internal/util"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile  string
	rootPath    string
	debugAST    bool
	debugTxtAST bool
	storeDriver string
	storeDSN    string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", "", "TOML configuration file (default eva.toml if present)")
	// evaluator config
	flag.StringVar(&rootPath, "root", ".", "Set the root context for the program (used for imports)")
	flag.StringVar(&storeDriver, "store-driver", "", "Module store driver: sqlite3, mysql, postgres")
	flag.StringVar(&storeDSN, "store-dsn", "", "Module store data source name")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render the AST as a JSON file")
	flag.BoolVar(&debugTxtAST, "debug-ast-text", false, "Render the AST as an indented text file")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {

	flag.Parse()

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	loader, closeLoader, err := buildLoader(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLoader()

	ev := evaluator.New(evaluator.WithLoader(loader))

	if flag.NArg() == 0 {
		fmt.Printf("eva %s\n", Version)
		repl.Start(os.Stdin, os.Stdout, ev)
		return
	}

	if err := runFile(ev, config, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeLoader()
		os.Exit(1)
	}
}

// loadConfiguration layers defaults, the TOML file, EVA_HOME and explicitly set flags.
func loadConfiguration() (util.Configuration, error) {
	path, required := configFile, true
	if path == "" {
		path, required = util.DefaultConfigFile, false
	}
	config, err := util.LoadConfiguration(path, required)
	if err != nil {
		return config, err
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			config.RootPath = rootPath
		case "debug-ast":
			config.DebugJsonAST = debugAST
		case "debug-ast-text":
			config.DebugTxtAST = debugTxtAST
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "store-driver":
			config.Store.Driver = storeDriver
		case "store-dsn":
			config.Store.DSN = storeDSN
		}
	})
	return config, nil
}

func buildLoader(config util.Configuration) (modules.Loader, func(), error) {
	files := &modules.FileResolver{
		RootPath:    config.RootPath,
		SearchPaths: config.ModulePaths,
		EvaHome:     config.EvaHome,
	}
	if config.Store.Driver == "" {
		return files, func() {}, nil
	}

	store, err := modules.OpenSQLStore(config.Store.Driver, config.Store.DSN, config.Store.Table)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(); err != nil {
		store.Close()
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close module store", slog.Any("error", err))
		}
	}
	return modules.Chain{files, store}, closeStore, nil
}

func runFile(ev *evaluator.Evaluator, config util.Configuration, fileName string) error {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	program, err := parser.ParseProgram(string(src))
	if err != nil {
		var parseErr *parser.Error
		if errors.As(err, &parseErr) {
			line, col := util.GetLineAndColumn(string(src), parseErr.Position)
			return fmt.Errorf("%s:%d:%d: %s\n%s", fileName, line, col, parseErr.Msg,
				util.GetContextLines(string(src), line, col))
		}
		return err
	}

	if config.DebugJsonAST {
		rendered, err := parser.RenderASTAsJSON(program)
		if err != nil {
			return err
		}
		if err := os.WriteFile(fileName+".ast.json", []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write AST: %w", err)
		}
	}
	if config.DebugTxtAST {
		rendered := parser.RenderASTAsText(program, 0)
		if err := os.WriteFile(fileName+".ast.txt", []byte(rendered+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write AST: %w", err)
		}
	}

	slog.Debug("running program", slog.String("file", fileName))
	_, err = ev.EvalGlobal(program)
	return err
}

func configureLogWriter(logFile string) *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		// Create parent directories if they don't exist
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {

	fmt.Printf("eva version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: eva [options] [filename]

Options:
  -root <path>           Set the root context for the program (used for imports). Default is '.'
  -config <path>         Read settings from a TOML file. Default is 'eva.toml' if present.
  -store-driver <name>   Also load modules from a SQL table: sqlite3, mysql or postgres.
  -store-dsn <dsn>       Data source name for the module store.
  -debug-ast             Render the AST as a JSON file next to the source.
  -debug-ast-text        Render the AST as an indented text file next to the source.
  -help                  Display this help information and exit.
  -version               Display version information and exit.
  -log-level <level>     Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>       Specify a log file to write logs. Default is stderr.

Details:
Eva is a small Lisp with closures, classes and modules. Without a filename
an interactive session is started.

Examples:
  eva                            Start the REPL
  eva -log-level=debug main.eva  Run main.eva with debug logging
  eva -store-driver=sqlite3 -store-dsn=modules.db main.eva

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
