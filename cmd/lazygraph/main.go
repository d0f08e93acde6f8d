package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/vektah/gqlparser/v2/validator"

	"github.com/hanpama/lazygraph/internal/encoding"
	"github.com/hanpama/lazygraph/internal/eventbus"
	"github.com/hanpama/lazygraph/internal/lazy"
	"github.com/hanpama/lazygraph/internal/logging"
	"github.com/hanpama/lazygraph/internal/otel"
	"github.com/hanpama/lazygraph/internal/resolver"
	"github.com/hanpama/lazygraph/internal/rules"
)

const rootUsage = `lazygraph: compile a GraphQL query once, execute it many times

USAGE:
  lazygraph <command> [flags]

COMMANDS:
  validate         Parse and validate a query against a schema
  run              Compile a query and execute it against JSON root data
  help             Show help for any command
`

const validateUsage = `validate FLAGS:
  -schema <file>           GraphQL SDL file (required)
  -query <file>            Query document file (required)
  -max-depth <n>           Reject operations nested deeper than n (default: 0, off)
  -no-introspection        Reject __schema and __type queries
  -require-name            Reject anonymous operations
`

const runUsage = `run FLAGS:
  -schema <file>           GraphQL SDL file (required)
  -query <file>            Query document file (required)
  -root <file>             JSON root value; fields resolve from its properties
  -variables <file>        JSON object of variable values
  -operation <name>        Operation to execute
  -repeat <n>              Execute the compiled query n times (default: 1)
  -format <name>           json, json-pretty, protojson or proto (default: json)
  -error-policy <name>     errors-as-data or fail-on-errors (default: errors-as-data)
  -max-depth <n>           Reject operations nested deeper than n (default: 0, off)
  -no-introspection        Reject __schema and __type queries
  -require-name            Reject anonymous operations
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: lazygraph)
  -log.level <level>       debug, info, warn or error (default: info)
  -log.dev                 Human-readable development logs
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "validate":
		return cmdValidate(cmdArgs, stdout, stderr)
	case "run":
		return cmdRun(cmdArgs, stdout, stderr)
	case "help", "-h", "-help", "--help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "validate":
		fmt.Fprint(stdout, validateUsage)
	case "run":
		fmt.Fprint(stdout, runUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// compileFlags are shared by validate and run.
type compileFlags struct {
	schemaFile      string
	queryFile       string
	maxDepth        int
	noIntrospection bool
	requireName     bool
}

func (c *compileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.schemaFile, "schema", c.schemaFile, "GraphQL SDL file")
	fs.StringVar(&c.queryFile, "query", c.queryFile, "Query document file")
	fs.IntVar(&c.maxDepth, "max-depth", c.maxDepth, "Maximum operation depth")
	fs.BoolVar(&c.noIntrospection, "no-introspection", c.noIntrospection, "Reject introspection queries")
	fs.BoolVar(&c.requireName, "require-name", c.requireName, "Reject anonymous operations")
}

func (c *compileFlags) check() error {
	if c.schemaFile == "" {
		return fmt.Errorf("-schema is required")
	}
	if c.queryFile == "" {
		return fmt.Errorf("-query is required")
	}
	return nil
}

func (c *compileFlags) rules() []validator.Rule {
	var rs []validator.Rule
	if c.maxDepth > 0 {
		rs = append(rs, rules.MaxDepth(c.maxDepth))
	}
	if c.noIntrospection {
		rs = append(rs, rules.NoIntrospection)
	}
	if c.requireName {
		rs = append(rs, rules.RequireOperationName)
	}
	return rs
}

// compile loads the schema and compiles the query with opts added.
func (c *compileFlags) compile(runtime *resolver.Registry, opts ...lazy.Option) (*lazy.Executor, error) {
	sdl, err := os.ReadFile(c.schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	query, err := os.ReadFile(c.queryFile)
	if err != nil {
		return nil, fmt.Errorf("read query: %w", err)
	}
	s, err := lazy.NewSchema(string(sdl), runtime)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	opts = append(opts, lazy.WithRules(c.rules()...))
	exec, err := lazy.New(s, string(query), opts...)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", c.queryFile, err)
	}
	return exec, nil
}

func cmdValidate(args []string, stdout, stderr io.Writer) error {
	var cf compileFlags
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, validateUsage)
		return err
	}
	if err := cf.check(); err != nil {
		fmt.Fprint(stderr, validateUsage)
		return err
	}
	exec, err := cf.compile(resolver.New())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ok: %d operation(s), rules: %v\n", len(exec.Document().Operations), exec.Rules().Names())
	return nil
}

func cmdRun(args []string, stdout, stderr io.Writer) error {
	cf := compileFlags{}
	rootFile := ""
	varsFile := ""
	operation := ""
	repeat := 1
	format := string(encoding.JSON)
	errorPolicy := lazy.ErrorsAsData.String()
	otelEndpoint := ""
	otelService := "lazygraph"
	logLevel := "info"
	logDev := false

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	cf.register(fs)
	fs.StringVar(&rootFile, "root", rootFile, "JSON root value file")
	fs.StringVar(&varsFile, "variables", varsFile, "JSON variables file")
	fs.StringVar(&operation, "operation", operation, "Operation name")
	fs.IntVar(&repeat, "repeat", repeat, "Number of executions")
	fs.StringVar(&format, "format", format, "Output format")
	fs.StringVar(&errorPolicy, "error-policy", errorPolicy, "Error policy")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	fs.StringVar(&logLevel, "log.level", logLevel, "Log level")
	fs.BoolVar(&logDev, "log.dev", logDev, "Development logging")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, runUsage)
		return err
	}
	if err := cf.check(); err != nil {
		fmt.Fprint(stderr, runUsage)
		return err
	}
	if repeat < 1 {
		return fmt.Errorf("-repeat must be at least 1")
	}
	outFormat, err := encoding.ParseFormat(format)
	if err != nil {
		return err
	}
	policy, err := lazy.ParseErrorPolicy(errorPolicy)
	if err != nil {
		return err
	}

	var root any
	if rootFile != "" {
		if err := readJSON(rootFile, &root); err != nil {
			return fmt.Errorf("read root: %w", err)
		}
	}
	var vars map[string]any
	if varsFile != "" {
		if err := readJSON(varsFile, &vars); err != nil {
			return fmt.Errorf("read variables: %w", err)
		}
	}

	logger, err := logging.New(logLevel, logDev)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	defer logging.Register(logger)()
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	exec, err := cf.compile(resolver.New(), lazy.WithErrorPolicy(policy))
	if err != nil {
		return err
	}

	ctx := context.Background()
	in := lazy.Inputs{RootValue: root, VariableValues: vars, OperationName: operation}
	for i := range repeat {
		res, err := exec.Do(ctx, in).Await(ctx)
		var execErr *lazy.ExecutionError
		if errors.As(err, &execErr) {
			res = execErr.Result
		}
		if res != nil {
			if encErr := encoding.Encode(stdout, res, outFormat); encErr != nil {
				return encErr
			}
		}
		if err != nil {
			return fmt.Errorf("execution %d: %w", i+1, err)
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.UseNumber()
	return dec.Decode(v)
}
