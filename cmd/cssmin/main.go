// Command cssmin minifies CSS files.
//
// Usage:
//
//	cssmin [flags] [file ...]
//
// With no files the style sheet is read from standard input. Diagnostics are
// logged to standard error; the exit status is 2 if any of them is at or
// below the -warn severity.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/benbjohnson/cssmin"
	"github.com/benbjohnson/cssmin/color"
	"github.com/benbjohnson/cssmin/diag"
	"github.com/benbjohnson/cssmin/internal/htmlstyle"
	"github.com/benbjohnson/cssmin/internal/logger"
	"github.com/benbjohnson/cssmin/internal/server"
	"github.com/benbjohnson/cssmin/parser"
)

// ErrDiagnostics is returned when a build-breaking diagnostic was reported.
var ErrDiagnostics = errors.New("style sheet has errors")

func main() {
	m := NewMain()
	if err := m.Run(os.Args[1:]...); errors.Is(err, ErrDiagnostics) {
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}
}

// Config holds the settings that can be loaded from a JSON file. Flags
// override it.
type Config struct {
	ColorNames        string            `json:"color_names"`
	Comments          string            `json:"comments"`
	Pretty            bool              `json:"pretty"`
	Indent            int               `json:"indent"`
	TermSemicolons    bool              `json:"term_semicolons"`
	AspNet            bool              `json:"aspnet"`
	MinifyExpressions bool              `json:"minify_expressions"`
	MacSafariQuirks   bool              `json:"mac_safari_quirks"`
	WarningLevel      int               `json:"warning_level"`
	Replacements      map[string]string `json:"replacements"`
}

func defaultConfig() *Config {
	s := parser.DefaultSettings()
	return &Config{
		ColorNames:        s.ColorNames.String(),
		Comments:          s.CommentMode.String(),
		Indent:            s.IndentSize,
		MinifyExpressions: s.MinifyExpressions,
		MacSafariQuirks:   s.MacSafariQuirks,
		WarningLevel:      int(s.WarningLevel),
	}
}

// Settings converts the configuration to parser settings.
func (c *Config) Settings() (parser.Settings, error) {
	s := parser.DefaultSettings()

	var ok bool
	if s.ColorNames, ok = color.ParsePolicy(c.ColorNames); !ok {
		return s, fmt.Errorf("invalid color names: %q", c.ColorNames)
	}
	if s.CommentMode, ok = parser.ParseCommentMode(c.Comments); !ok {
		return s, fmt.Errorf("invalid comment mode: %q", c.Comments)
	}
	if c.Pretty {
		s.OutputMode = parser.MultipleLines
	}
	s.IndentSize = c.Indent
	s.TermSemicolons = c.TermSemicolons
	s.AllowEmbeddedAspNetBlocks = c.AspNet
	s.MinifyExpressions = c.MinifyExpressions
	s.MacSafariQuirks = c.MacSafariQuirks
	if c.WarningLevel < int(diag.SeverityFatal) || c.WarningLevel > int(diag.SeverityStyle) {
		return s, fmt.Errorf("invalid warning level: %d", c.WarningLevel)
	}
	s.WarningLevel = diag.Severity(c.WarningLevel)
	if len(c.Replacements) > 0 {
		s.ValueReplacements = parser.Replacements(c.Replacements)
	}
	return s, nil
}

// Main represents the program execution.
type Main struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ListenAndServe starts the HTTP server. Replaced in tests.
	ListenAndServe func(addr string, h http.Handler) error
}

// NewMain returns a new instance of Main connected to the standard streams.
func NewMain() *Main {
	return &Main{
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		ListenAndServe: http.ListenAndServe,
	}
}

// Run executes the program with the given arguments.
func (m *Main) Run(args ...string) error {
	fs := flag.NewFlagSet("cssmin", flag.ContinueOnError)
	fs.SetOutput(m.Stderr)
	configPath := fs.String("config", "", "path to a JSON configuration file")
	resPath := fs.String("res", "", "path to a JSON object of value replacements")
	colors := fs.String("colors", "", "color names to use: strict, hex or major")
	comments := fs.String("comments", "", "comments to keep: important, none, all or hacks")
	pretty := fs.Bool("pretty", false, "write one declaration per line")
	indent := fs.Int("indent", 0, "indent size when pretty printing")
	term := fs.Bool("term", false, "terminate the last declaration of each block")
	aspnet := fs.Bool("aspnet", false, "allow embedded <% %> blocks")
	expr := fs.Bool("expr", true, "minify expression() scripts")
	warn := fs.Int("warn", -1, "highest severity (0-4) that fails the run")
	htmlMode := fs.Bool("html", false, "treat input as HTML and minify its style sheets")
	addr := fs.String("http", "", "serve the minifier over HTTP on this address")
	outPath := fs.String("o", "", "write output to this file instead of stdout")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level, ok := logger.ParseLevel(*logLevel)
	if !ok {
		return fmt.Errorf("invalid log level: %q", *logLevel)
	}
	logger.Init(logger.Config{Level: level, Format: *logFormat, Output: m.Stderr})

	cfg := defaultConfig()
	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	if *resPath != "" {
		b, err := os.ReadFile(*resPath)
		if err != nil {
			return fmt.Errorf("read replacements: %w", err)
		}
		if err := json.Unmarshal(b, &cfg.Replacements); err != nil {
			return fmt.Errorf("parse replacements: %w", err)
		}
	}

	// Explicit flags win over the configuration file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "colors":
			cfg.ColorNames = *colors
		case "comments":
			cfg.Comments = *comments
		case "pretty":
			cfg.Pretty = *pretty
		case "indent":
			cfg.Indent = *indent
		case "term":
			cfg.TermSemicolons = *term
		case "aspnet":
			cfg.AspNet = *aspnet
		case "expr":
			cfg.MinifyExpressions = *expr
		case "warn":
			cfg.WarningLevel = *warn
		}
	})

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	opts := []cssmin.Option{cssmin.WithSettings(settings)}

	if *addr != "" {
		logger.Info("starting server", "addr", *addr)
		return m.ListenAndServe(*addr, server.New(server.Config{Options: opts, Threshold: settings.WarningLevel}))
	}

	out := m.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	failed := false
	for _, name := range inputs {
		src, err := m.read(name)
		if err != nil {
			return err
		}

		var result string
		var list diag.List
		if *htmlMode {
			var buf strings.Builder
			list, err = htmlstyle.Minify(&buf, strings.NewReader(src), opts...)
			result = buf.String()
		} else {
			result, list, err = cssmin.Minify(src, opts...)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Debug("minified", "file", name, "in", len(src), "out", len(result), "diagnostics", len(list))

		for _, d := range list {
			logger.LogDiagnostic(name, d, settings.WarningLevel)
		}
		if errs, _ := list.Split(settings.WarningLevel); len(errs) > 0 {
			failed = true
		}

		if _, err := io.WriteString(out, result); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if failed {
		return ErrDiagnostics
	}
	return nil
}

// read returns the contents of the named file, or of stdin for "-".
func (m *Main) read(name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(m.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}
