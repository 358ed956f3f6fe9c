package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"renamer/internal/batch"
	"renamer/internal/config"
	"renamer/internal/executor"
	"renamer/internal/output"
	"renamer/internal/resolver"
	"renamer/internal/transform"
)

// version is set at build time via -ldflags.
var version = "dev"

// errRenamesFailed makes the process exit 1 after the failures were logged.
var errRenamesFailed = errors.New("one or more renames failed")

// app holds the process streams so commands can be run against buffers.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	piped  func() bool
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		piped:  func() bool { return resolver.IsPiped(os.Stdin) },
	}
}

// transformFlags are shared by the root and watch commands.
type transformFlags struct {
	match        string
	replace      string
	changeCase   string
	removeVowels bool
	numberStart  int
	onConflict   string
	dryRun       bool
	configFile   string
	verbose      bool
	quiet        bool
	logFile      string
}

func (f *transformFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.match, "match", "m", "", "Regular expression a file name must contain to be renamed")
	fs.StringVarP(&f.replace, "replace", "r", "", "Replacement for --match: $1 or ${name} insert a group, $$ is a literal $, {num}/{numN} insert the file number")
	fs.StringVarP(&f.changeCase, "change-case", "c", "", "Change the case of the base name: upper, lower or proper")
	fs.BoolVarP(&f.removeVowels, "remove-vowels", "x", false, "Remove vowels from the base name")
	fs.IntVar(&f.numberStart, "number-start", 1, "First value for {num} placeholders")
	fs.StringVar(&f.onConflict, "on-conflict", "fail", "What to do when the new name is taken: fail or suffix")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "Print what would be renamed without renaming")
	fs.StringVar(&f.configFile, "config", "", "JSON preset file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Only print errors")
	fs.StringVar(&f.logFile, "log", "", "Also append diagnostics to this file")
}

// buildConfig layers defaults, environment, preset and explicitly set flags.
func (f *transformFlags) buildConfig(fs *pflag.FlagSet) (*config.Configuration, error) {
	cfg := config.Default()

	e, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(e)

	if fs.Changed("config") {
		cfg.PresetFile = f.configFile
	}
	if cfg.PresetFile != "" {
		if err := cfg.LoadPreset(cfg.PresetFile); err != nil {
			return nil, err
		}
	}

	if fs.Changed("match") {
		cfg.Match = f.match
	}
	if fs.Changed("replace") {
		cfg.SetReplace(f.replace)
	}
	if fs.Changed("change-case") {
		cfg.ChangeCase = f.changeCase
	}
	if fs.Changed("remove-vowels") {
		cfg.RemoveVowels = f.removeVowels
	}
	if fs.Changed("number-start") {
		cfg.NumberStart = f.numberStart
	}
	if fs.Changed("on-conflict") {
		cfg.OnConflict = f.onConflict
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fs.Changed("quiet") {
		cfg.Quiet = f.quiet
	}
	if fs.Changed("log") {
		cfg.LogFile = f.logFile
	}
	cfg.DryRun = f.dryRun

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openOutput creates the output for cfg and reports validation warnings.
func (a *app) openOutput(cfg *config.Configuration) (*output.Output, error) {
	isTTY := false
	if f, ok := a.stderr.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	out, err := output.Open(output.Config{
		Level:     cfg.OutputLevel(),
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		IsTTY:     isTTY,

		MaxLogSize: cfg.LogMaxSize,
	}, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	for _, w := range config.ValidateConfig(cfg).Warnings {
		out.Debug("warning: %s: %s", w.Field, w.Message)
	}
	return out, nil
}

// newProcessor wires the pipeline, executor and processor for cfg.
func newProcessor(cfg *config.Configuration, out *output.Output, mode executor.Mode) (*batch.Processor, error) {
	spec, err := cfg.BuildSpec()
	if err != nil {
		return nil, err
	}
	return batch.New(batch.Options{
		Pipeline:    transform.New(spec),
		Executor:    executor.New(out, cfg.ConflictPolicy()),
		Output:      out,
		Mode:        mode,
		NumberStart: cfg.NumberStart,
	}), nil
}

func buildRootCommand(a *app) *cobra.Command {
	flags := &transformFlags{}
	var fromFile string
	var ignoreStdin bool

	cmd := &cobra.Command{
		Use:     "renamer [flags] [PATH...]",
		Version: version,
		Short:   "Rename files by pattern, case and vowel rules, with chainable dry-runs",
		Long: `renamer derives a new name for every candidate file and renames it.

Steps run in a fixed order on each file name:
  1. --match/--replace   regular expression substitution on base+extension;
                         $1 and ${name} insert groups, $$ is a literal $,
                         {num}/{numN} insert a running number padded to N
  2. --change-case       upper, lower or proper case of the base name
  3. --remove-vowels     drop aeiouAEIOU from the base name

Candidates come from piped stdin, else PATH arguments (a directory expands to
the files directly inside it), else --from-file.

Dry-run records look like:
  Dry-run: 'old/path' -> 'new/path'
Piping them into another renamer run continues from the new names and keeps
the whole chain in dry-run mode.

Examples:
  renamer -x mobile.txt
  renamer -m 'IMG-\d+' -r 'IMG_{num4}' ./photos
  renamer -n -c lower ./docs | renamer -x
  renamer find '*.JPG' ./photos -R | renamer -c lower`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig(cmd.Flags())
			if err != nil {
				return err
			}
			cfg.FromFile = fromFile
			cfg.IgnoreStdin = ignoreStdin

			out, err := a.openOutput(cfg)
			if err != nil {
				return err
			}
			defer out.Close()

			resolved, err := resolver.Resolve(resolver.Input{
				Stdin:    a.stdin,
				Piped:    !cfg.IgnoreStdin && a.piped(),
				Args:     args,
				ListFile: cfg.FromFile,
				DryRun:   cfg.DryRun,
			}, out)
			if err != nil {
				out.Error("%v", err)
			}
			proc, err := newProcessor(cfg, out, executor.ModeFor(resolved.DryRunDetected))
			if err != nil {
				return err
			}
			out.Debug("Resolved %d candidates from %s (%s)", len(resolved.Paths), resolved.Source, proc.Mode())

			summary := proc.Process(cmd.Context(), resolved.Paths)
			out.Debug("%s", summary)
			if summary.HasErrors() {
				return errRenamesFailed
			}
			return nil
		},
	}

	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "Read candidate paths from this file, one per line")
	cmd.Flags().BoolVar(&ignoreStdin, "ignore-stdin", false, "Do not read candidates from piped stdin")
	cmd.SetVersionTemplate(fmt.Sprintf("renamer %s\n", version))

	cmd.AddCommand(buildFindCommand(a))
	cmd.AddCommand(buildWatchCommand(a))
	cmd.AddCommand(buildVersionCommand(a))
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}
