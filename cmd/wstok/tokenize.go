package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wstok/internal/config"
	"wstok/internal/diag"
	"wstok/internal/diagfmt"
	"wstok/internal/driver"
	"wstok/internal/lexer"
	"wstok/internal/observ"
	"wstok/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] [file|dir|-]",
		Short: "Split text into whitespace-separated tokens",
		Long: `Tokenize prints every maximal run of non-whitespace characters with its start offset.
Without a path, or with -, the text is read from stdin. A directory is walked for files
with the configured extensions and tokenized in parallel.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenize,
	}
	f := cmd.Flags()
	f.String("text", "", "tokenize this string instead of a file")
	f.String("format", "pretty", "output format (pretty|json|ndjson|yaml|msgpack|words)")
	f.String("offsets", "byte", "offset unit (byte|rune)")
	f.String("normalize", "none", "unicode normalization applied on load (none|nfc|nfd|nfkc|nfkd)")
	f.Bool("allow-invalid-utf8", false, "tokenize ill-formed UTF-8 instead of rejecting it")
	f.Bool("trivia", false, "report the whitespace preceding each token")
	f.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	f.StringSlice("ext", driver.DefaultExtensions, "file extensions walked in a directory")
	f.Bool("cache", false, "reuse token lists from the on-disk cache")
	f.String("ui", "auto", "progress UI for directories (auto|on|off)")
	f.String("diag-format", "pretty", "diagnostics format on stderr (pretty|json)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	return cmd
}

type tokenizeSettings struct {
	format     diagfmt.Format
	unit       lexer.OffsetUnit
	opts       driver.Options
	useCache   bool
	jobs       int
	exts       []string
	ui         uiMode
	diagFormat string
	withNotes  bool
	quiet      bool
	timings    bool
}

// readTokenizeSettings merges flags with the [tokenize] section of cfg.
func readTokenizeSettings(cmd *cobra.Command, cfg *config.Config) (tokenizeSettings, error) {
	var s tokenizeSettings
	flags := cmd.Flags()
	tc := cfg.Tokenize
	const section = "tokenize"

	formatStr, err := setting(cmd, flags.GetString, "format", cfg, section, "format", tc.Format)
	if err != nil {
		return s, err
	}
	if s.format, err = diagfmt.ParseFormat(formatStr); err != nil {
		return s, err
	}

	offsets, err := setting(cmd, flags.GetString, "offsets", cfg, section, "offsets", tc.Offsets)
	if err != nil {
		return s, err
	}
	if s.unit, err = lexer.ParseOffsetUnit(offsets); err != nil {
		return s, err
	}

	normStr, err := setting(cmd, flags.GetString, "normalize", cfg, section, "normalize", tc.Normalize)
	if err != nil {
		return s, err
	}
	norm, err := source.ParseNormalization(normStr)
	if err != nil {
		return s, err
	}

	allowInvalid, err := setting(cmd, flags.GetBool, "allow-invalid-utf8", cfg, section, "allow_invalid_utf8", tc.AllowInvalidUTF8)
	if err != nil {
		return s, err
	}
	trivia, err := setting(cmd, flags.GetBool, "trivia", cfg, section, "trivia", tc.Trivia)
	if err != nil {
		return s, err
	}
	maxDiagnostics, err := setting(cmd, flags.GetInt, "max-diagnostics", cfg, section, "max_diagnostics", tc.MaxDiagnostics)
	if err != nil {
		return s, err
	}
	s.opts = driver.Options{
		MaxDiagnostics:   maxDiagnostics,
		AllowInvalidUTF8: allowInvalid,
		Normalize:        norm,
		KeepTrivia:       trivia,
	}

	if s.useCache, err = setting(cmd, flags.GetBool, "cache", cfg, section, "cache", tc.Cache); err != nil {
		return s, err
	}
	if s.jobs, err = setting(cmd, flags.GetInt, "jobs", cfg, section, "jobs", tc.Jobs); err != nil {
		return s, err
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative")
	}
	if s.exts, err = setting(cmd, flags.GetStringSlice, "ext", cfg, section, "extensions", tc.Extensions); err != nil {
		return s, err
	}
	for i, ext := range s.exts {
		if !strings.HasPrefix(ext, ".") {
			s.exts[i] = "." + ext
		}
	}

	uiStr, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiStr); err != nil {
		return s, err
	}

	if s.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return s, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch s.diagFormat {
	case "pretty", "json":
	default:
		return s, fmt.Errorf("unknown diag-format: %s", s.diagFormat)
	}
	if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return s, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := readTokenizeSettings(cmd, cfg)
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if s.useCache {
		cache, err := driver.OpenDiskCache("wstok")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache disabled: %v\n", err)
		} else {
			s.opts.Cache = cache
		}
	}

	ctx := cmd.Context()
	if cmd.Flags().Changed("text") {
		if len(args) > 0 {
			return fmt.Errorf("--text cannot be combined with a path")
		}
		text, err := cmd.Flags().GetString("text")
		if err != nil {
			return fmt.Errorf("failed to get text flag: %w", err)
		}
		res, err := driver.TokenizeText(ctx, "<text>", text, s.opts)
		return reportSingle(cmd, s, res, err)
	}

	if len(args) == 0 || args[0] == "-" {
		res, err := driver.TokenizeReader(ctx, "<stdin>", cmd.InOrStdin(), s.opts)
		return reportSingle(cmd, s, res, err)
	}

	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return runTokenizeDir(cmd, s, path)
	}
	res, err := driver.Tokenize(ctx, path, s.opts)
	return reportSingle(cmd, s, res, err)
}

func reportSingle(cmd *cobra.Command, s tokenizeSettings, res *driver.TokenizeResult, err error) error {
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	set := diagfmt.TokenSet{File: res.File, Tokens: res.Tokens, Lexemes: res.Lexemes, Unit: s.unit}
	if err := diagfmt.FormatTokens(cmd.OutOrStdout(), s.format, set); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	if err := reportDiagnostics(cmd, s, res.Bag, res.FileSet, res.Timer, "tokenize", res.File.Path); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errHasDiagnostics
	}
	return nil
}

func runTokenizeDir(cmd *cobra.Command, s tokenizeSettings, dir string) error {
	dirOpts := driver.DirOptions{Options: s.opts, Extensions: s.exts, Jobs: s.jobs}

	var (
		fileSet *source.FileSet
		results []driver.TokenizeDirResult
		err     error
	)
	if shouldUseTUI(s.ui, s.quiet) {
		fileSet, results, err = runTokenizeDirWithUI(cmd.Context(), "tokenize "+dir, dir, dirOpts)
	} else {
		fileSet, results, err = driver.TokenizeDir(cmd.Context(), dir, dirOpts)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	bag := diag.NewBag(s.opts.MaxDiagnostics)
	timer := observ.NewTimer()
	sets := make([]diagfmt.TokenSet, 0, len(results))
	for _, r := range results {
		if r.Bag != nil {
			bag.Merge(r.Bag)
		}
		if r.Result == nil {
			continue
		}
		sets = append(sets, diagfmt.TokenSet{File: r.File, Tokens: r.Result.Tokens, Lexemes: r.Result.Lexemes, Unit: s.unit})
		timer.Merge(filepath.Base(r.Path)+":", r.Result.Timer)
	}

	if err := diagfmt.FormatTokenSets(cmd.OutOrStdout(), s.format, sets); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	if err := reportDiagnostics(cmd, s, bag, fileSet, timer, "tokenize-dir", dir); err != nil {
		return err
	}
	if bag.HasErrors() {
		return errHasDiagnostics
	}
	return nil
}

// reportDiagnostics prints the bag to stderr. --quiet hides a bag without errors.
// With --timings the report goes out as a text summary, or as an OBS5001
// diagnostic in JSON mode.
func reportDiagnostics(cmd *cobra.Command, s tokenizeSettings, bag *diag.Bag, fs *source.FileSet, timer *observ.Timer, kind, path string) error {
	errOut := cmd.ErrOrStderr()
	if s.timings && s.diagFormat == "json" {
		driver.AppendTimings(bag, kind, path, timer)
	}
	bag.Sort()

	if bag.Len() > 0 && (!s.quiet || bag.HasErrors() || s.timings) {
		switch s.diagFormat {
		case "json":
			opts := diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: s.withNotes || s.timings}
			if err := diagfmt.JSON(errOut, bag, fs, opts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
		default:
			colored, err := useColor(cmd, os.Stderr)
			if err != nil {
				return err
			}
			diagfmt.Pretty(errOut, bag, fs, diagfmt.PrettyOpts{Color: colored, ShowNotes: s.withNotes})
		}
	}

	if s.timings && s.diagFormat != "json" {
		fmt.Fprint(errOut, timer.Summary())
	}
	return nil
}
