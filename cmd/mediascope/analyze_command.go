package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediascope/internal/analysis"
	"mediascope/internal/preflight"
	"mediascope/internal/report"
	"mediascope/internal/scenes"
)

type analyzeOptions struct {
	jsonOutput bool
	tableOut   bool
	full       bool
	fields     []string
	write      bool
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze media files and print their records",
		Long: "Analyze probes each file, sweeps scene boundaries at every configured threshold and\n" +
			"transcribes each audio channel. Files are processed one at a time. Output is JSON when\n" +
			"stdout is not a terminal or --json is set, otherwise a table summary.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON projections")
	cmd.Flags().BoolVar(&opts.tableOut, "table", false, "Print table summaries even when stdout is not a terminal")
	cmd.Flags().BoolVar(&opts.full, "full", false, "Project every computed field")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", nil, "Comma-separated projection fields (overrides --full and config)")
	cmd.Flags().BoolVar(&opts.write, "write", false, "Write <report_dir>/<file_name>.analysis.json for each file")
	cmd.MarkFlagsMutuallyExclusive("json", "table")
	return cmd
}

func runAnalyze(cmd *cobra.Command, ctx *commandContext, opts analyzeOptions, paths []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	analyzer, err := analysis.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	fields, err := projectionFields(analyzer, opts)
	if err != nil {
		return err
	}

	var writer *report.Writer
	if opts.write {
		if check := preflight.CheckDirectoryAccess("Report directory", cfg.Paths.ReportDir); !check.Passed {
			return fmt.Errorf("report directory unusable: %s", check.Detail)
		}
		writer = report.NewWriter(cfg.Paths.ReportDir, logger)
	}

	asJSON := opts.jsonOutput || (!opts.tableOut && !isTerminal(cmd.OutOrStdout()))
	colorize := isTerminal(cmd.OutOrStdout())

	failures := 0
	for _, path := range paths {
		rec, err := analyzer.Analyze(cmd.Context(), path)
		if err != nil {
			if errors.Is(err, cmd.Context().Err()) {
				return err
			}
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			continue
		}
		projection, err := rec.Project(fields...)
		if err != nil {
			return err
		}
		if writer != nil {
			target, err := writer.Write(cmd.Context(), rec.Identity().FileName, projection)
			if err != nil {
				return err
			}
			if !asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", target)
			}
		}
		if asJSON {
			if err := writeJSON(cmd, projection); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRecord(rec, colorize))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed analysis", failures, len(paths))
	}
	return nil
}

func projectionFields(analyzer *analysis.Analyzer, opts analyzeOptions) ([]analysis.Field, error) {
	switch {
	case len(opts.fields) > 0:
		return analysis.ResolveFields("", opts.fields)
	case opts.full:
		return analysis.FullFields(), nil
	default:
		return analyzer.Fields(), nil
	}
}

func renderRecord(rec *analysis.Record, colorize bool) string {
	id := rec.Identity()
	var b strings.Builder
	for _, line := range renderSectionHeader(id.FileName, colorize) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	summary := [][]string{
		{"Path", id.FilePath},
		{"Extension", id.Extension},
		{"Video streams", strconv.Itoa(rec.VideoStreamCount())},
		{"Audio streams", strconv.Itoa(rec.AudioStreamCount())},
		{"Run", rec.RunID()},
	}
	b.WriteString(renderTable("", []string{"Field", "Value"}, summary, nil))
	b.WriteByte('\n')

	if sweep := rec.Scenes(); sweep.Len() > 0 {
		rows := make([][]string, 0, sweep.Len())
		for _, th := range sweep.Thresholds() {
			list, _ := sweep.Scenes(th)
			rows = append(rows, []string{scenes.FormatThreshold(th), strconv.Itoa(len(list)), lastEnd(list)})
		}
		b.WriteString(renderTable("Scenes", []string{"Threshold", "Scenes", "Last End"}, rows, []columnAlignment{alignRight, alignRight, alignRight}))
		b.WriteByte('\n')
	}

	if dictation := rec.Dictation(); dictation.Len() > 0 {
		rows := make([][]string, 0, dictation.Len())
		for ch := 1; ch <= dictation.Len(); ch++ {
			utterances, _ := dictation.Utterances(ch)
			preview := ""
			if len(utterances) > 0 {
				preview = truncate(utterances[0].Text, 48)
			}
			rows = append(rows, []string{strconv.Itoa(ch), strconv.Itoa(len(utterances)), preview})
		}
		b.WriteString(renderTable("Dictation", []string{"Channel", "Utterances", "First"}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))
		b.WriteByte('\n')
	}

	for _, stage := range rec.Stages() {
		message := string(stage.Status)
		if stage.Detail != "" {
			message += " (" + stage.Detail + ")"
		}
		if stage.Err != nil {
			message += ": " + stage.Err.Error()
		}
		b.WriteString(renderStatusLine(string(stage.Stage), stageStatusKind(stage.Status), message, colorize))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func lastEnd(list []scenes.Scene) string {
	if len(list) == 0 {
		return "-"
	}
	return list[len(list)-1].End.String()
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
