package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediascope/internal/deps"
	"mediascope/internal/preflight"
	"mediascope/internal/speech"
)

type depsReport struct {
	Binaries []depsBinary     `json:"binaries"`
	Checks   []depsCheck      `json:"checks"`
	Backend  depsBackendState `json:"recognizer_backend"`
}

type depsBinary struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Path      string `json:"path,omitempty"`
	Available bool   `json:"available"`
	Optional  bool   `json:"optional"`
	Detail    string `json:"detail,omitempty"`
}

type depsCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type depsBackendState struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools, directories and the speech recognizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckSystemDeps(cfg)
			checks := preflight.RunAll(cfg)

			if jsonOutput {
				return writeJSON(cmd, buildDepsReport(statuses, checks))
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range statuses {
				kind, message := statusOK, status.Path
				if !status.Available {
					kind, message = statusError, status.Detail
					if status.Optional {
						kind = statusWarn
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func buildDepsReport(statuses []deps.Status, checks []preflight.Result) depsReport {
	report := depsReport{
		Binaries: make([]depsBinary, 0, len(statuses)),
		Checks:   make([]depsCheck, 0, len(checks)),
		Backend:  depsBackendState{Name: speech.Backend, Available: speech.Available()},
	}
	for _, status := range statuses {
		report.Binaries = append(report.Binaries, depsBinary{
			Name:      status.Name,
			Command:   status.Command,
			Path:      status.Path,
			Available: status.Available,
			Optional:  status.Optional,
			Detail:    status.Detail,
		})
	}
	for _, check := range checks {
		report.Checks = append(report.Checks, depsCheck{Name: check.Name, Passed: check.Passed, Detail: check.Detail})
	}
	return report
}
