package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/config"
	"github.com/rollbook/rollbook/internal/mcpserver"
	"github.com/rollbook/rollbook/internal/report"
	"github.com/rollbook/rollbook/internal/repository"
	"github.com/rollbook/rollbook/internal/school"
)

func newSchoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "school",
		Short: "Show the school this roster belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			s, err := school.Load(cfg.SchoolFile)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			cyan.Fprintf(w, "%s\n", s.Name)
			fmt.Fprintf(w, "  ID:   %d\n", s.ID)
			fmt.Fprintf(w, "  File: %s\n", cfg.SchoolFile)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var asHTML bool
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the student roster as markdown or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				s, err := school.Load(env.cfg.SchoolFile)
				if err != nil {
					return err
				}
				students, err := repository.NewStudents(env.session).ListByName(cmd.Context())
				if err != nil {
					return err
				}

				data := []byte(report.Roster(s, students))
				if asHTML {
					if data, err = report.HTML(string(data)); err != nil {
						return err
					}
				}

				if out == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				env.log.Info().Str("path", out).Int("students", len(students)).Msg("report written")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML instead of markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the roster as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				s, err := school.Load(env.cfg.SchoolFile)
				if err != nil {
					return err
				}
				srv := mcpserver.NewServer(repository.NewStudents(env.session), s, env.log)
				return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
			})
		},
	}
}
