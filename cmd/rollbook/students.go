package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rollbook/rollbook/internal/model"
	"github.com/rollbook/rollbook/internal/repository"
)

func newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"students"},
		Short:   "Manage students",
	}
	cmd.AddCommand(
		newStudentAddCmd(),
		newStudentListCmd(),
		newStudentGetCmd(),
		newStudentUpdateCmd(),
		newStudentRemoveCmd(),
	)
	return cmd
}

func newStudentAddCmd() *cobra.Command {
	var student model.Student
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enroll a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				if err := repository.NewStudents(env.session).Save(cmd.Context(), &student); err != nil {
					return fmt.Errorf("adding student: %w", err)
				}
				green.Fprintf(cmd.OutOrStdout(), "Added student %d: %s\n", student.ID, student.FullName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&student.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&student.LastName, "last", "", "last name")
	cmd.Flags().Float64Var(&student.GPA, "gpa", 0, "grade point average")
	return cmd
}

func newStudentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List students by name",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(env *cmdEnv) error {
				students, err := repository.NewStudents(env.session).ListByName(cmd.Context())
				if err != nil {
					return err
				}
				if len(students) == 0 {
					yellow.Fprintln(cmd.OutOrStdout(), "No students.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tLAST\tFIRST\tGPA")
				fmt.Fprintln(w, "--\t----\t-----\t---")
				for _, s := range students {
					fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", s.ID, s.LastName, s.FirstName, s.GPA)
				}
				return w.Flush()
			})
		},
	}
}

func newStudentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(env *cmdEnv) error {
				student, err := repository.NewStudents(env.session).FindByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if student == nil {
					return fmt.Errorf("student %d not found", id)
				}
				w := cmd.OutOrStdout()
				cyan.Fprintf(w, "Student %d\n", student.ID)
				fmt.Fprintf(w, "  Name: %s\n", student.FullName())
				fmt.Fprintf(w, "  GPA:  %.2f\n", student.GPA)
				return nil
			})
		},
	}
}

func newStudentUpdateCmd() *cobra.Command {
	var first, last string
	var gpa float64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a student's name or GPA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(env *cmdEnv) error {
				students := repository.NewStudents(env.session)
				student, err := students.FindByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if student == nil {
					return fmt.Errorf("student %d not found", id)
				}

				flags := cmd.Flags()
				if flags.Changed("first") {
					student.FirstName = first
				}
				if flags.Changed("last") {
					student.LastName = last
				}
				if flags.Changed("gpa") {
					student.GPA = gpa
				}
				if err := students.Save(cmd.Context(), student); err != nil {
					return fmt.Errorf("updating student %d: %w", id, err)
				}
				green.Fprintf(cmd.OutOrStdout(), "Updated student %d: %s (%.2f)\n", student.ID, student.FullName(), student.GPA)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&first, "first", "", "new first name")
	cmd.Flags().StringVar(&last, "last", "", "new last name")
	cmd.Flags().Float64Var(&gpa, "gpa", 0, "new grade point average")
	return cmd
}

func newStudentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a student",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(env *cmdEnv) error {
				if err := repository.NewStudents(env.session).RemoveByID(cmd.Context(), id); err != nil {
					return err
				}
				green.Fprintf(cmd.OutOrStdout(), "Removed student %d\n", id)
				return nil
			})
		},
	}
}
