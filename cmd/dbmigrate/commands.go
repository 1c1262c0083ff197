package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type opener func(cmd *cobra.Command) (*session, error)

func newMigrateCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending classical migrations in identifier order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			migrations, err := s.loadMigrations(cmd.Context())
			if err != nil {
				return err
			}

			report, err := s.migrator().Migrate(cmd.Context(), migrations)
			printList(s, verb("Applied", report.DryRun), report.Applied)
			printList(s, "Drifted", report.Drifted)
			return err
		},
	}
}

func newDeployCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy new and modified scripts in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			scripts, err := s.loadScripts(cmd.Context())
			if err != nil {
				return err
			}

			report, err := s.deployer().Deploy(cmd.Context(), scripts)
			printList(s, verb("Deployed", report.DryRun), report.Deployed)
			printList(s, "Unchanged", report.Unchanged)
			return err
		},
	}
}

func newRollbackCommand(open opener) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rollback <identifier>",
		Short: "Roll back one applied classical migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			migrations, err := s.loadMigrations(cmd.Context())
			if err != nil {
				return err
			}

			err = s.migrator().Rollback(cmd.Context(), migrations, args[0], force)
			if err != nil {
				return err
			}

			fmt.Fprintf(s.stdout, "%v %v\n", verb("Rolled back", s.dryRun), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "roll back even if the file changed since it was applied")
	return cmd
}

func newStatusCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending classical migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			migrations, err := s.loadMigrations(cmd.Context())
			if err != nil {
				return err
			}

			statuses, err := s.migrator().Status(cmd.Context(), migrations)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(s.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTIFIER\tNAME\tSTATE\tAPPLIED AT")
			for _, status := range statuses {
				state, appliedAt := "pending", ""
				if status.Record != nil {
					state = "applied"
					appliedAt = status.Record.AppliedAt.Format(time.RFC3339)
				}
				if status.Drifted {
					state += " (changed)"
				}
				if status.Missing {
					state += " (file missing)"
				}

				fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", status.Identifier, status.Name, state, appliedAt)
			}

			return w.Flush()
		},
	}
}

func newPlanCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show scripts in deployment order with their change status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			scripts, err := s.loadScripts(cmd.Context())
			if err != nil {
				return err
			}

			plan, err := s.deployer().Plan(cmd.Context(), scripts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(s.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSCRIPT\tSTATUS\tDEPENDS\tSOURCES")
			for i, entry := range plan {
				fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", i+1, entry.Script.Name, entry.Status,
					strings.Join(entry.Script.Dependencies, ","), strings.Join(entry.Script.Sources, ","))
			}

			return w.Flush()
		},
	}
}

func verb(past string, dryRun bool) string {
	if dryRun {
		return "Would have " + strings.ToLower(past[:1]) + past[1:]
	}

	return past
}

func printList(s *session, label string, names []string) {
	if len(names) == 0 {
		return
	}

	fmt.Fprintf(s.stdout, "%v: %v\n", label, strings.Join(names, ", "))
}
