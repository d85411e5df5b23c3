package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robashaw/basisopt/internal/store"
)

var sessionDataDir string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved optimization sessions",
	Long: `List, inspect and delete saved optimization sessions. A session holds a
strategy's full state and a basis snapshot, enough to examine or resume a run.`,
}

var listSessionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	RunE:  runListSessions,
}

var showSessionCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one session in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowSession,
}

var deleteSessionCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteSession,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(listSessionsCmd)
	sessionsCmd.AddCommand(showSessionCmd)
	sessionsCmd.AddCommand(deleteSessionCmd)

	sessionsCmd.PersistentFlags().StringVar(&sessionDataDir, "data-dir", "./data", "Base directory for session storage")
}

func runListSessions(cmd *cobra.Command, args []string) error {
	sessionStore, err := store.NewFSStore(sessionDataDir)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	infos, err := sessionStore.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(infos) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tELEMENT\tSTRATEGY\tCREATED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.ID, info.Element, info.Strategy, info.Created.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runShowSession(cmd *cobra.Command, args []string) error {
	sessionStore, err := store.NewFSStore(sessionDataDir)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	session, err := sessionStore.LoadSession(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Session:   %s\n", session.ID)
	fmt.Printf("Element:   %s\n", session.Element)
	fmt.Printf("Strategy:  %s (step %d, last objective %g, delta %g)\n",
		session.Strategy.Type, session.Strategy.Step,
		session.Strategy.LastObjective, session.Strategy.DeltaObjective)
	fmt.Printf("Created:   %s\n", session.Created.Format("2006-01-02 15:04:05"))
	for _, shell := range session.Basis[session.Element] {
		fmt.Printf("  shell %s: %d primitives %v\n", shell.L, len(shell.Exps), shell.Exps)
	}
	if session.Results != nil {
		fmt.Printf("Steps:     %d\n", session.Results.Len())
		for _, label := range session.Results.Labels {
			step := session.Results.Steps[label]
			fmt.Printf("  %s: objective %g (%s)\n", label, step.Fun, step.Status)
		}
	}
	return nil
}

func runDeleteSession(cmd *cobra.Command, args []string) error {
	sessionStore, err := store.NewFSStore(sessionDataDir)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	if err := sessionStore.DeleteSession(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}
