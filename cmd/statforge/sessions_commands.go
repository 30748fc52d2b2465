package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"statforge/internal/store"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect saved analysis sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsDeleteCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				sessions, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(sessions) == 0 {
					fmt.Fprintln(out, "No saved sessions.")
					return nil
				}

				headers := []string{"ID", "Created", "Player", "Analysis Type", "Reps", "Dropped"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
				rows := make([][]string, 0, len(sessions))
				for _, session := range sessions {
					rows = append(rows, []string{
						truncateID(session.ID),
						session.CreatedAt.Local().Format("2006-01-02 15:04"),
						session.PlayerName,
						session.AnalysisType,
						strconv.Itoa(session.Summary.Kept),
						strconv.Itoa(session.Summary.Dropped),
					})
				}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to list (0 for all)")
	return cmd
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session and its reps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				session, err := resolveSession(cmd, st, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s\n", session.ID)
				fmt.Fprintf(out, "  created:  %s\n", session.CreatedAt.Local().Format(time.RFC1123))
				if session.PlayerName != "" {
					fmt.Fprintf(out, "  player:   %s (%s)\n", session.PlayerName, session.Position)
				}
				fmt.Fprintf(out, "  analysis: %s\n", session.AnalysisType)
				if session.VideoPath != "" {
					fmt.Fprintf(out, "  video:    %s\n", session.VideoPath)
				}
				if session.Notes != "" {
					fmt.Fprintf(out, "  notes:    %s\n", session.Notes)
				}
				fmt.Fprintf(out, "  reps:     %d kept, %d dropped\n", session.Summary.Kept, session.Summary.Dropped)
				if len(session.Reps) > 0 {
					fmt.Fprintln(out, renderRepTable(session.Reps))
				}
				return nil
			})
		},
	}
}

func newSessionsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				session, err := resolveSession(cmd, st, args[0])
				if err != nil {
					return err
				}
				if err := st.Delete(cmd.Context(), session.ID); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Deleted session %s", session.ID)
				return nil
			})
		},
	}
}

// resolveSession accepts a full session ID or an unambiguous prefix.
func resolveSession(cmd *cobra.Command, st *store.Store, id string) (*store.Session, error) {
	session, err := st.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	sessions, err := st.List(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *store.Session
	for i := range sessions {
		if len(id) >= 4 && len(sessions[i].ID) >= len(id) && sessions[i].ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("session prefix %q is ambiguous", id)
			}
			match = &sessions[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no session with id %q", id)
	}
	return st.Get(cmd.Context(), match.ID)
}
