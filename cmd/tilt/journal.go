package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/tilt/internal/store"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent sessions from a journal database",
		Long: `Show recent sessions from a journal database, or with --session the
actions fired during one session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")
			sessionID, _ := cmd.Flags().GetString("session")

			st, err := store.New(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			if sessionID != "" {
				return showSession(cmd, st, sessionID)
			}

			sessions, err := st.Sessions().Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tSTARTED\tDURATION\tFRAMES\tFIRED\tLEFT\tRIGHT\tUP\tDOWN")
			for _, s := range sessions {
				counts, err := st.FiredActions().CountByAction(ctx, s.ID)
				if err != nil {
					return fmt.Errorf("count actions for %s: %w", s.ID, err)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
					s.ID, s.StartedAt.Local().Format(time.DateTime), sessionDuration(s),
					s.Frames, s.Fired, counts["LEFT"], counts["RIGHT"], counts["UP"], counts["DOWN"])
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("db", "", "journal database path")
	cmd.Flags().Int("limit", 10, "number of sessions to show")
	cmd.Flags().String("session", "", "show the fired actions of this session")
	cmd.MarkFlagRequired("db")
	return cmd
}

// showSession prints one session and every action fired during it.
func showSession(cmd *cobra.Command, st *store.Store, id string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := st.Sessions().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("get session %s: %w", id, err)
	}

	actions, err := st.FiredActions().ListBySession(ctx, id)
	if err != nil {
		return fmt.Errorf("list actions for %s: %w", id, err)
	}

	fmt.Fprintf(out, "Session:  %s\n", s.ID)
	fmt.Fprintf(out, "Started:  %s\n", s.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Duration: %s\n", sessionDuration(s))
	fmt.Fprintf(out, "Frames:   %d\n", s.Frames)
	fmt.Fprintf(out, "Fired:    %d\n\n", len(actions))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tACTION\tDELIVERED\tERROR")
	for _, a := range actions {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
			a.FiredAt.Sub(s.StartedAt).Round(time.Millisecond), a.Action, a.Delivered, a.Error)
	}
	return w.Flush()
}

func sessionDuration(s *store.Session) string {
	if s.EndedAt == nil {
		return "running"
	}
	return s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
}
