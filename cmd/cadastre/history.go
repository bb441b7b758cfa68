package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmdejong/cadastrs/internal/archive"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/service"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots, newest first",
		Long: `Lists the snapshots kept by the postgres and sqlite stores. With the file
store only the latest snapshot is kept, so the archive directory is listed
instead when one is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), func(s service.TownService) error {
				metas, err := s.History(cmd.Context(), limit)
				if errors.Is(err, errs.ErrNoHistory) && a.cfg.Archive.Dir != "" {
					return a.listArchives(cmd, limit)
				}
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCREATED\tPLACES\tSEED\tDIGEST")
				for _, m := range metas {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
						m.ID, m.CreatedAt.Format(time.RFC3339), m.Places, int64(m.Seed), shortDigest(m.Digest))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of snapshots to list")
	return cmd
}

func (a *app) listArchives(cmd *cobra.Command, limit int) error {
	paths, err := archive.List(a.cfg.Archive.Dir)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ARCHIVE\tSIZE")
	for i := len(paths) - 1; i >= 0 && (limit <= 0 || len(paths)-i <= limit); i-- {
		size := "?"
		if st, err := os.Stat(paths[i]); err == nil {
			size = humanize.Bytes(uint64(st.Size()))
		}
		fmt.Fprintf(tw, "%s\t%s\n", filepath.Base(paths[i]), size)
	}
	return tw.Flush()
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
