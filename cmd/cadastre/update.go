package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmdejong/cadastrs/internal/service"
	"github.com/jmdejong/cadastrs/internal/source"
)

func (a *app) runUpdate(cmd *cobra.Command, _ []string) error {
	return a.withService(cmd.Context(), func(s service.TownService) error {
		candidates := source.Gather(source.FromConfig(a.cfg), a.log.Named("source"))
		rep, err := s.Update(cmd.Context(), candidates)
		if err != nil {
			return err
		}
		for _, r := range rep.Rejected {
			a.log.Info("parcel left out", zap.String("path", r.Path), zap.Error(r.Err))
		}
		return printf(cmd.OutOrStdout(), "%d parcels placed, %d rejected, seed %d\n",
			rep.Placed, len(rep.Rejected), int64(rep.Meta.Seed))
	})
}
