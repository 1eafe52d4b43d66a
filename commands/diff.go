package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/graphsync/sync"
)

func newDiffCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Report what a sync would change, without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.config.Validate(); err != nil {
				return err
			}
			store, err := newStoreClient(opts)
			if err != nil {
				return err
			}

			corpus, err := sync.ScanCorpus(opts.config.Corpus.DataDir)
			if err != nil {
				return err
			}
			remote, err := sync.NewRemoteReader(store).Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			toAdd, toDelete := sync.DiffURISets(corpus.URIs(), remote.Datasets)
			modified, err := sync.DetectModified(cmd.Context(), store, corpus)
			if err != nil {
				return err
			}
			fmt.Print(sync.NewReport(toAdd, toDelete, modified).String())
			return nil
		},
	}
}
