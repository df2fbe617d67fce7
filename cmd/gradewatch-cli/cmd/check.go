package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [identity...]",
	Short: "Runs a check cycle immediately, for every session or just the identities given.",
	Run: func(cmd *cobra.Command, args []string) {
		service, store, err := openService()
		if err != nil {
			log.Fatal(err)
		}

		if len(args) == 0 {
			err := service.CheckAllSessions(cmd.Context())
			if err != nil {
				log.Fatal(err)
			}
			return
		}

		for _, identity := range args {
			rec, err := store.Get(cmd.Context(), identity)
			if err != nil {
				log.Fatal(fmt.Errorf("load session %q: %w", identity, err))
			}
			err = service.CheckSession(cmd.Context(), rec)
			if err != nil {
				fmt.Printf("check %s: %s\n", identity, err)
			}
		}
	},
}
