package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateTime)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Prints every known session record.",
	Run: func(cmd *cobra.Command, args []string) {
		_, store, err := openService()
		if err != nil {
			log.Fatal(err)
		}

		records, err := store.All(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Identity", "Platform", "Token", "Cookies", "Signatures",
			"Expired at", "Last checked", "Updated",
		})

		for _, rec := range records {
			token := "-"
			if rec.Token != "" {
				token = "set"
			}
			t.AppendRow(table.Row{
				rec.Identity,
				rec.Platform,
				token,
				len(rec.Cookies),
				len(rec.Signatures),
				formatTime(rec.SessionExpiredAt),
				formatTime(rec.LastCheckedAt),
				formatTime(rec.UpdatedAt),
			})
		}
		t.Render()

		fmt.Printf("%d session(s)\n", len(records))
	},
}
