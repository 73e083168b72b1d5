package cli

import (
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all notes",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		notes, err := env.store.ListNotes()
		if err != nil {
			return err
		}

		// Pinned first, then most recently updated
		sort.Slice(notes, func(i, j int) bool {
			if notes[i].Pinned != notes[j].Pinned {
				return notes[i].Pinned
			}
			return notes[i].UpdatedAt > notes[j].UpdatedAt
		})

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Title", "Updated", "Shared", "Pinned"})
		for _, n := range notes {
			shared := ""
			if n.Shared() {
				shared = n.CloudSlug
			}
			pinned := ""
			if n.Pinned {
				pinned = "*"
			}
			t.AppendRow(table.Row{
				n.ID,
				n.Title,
				time.UnixMilli(n.UpdatedAt).Format("2006-01-02 15:04"),
				shared,
				pinned,
			})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
