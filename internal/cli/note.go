package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeronotes/sharenote/internal/session"
)

var (
	newContent  string
	newFile     string
	saveTitle   string
	saveContent string
	saveFile    string
)

func readContent(inline, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read content file: %w", err)
		}
		return string(data), nil
	}
	return inline, nil
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		body, err := readContent(newContent, newFile)
		if err != nil {
			return err
		}

		sess := session.New(env.store, env.reconciler, env.inspector, env.logger, env.sessionConfig())
		defer sess.Close()
		sess.SetTitle(args[0])
		sess.SetContent(body)

		note, err := sess.Save()
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", note.ID)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		note, err := env.store.GetNote(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("# %s\n", note.Title)
		fmt.Printf("updated %s", time.UnixMilli(note.UpdatedAt).Format("2006-01-02 15:04"))
		if note.Shared() {
			fmt.Printf("  public: %s", env.shareURL(note.CloudSlug))
		}
		fmt.Printf("\n\n%s\n", note.Content)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Update a note's title or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		sess, err := session.Open(env.store, env.reconciler, env.inspector, env.logger, env.sessionConfig(), args[0])
		if err != nil {
			return err
		}
		defer sess.Close()

		if saveTitle != "" {
			sess.SetTitle(saveTitle)
		}
		if saveContent != "" || saveFile != "" {
			body, err := readContent(saveContent, saveFile)
			if err != nil {
				return err
			}
			sess.SetContent(body)
		}

		note, err := sess.Save()
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", note.ID)
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle a note's pin (at most 4 notes can be pinned)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		note, err := env.store.TogglePin(args[0])
		if err != nil {
			return err
		}
		if note.Pinned {
			fmt.Printf("Pinned %s\n", note.ID)
		} else {
			fmt.Printf("Unpinned %s\n", note.ID)
		}
		return nil
	},
}

func init() {
	newCmd.Flags().StringVarP(&newContent, "content", "c", "", "note content")
	newCmd.Flags().StringVarP(&newFile, "file", "f", "", "read content from a file")
	saveCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "new title")
	saveCmd.Flags().StringVarP(&saveContent, "content", "c", "", "new content")
	saveCmd.Flags().StringVarP(&saveFile, "file", "f", "", "read content from a file")

	rootCmd.AddCommand(newCmd, showCmd, saveCmd, pinCmd)
}
