package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeronotes/sharenote/internal/reconciler"
)

var (
	unshareForce bool
	deleteForce  bool
)

var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Publish a note, or update its existing public copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		note, err := env.reconciler.Share(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Public link: %s\n", env.shareURL(note.CloudSlug))
		return nil
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <id>",
	Short: "Delete a note's public copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		note, err := env.reconciler.Unshare(context.Background(), args[0], unshareForce)
		if err != nil {
			if reconciler.IsRemote(err) {
				return fmt.Errorf("%w\nthe public copy was not deleted; re-run with --force to unlink locally anyway", err)
			}
			return err
		}
		fmt.Printf("%s is no longer shared\n", note.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a note (and its public copy, if shared)",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.reconciler.Delete(context.Background(), args[0], deleteForce); err != nil {
			if reconciler.IsRemote(err) {
				return fmt.Errorf("%w\nthe public copy was not deleted; re-run with --force to delete locally anyway", err)
			}
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	unshareCmd.Flags().BoolVar(&unshareForce, "force", false, "unlink locally even if remote deletion fails")
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "delete locally even if remote deletion fails")

	rootCmd.AddCommand(shareCmd, unshareCmd, deleteCmd)
}
