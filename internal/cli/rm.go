package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yjs2001/material-synthesis-seer/internal/notify"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a history record",
		Run:   runRm,
	}

	cmd.Flags().String("id", "", "Record identifier (required)")
	cmd.MarkFlagRequired("id")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")

	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	found := sess.history.Delete(id)
	if found {
		notify.NewStderr().Notify("Record deleted", id, notify.SeverityDestructive)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"found":%t}`+"\n", id, found)
}
