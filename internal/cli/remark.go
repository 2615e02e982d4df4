package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remark [text]",
		Short: "Edit a record's remark",
		Long: "Replace the free-text remark on one history record. Text can be a positional\n" +
			"arg or piped via stdin; empty text clears the remark.",
		Run: runRemark,
	}

	cmd.Flags().String("id", "", "Record identifier (required)")
	cmd.MarkFlagRequired("id")

	RootCmd.AddCommand(cmd)
}

func runRemark(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")

	// Text: positional arg first, then check stdin.
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = strings.TrimSpace(string(b))
		}
	}

	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	found := sess.history.SetRemark(id, text)

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"found":%t}`+"\n", id, found)
}
