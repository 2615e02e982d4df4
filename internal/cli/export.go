package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as JSON",
		Long:  "Export the full prediction history as a JSON array, newest first.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	b, _ := json.MarshalIndent(sess.history.Records(), "", "  ")
	fmt.Println(string(b))
}
