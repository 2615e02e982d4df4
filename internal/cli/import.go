package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import history records from JSON",
		Long:  "Import records from JSON on stdin (the format produced by export). Records whose id already exists are skipped.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		exitErr("parse json", err)
	}

	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	imported := sess.history.Import(records)

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
