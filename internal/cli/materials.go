package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
	"github.com/yjs2001/material-synthesis-seer/internal/predict"
)

func init() {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List material systems and their scoring codes",
		Run:   runMaterials,
	}

	RootCmd.AddCommand(cmd)
}

func runMaterials(cmd *cobra.Command, args []string) {
	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	codes := sess.cfg.Codes()
	for _, material := range model.Materials {
		code, ok := codes[material]
		if !ok {
			code = predict.DefaultMaterialCodes[material]
		}
		fmt.Printf("%s\t-> %s\n", material, code)
	}
}
