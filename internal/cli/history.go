package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
	"github.com/yjs2001/material-synthesis-seer/internal/view"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the prediction history",
		Long:  "Show one page of the prediction history, optionally filtered by material and outcome label.",
		Run:   runHistory,
	}

	cmd.Flags().StringP("material", "m", "", "Filter by material system")
	cmd.Flags().StringP("outcome", "o", "", "Filter by outcome label")
	cmd.Flags().IntP("page", "p", 1, "Page number (1-based, clamped)")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	material, _ := cmd.Flags().GetString("material")
	outcome, _ := cmd.Flags().GetString("outcome")
	pageNum, _ := cmd.Flags().GetInt("page")

	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	pager := view.NewPager(sess.cfg.PageSize)
	pager.SetFilter(view.Filter{Material: model.Material(material), Outcome: outcome})
	pager.Goto(pageNum)

	page := pager.View(sess.history.Records())

	b, _ := json.MarshalIndent(page, "", "  ")
	fmt.Println(string(b))
}
