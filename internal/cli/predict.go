package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
	"github.com/yjs2001/material-synthesis-seer/internal/notify"
	"github.com/yjs2001/material-synthesis-seer/internal/predict"
	"github.com/yjs2001/material-synthesis-seer/internal/validate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a synthesis outcome prediction",
		Long: "Submit synthesis parameters for one material system to the scoring service\n" +
			"and append the outcome to the local history.",
		Run: runPredict,
	}

	cmd.Flags().StringP("material", "m", "", "Material system: mos2, ws2, wse2, mote2 (required)")
	cmd.Flags().String("substrate", "", "Substrate: sio2 or sapphire")
	cmd.Flags().Float64("ratio", 0, "Metal/chalcogen molar ratio")
	cmd.Flags().Float64("h2ar", 0, "H2/Ar flow ratio")
	cmd.Flags().String("pressure", "", "Pressure regime: atmospheric or low")
	cmd.Flags().Int("metal-temp", 0, "Metal source temperature (°C)")
	cmd.Flags().Int("chalcogen-temp", 0, "Chalcogen source temperature (°C)")
	cmd.Flags().String("position", "", "Substrate position: top or side")
	cmd.Flags().Int("time", 0, "Reaction time (minutes)")
	cmd.Flags().String("salt", "", "Salt additive: yes or no")

	cmd.MarkFlagRequired("material")

	RootCmd.AddCommand(cmd)
}

func runPredict(cmd *cobra.Command, args []string) {
	material, _ := cmd.Flags().GetString("material")
	substrate, _ := cmd.Flags().GetString("substrate")
	ratio, _ := cmd.Flags().GetFloat64("ratio")
	h2ar, _ := cmd.Flags().GetFloat64("h2ar")
	pressure, _ := cmd.Flags().GetString("pressure")
	metalTemp, _ := cmd.Flags().GetInt("metal-temp")
	chalcogenTemp, _ := cmd.Flags().GetInt("chalcogen-temp")
	position, _ := cmd.Flags().GetString("position")
	reactionTime, _ := cmd.Flags().GetInt("time")
	salt, _ := cmd.Flags().GetString("salt")

	params := model.Params{
		Substrate:           substrate,
		MetalChalcogenRatio: ratio,
		H2ArRatio:           h2ar,
		Pressure:            pressure,
		MetalTemp:           metalTemp,
		ChalcogenTemp:       chalcogenTemp,
		Position:            position,
		ReactionTime:        reactionTime,
		SaltAdditive:        salt,
	}

	sess, err := openSession()
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	client := predict.NewClient(sess.cfg.Endpoint, sess.cfg.Codes())
	orch := predict.NewOrchestrator(
		client,
		sess.history,
		notify.NewStderr(),
		predict.FailurePolicy(sess.cfg.OnTransportFailure),
		sess.logger,
	)

	rec, err := orch.Predict(cmd.Context(), model.Material(material), params)
	if err != nil {
		var ferr *validate.FieldError
		if errors.As(err, &ferr) {
			// The notifier already carried the field message.
			os.Exit(1)
		}
		exitErr("predict", err)
	}

	b, _ := json.Marshal(rec)
	fmt.Println(string(b))
}
