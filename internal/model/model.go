// Package model defines the prediction domain types.
package model

import "time"

// Material identifies one of the four supported 2D material systems.
type Material string

const (
	MaterialMoS2  Material = "mos2"
	MaterialWS2   Material = "ws2"
	MaterialWSe2  Material = "wse2"
	MaterialMoTe2 Material = "mote2"
)

// Materials lists the supported systems in display order.
var Materials = []Material{MaterialMoS2, MaterialWS2, MaterialWSe2, MaterialMoTe2}

// Valid reports whether m is one of the supported material systems.
func (m Material) Valid() bool {
	for _, known := range Materials {
		if m == known {
			return true
		}
	}
	return false
}

// Enum values for the categorical synthesis parameters.
const (
	SubstrateSiO2     = "sio2"
	SubstrateSapphire = "sapphire"

	PressureAtmospheric = "atmospheric"
	PressureLow         = "low"

	PositionTop  = "top"
	PositionSide = "side"

	SaltYes = "yes"
	SaltNo  = "no"
)

// Params holds one submission's synthesis parameters. The JSON tags match
// the scoring service's request body.
type Params struct {
	Substrate           string  `json:"substrate"`
	MetalChalcogenRatio float64 `json:"metal_chalcogen_ratio"`
	H2ArRatio           float64 `json:"h2_ar_ratio"`
	Pressure            string  `json:"pressure"`
	MetalTemp           int     `json:"metal_temp"`
	ChalcogenTemp       int     `json:"chalcogen_temp"`
	Position            string  `json:"position"`
	ReactionTime        int     `json:"reaction_time"`
	SaltAdditive        string  `json:"salt_additive"`
}

// Canonical outcome labels.
const (
	OutcomeExcellent = "excellent"
	OutcomeQualified = "qualified"
	OutcomeNoYield   = "no-yield"
)

// CanonicalOutcomes lists the labels the scoring service is expected to return.
var CanonicalOutcomes = []string{OutcomeExcellent, OutcomeQualified, OutcomeNoYield}

// Outcome is the categorical synthesis-quality result. Labels returned by
// the scoring service are kept verbatim; Known marks membership in the
// canonical set so that unrecognized labels can be rendered and filtered
// without being rejected.
type Outcome struct {
	Label string `json:"label"`
	Known bool   `json:"known"`
}

// OutcomeFromLabel classifies a raw label against the canonical set.
func OutcomeFromLabel(label string) Outcome {
	for _, known := range CanonicalOutcomes {
		if label == known {
			return Outcome{Label: label, Known: true}
		}
	}
	return Outcome{Label: label, Known: false}
}

// Record is one past prediction. Everything except Remark is fixed at
// creation; the history store enforces that only Remark is edited.
type Record struct {
	ID        string    `json:"id"`
	Material  Material  `json:"material"`
	Params    Params    `json:"params"`
	Outcome   Outcome   `json:"prediction"`
	CreatedAt time.Time `json:"created_at"`
	Remark    string    `json:"remark,omitempty"`
}
