// Package vessel models fishery-registered vessels and the taxonomy used
// to bucket them for matrix aggregation.
package vessel

import "fmt"

type Id int64

// Mmsi is the 32-bit AIS identity; many vessels, especially small
// coastal boats reporting only via landings, have none.
type Mmsi int32

// LengthGroup buckets a vessel by hull length for matrix aggregation.
type LengthGroup int

const (
	LengthUnknown LengthGroup = iota
	LengthUnder11
	Length11To15
	Length15To21
	Length21To28
	Length28AndAbove
)

func (g LengthGroup) String() string {
	switch g {
	case LengthUnder11:
		return "<11"
	case Length11To15:
		return "11-14.99"
	case Length15To21:
		return "15-20.99"
	case Length21To28:
		return "21-27.99"
	case Length28AndAbove:
		return ">=28"
	default:
		return "unknown"
	}
}

// LengthGroupFromMeters buckets a hull length into its LengthGroup.
func LengthGroupFromMeters(length float64) LengthGroup {
	switch {
	case length <= 0:
		return LengthUnknown
	case length < 11:
		return LengthUnder11
	case length < 15:
		return Length11To15
	case length < 21:
		return Length15To21
	case length < 28:
		return Length21To28
	default:
		return Length28AndAbove
	}
}

// ScrewType selects which wake/thrust-deduction branch the Holtrop fuel
// model uses for a vessel's propulsion arrangement.
type ScrewType int

const (
	ScrewUnknown ScrewType = iota
	ScrewTwin
	ScrewSingleOpenStern
	ScrewSingleConventionalStern
)

// HullParameters are the Holtrop resistance-model inputs specific to one
// vessel's hull and propulsion.
type HullParameters struct {
	LengthWaterline        float64
	Beam                   float64
	Draught                float64
	BlockCoefficient       float64
	PrismaticCoefficient   float64
	MidshipSectionCoeff    float64
	SternParameter         float64
	PropellerDiameter      float64
	PropellerEfficiency    float64
	ShaftEfficiency        float64
	ScrewType              ScrewType
	SpecificFuelConsumption float64 // grams/kWh
}

// Vessel is a fishery-registered vessel. A vessel is "unlocatable" (no
// call sign and no MMSI) when neither identity field is set; such
// vessels may still have landings but never tracks.
type Vessel struct {
	Id          Id
	Mmsi        *Mmsi
	CallSign    *string
	Length      float64
	LengthGroup LengthGroup
	Hull        *HullParameters
}

// Unlocatable reports whether the vessel can be matched to an AIS/VMS
// stream at all.
func (v Vessel) Unlocatable() bool {
	return v.Mmsi == nil && v.CallSign == nil
}

func (v Vessel) String() string {
	return fmt.Sprintf("vessel(%d)", v.Id)
}
