package navigation

import (
	"fmt"
	"time"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

const (
	DurationPolicyFixed   = "fixed"
	DurationPolicyFormula = "formula"
)

// DurationPolicy decides how long a voyage takes in wall-clock time
type DurationPolicy interface {
	Duration(vesselType shared.VesselType, distance float64) time.Duration
}

// FixedDuration gives every voyage the same length
type FixedDuration struct {
	Length time.Duration
}

func (p FixedDuration) Duration(shared.VesselType, float64) time.Duration {
	return p.Length
}

// FormulaDuration derives voyage length from speed.
//
// distance / speed gives game hours; each game hour lasts HourScale of real
// time. The result is never shorter than Minimum.
type FormulaDuration struct {
	Speeds       map[shared.VesselType]float64
	DefaultSpeed float64
	HourScale    time.Duration
	Minimum      time.Duration
}

func (p FormulaDuration) Duration(vesselType shared.VesselType, distance float64) time.Duration {
	speed := p.DefaultSpeed
	if s, ok := p.Speeds[vesselType]; ok && s > 0 {
		speed = s
	}
	if speed <= 0 {
		return p.Minimum
	}

	hours := distance / speed
	d := time.Duration(hours * float64(p.HourScale))
	if d < p.Minimum {
		return p.Minimum
	}
	return d
}

// DurationSettings is the configuration surface for both policies
type DurationSettings struct {
	Policy       string
	Fixed        time.Duration
	Speeds       map[shared.VesselType]float64
	DefaultSpeed float64
	HourScale    time.Duration
	Minimum      time.Duration
}

// NewDurationPolicy selects the policy named in settings
func NewDurationPolicy(s DurationSettings) (DurationPolicy, error) {
	switch s.Policy {
	case "", DurationPolicyFixed:
		return FixedDuration{Length: s.Fixed}, nil
	case DurationPolicyFormula:
		return FormulaDuration{
			Speeds:       s.Speeds,
			DefaultSpeed: s.DefaultSpeed,
			HourScale:    s.HourScale,
			Minimum:      s.Minimum,
		}, nil
	default:
		return nil, fmt.Errorf("unknown travel duration policy %q", s.Policy)
	}
}
