package cpm

import (
	"math"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// times holds one activity's working values during a computation.
type times struct {
	es, ef, ls, lf float64
	duration       float64
}

// earliestStart is the earliest start of succ allowed by a relationship
// from pred.
func earliestStart(pred, succ *times, typ schedule.RelationType, lag float64) float64 {
	switch typ {
	case schedule.StartToStart:
		return pred.es + lag
	case schedule.FinishToFinish:
		return pred.ef + lag - succ.duration
	case schedule.StartToFinish:
		return pred.es + lag - succ.duration
	default:
		return pred.ef + lag
	}
}

// latestFinish is the latest finish of pred allowed by a relationship to
// succ, using succ's late times.
func latestFinish(pred, succ *times, typ schedule.RelationType, lag float64) float64 {
	switch typ {
	case schedule.StartToStart:
		return succ.ls - lag + pred.duration
	case schedule.FinishToFinish:
		return succ.lf - lag
	case schedule.StartToFinish:
		return succ.lf - lag + pred.duration
	default:
		return succ.ls - lag
	}
}

// slack is how far pred can slip before it moves succ's early times.
func slack(pred, succ *times, typ schedule.RelationType, lag float64) float64 {
	switch typ {
	case schedule.StartToStart:
		return succ.es - lag - pred.es
	case schedule.FinishToFinish:
		return succ.ef - lag - pred.ef
	case schedule.StartToFinish:
		return succ.ef - lag - pred.es
	default:
		return succ.es - lag - pred.ef
	}
}

// driving reports whether the relationship is the binding constraint on
// succ's early times.
func driving(pred, succ *times, typ schedule.RelationType, lag float64) bool {
	switch typ {
	case schedule.StartToStart:
		return math.Abs(succ.es-(pred.es+lag)) < Epsilon
	case schedule.FinishToFinish:
		return math.Abs(succ.ef-(pred.ef+lag)) < Epsilon
	case schedule.StartToFinish:
		return math.Abs(succ.ef-(pred.es+lag)) < Epsilon
	default:
		return math.Abs(succ.es-(pred.ef+lag)) < Epsilon
	}
}

func changed(a, b float64) bool {
	return math.Abs(a-b) > Epsilon
}
