package models

import "errors"

type PointsTier struct {
	MinCredits      int64   `json:"minCredits"`
	PointsPerCredit float64 `json:"pointsPerCredit"`
}

// PointsConfig holds the two purchase tiers. Threshold1 is the generous one.
type PointsConfig struct {
	Threshold1 PointsTier `json:"threshold1"`
	Threshold2 PointsTier `json:"threshold2"`
}

func DefaultPointsConfig() PointsConfig {
	return PointsConfig{
		Threshold1: PointsTier{MinCredits: 200, PointsPerCredit: 0.1},
		Threshold2: PointsTier{MinCredits: 100, PointsPerCredit: 0.05},
	}
}

func (c PointsConfig) Validate() error {
	t1, t2 := c.Threshold1, c.Threshold2
	if t1.MinCredits < 0 || t2.MinCredits < 0 {
		return errors.New("tier thresholds must not be negative")
	}
	if t1.PointsPerCredit < 0 || t2.PointsPerCredit < 0 {
		return errors.New("tier rates must not be negative")
	}
	if t1.MinCredits < t2.MinCredits {
		return errors.New("threshold1 must not be below threshold2")
	}
	if t1.PointsPerCredit < t2.PointsPerCredit {
		return errors.New("threshold1 rate must not be below threshold2 rate")
	}
	return nil
}
