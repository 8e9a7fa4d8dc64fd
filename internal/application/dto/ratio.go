package dto

import (
	"encoding/json"
	"math"
)

const unboundedRatio = "Infinity"

// Ratio is a coverage ratio that may be +Inf for applicants without debt.
// encoding/json rejects infinities, so the unbounded case travels as the
// string "Infinity".
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return json.Marshal(unboundedRatio)
	}
	return json.Marshal(float64(r))
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == unboundedRatio {
			*r = Ratio(math.Inf(1))
			return nil
		}
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}
