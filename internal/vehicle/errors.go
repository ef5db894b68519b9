package vehicle

import "errors"

var (
	// ErrInvalidParams wraps every Params.Validate failure.
	ErrInvalidParams = errors.New("vehicle: invalid params")

	// ErrTorqueCurve indicates a torque table that is too short or not strictly increasing in RPM.
	ErrTorqueCurve = errors.New("vehicle: torque curve must have >= 2 points with strictly increasing rpm")
)
