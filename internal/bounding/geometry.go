package bounding

// geometricCorrection returns the dimension-dependent factor G used by the
// value-Lipschitz margin. G bounds the extra slack needed because the
// candidate's gradient direction need not align with the worst-case
// displacement inside an anisotropic cell.
//
// Only the one-dimensional case has a derived value (G = 1). Requesting the
// factor for a higher-dimensional region is an explicit unimplemented-case
// failure rather than a silent approximation.
func geometricCorrection(region Region) (float64, error) {
	const op = "geometricCorrection"
	if region.Dim() != 1 {
		return 0, NewError("geometric correction factor for dim > 1 is not implemented").
			WithOperation(op).WithComponent("bounding")
	}
	return 1, nil
}
