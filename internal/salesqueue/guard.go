package salesqueue

// WouldExceed reports whether a candidate total quantity breaches the
// displayed available stock. Reaching exactly the available quantity already
// counts as exceeded in the pre-add check.
func WouldExceed(available, candidateTotal int64) bool {
	return candidateTotal >= available
}
