package ingest

// dedupeSet tracks the composite keys seen so far within one upload. It is a
// locally-owned value created fresh per batch, never shared across requests.
type dedupeSet map[string]struct{}

// seen reports whether the candidate collides with an earlier row in the same
// batch, recording its key otherwise. The key intentionally excludes the
// product name and unnormalized phone formatting.
func (s dedupeSet) seen(c ShipmentCandidate) bool {
	k := c.TrackingNumber + "#" + c.RecipientName + "#" + c.PhoneLast4
	if _, ok := s[k]; ok {
		return true
	}
	s[k] = struct{}{}
	return false
}
