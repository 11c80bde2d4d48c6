package booking

// HasConflict reports whether any event in the snapshot blocks the proposed
// range. The snapshot is expected to have been fetched for the proposed
// window, so any surviving event is a collision; no finer overlap check is
// needed. Cancelled events never conflict, and excludeID ignores the event a
// change request is vacating.
func HasConflict(events []ExistingEvent, excludeID string) bool {
	for _, ev := range events {
		if ev.Cancelled() {
			continue
		}
		if excludeID != "" && ev.ID == excludeID {
			continue
		}
		return true
	}
	return false
}
