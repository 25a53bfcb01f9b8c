package scheduler

// CheckConflict returns ErrConflict when a and b share a meeting day and their
// time ranges overlap. Ranges are closed, so an activity ending at 1000 and
// another starting at 1000 on the same day conflict. A range nested inside the
// other also conflicts, which matters for same-hour ranges such as 1030-1015
// that end before they start. Arranged activities never conflict. The result
// does not depend on argument order.
func CheckConflict(a, b Activity) error {
	if a == nil || b == nil {
		return nil
	}
	ma, mb := a.Meeting(), b.Meeting()
	if ma.IsArranged() || mb.IsArranged() {
		return nil
	}
	if !sharesDay(ma, mb) {
		return nil
	}
	if overlaps(ma.Start(), ma.End(), mb.Start(), mb.End()) {
		return ErrConflict
	}
	return nil
}

// Conflicts reports whether CheckConflict would fail.
func Conflicts(a, b Activity) bool {
	return CheckConflict(a, b) != nil
}

func sharesDay(a, b MeetingTime) bool {
	for _, code := range a.Days() {
		if b.HasDay(code) {
			return true
		}
	}
	return false
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return nested(bStart, bEnd, aStart, aEnd) ||
		nested(aStart, aEnd, bStart, bEnd) ||
		(aStart <= bEnd && bStart <= aEnd)
}

// nested reports whether the inner range lies within the outer one.
func nested(innerStart, innerEnd, outerStart, outerEnd int) bool {
	return innerStart >= outerStart && innerEnd <= outerEnd
}
