package domain

// MinShotWait is the number of seconds that must pass after the last shot:
// tolerance times the number of shots already taken.
func MinShotWait(tolerance Tolerance, shotsTaken []int64) int64 {
	return int64(tolerance) * int64(len(shotsTaken))
}

// ShotDue reports whether a shot should be offered at now (seconds since
// session start). With no history a shot is always due.
func ShotDue(tolerance Tolerance, shotsTaken []int64, now int64) bool {
	if len(shotsTaken) == 0 {
		return true
	}

	delta := now - shotsTaken[len(shotsTaken)-1]
	return delta > MinShotWait(tolerance, shotsTaken)
}

// NextShotIn returns how many seconds remain until ShotDue turns true.
func NextShotIn(tolerance Tolerance, shotsTaken []int64, now int64) int64 {
	if ShotDue(tolerance, shotsTaken, now) {
		return 0
	}

	dueAt := shotsTaken[len(shotsTaken)-1] + MinShotWait(tolerance, shotsTaken) + 1
	return dueAt - now
}
