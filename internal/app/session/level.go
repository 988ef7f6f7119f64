package session

// Level labels derived from karma.
const (
	LevelNewbie  = "Newbie"
	LevelStudent = "Student"
	LevelTutor   = "Tutor"
	LevelExpert  = "Expert"
	LevelMaster  = "Master"
)

// LevelForKarma maps a karma score to its level label. Thresholds are fixed:
// 0-49 Newbie, 50-149 Student, 150-299 Tutor, 300-499 Expert, 500+ Master.
func LevelForKarma(karma int) string {
	switch {
	case karma < 50:
		return LevelNewbie
	case karma < 150:
		return LevelStudent
	case karma < 300:
		return LevelTutor
	case karma < 500:
		return LevelExpert
	default:
		return LevelMaster
	}
}
