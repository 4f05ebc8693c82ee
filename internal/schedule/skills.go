package schedule

// Statuses of a student's aggregate skill record.
const (
	SkillAcquired   = "ACQUIRED"
	SkillInProgress = "IN_PROGRESS"
)

// Assessment levels run 0 (not started) to 3 (mastered).
const SkillLevelAcquired = 3

// SkillStatusForLevel maps an assessed level to the aggregate status.
// Level 3 marks the skill acquired; any other level keeps it in
// progress. Repeated assessments overwrite, last write wins.
func SkillStatusForLevel(level int) string {
	if level == SkillLevelAcquired {
		return SkillAcquired
	}
	return SkillInProgress
}
