package entities

// LessonEmailData feeds the notification templates.
type LessonEmailData struct {
	StudentName        string
	LessonCode         string
	InstructorName     string
	Location           string
	StartTimeFormatted string
	EndTimeFormatted   string
	Status             string
}
