package config

const (
	// MaxFileNameLength is the maximum length for file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFileNameLength = 255

	// MaxCourseTitleLength is the maximum length for course titles.
	// Same bound as file names for consistency.
	MaxCourseTitleLength = 255

	// MaxDisplayNameLength is the maximum length for user display names.
	MaxDisplayNameLength = 100

	// MaxDescriptionLength bounds file and course descriptions.
	MaxDescriptionLength = 5000

	// MaxTagCount bounds the number of tags on a file or course.
	MaxTagCount = 20
)
