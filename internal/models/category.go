package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Category is the grading bucket an item belongs to. The set is closed.
type Category uint8

const (
	CategoryQuiz Category = iota
	CategoryProgrammingExercise
	CategoryHomework
	CategoryExam
	CategoryFinalExam

	categoryCount
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryQuiz,
	CategoryProgrammingExercise,
	CategoryHomework,
	CategoryExam,
	CategoryFinalExam,
}

// CourseworkCategories are the categories blended into the current grade.
var CourseworkCategories = []Category{
	CategoryQuiz,
	CategoryProgrammingExercise,
	CategoryHomework,
	CategoryExam,
}

var categoryNames = [categoryCount]string{
	CategoryQuiz:                "Quiz",
	CategoryProgrammingExercise: "PE",
	CategoryHomework:            "HW",
	CategoryExam:                "Exam",
	CategoryFinalExam:           "Final Exam",
}

var categoryTitles = [categoryCount]string{
	CategoryQuiz:                "Quizzes",
	CategoryProgrammingExercise: "Programming Exercises",
	CategoryHomework:            "Homework",
	CategoryExam:                "Exams",
	CategoryFinalExam:           "Final Exam",
}

var categoryAliases = map[string]Category{
	"quiz":                  CategoryQuiz,
	"quizzes":               CategoryQuiz,
	"pe":                    CategoryProgrammingExercise,
	"programmingexercise":   CategoryProgrammingExercise,
	"programming exercise":  CategoryProgrammingExercise,
	"programming exercises": CategoryProgrammingExercise,
	"hw":                    CategoryHomework,
	"homework":              CategoryHomework,
	"exam":                  CategoryExam,
	"exams":                 CategoryExam,
	"final exam":            CategoryFinalExam,
	"finalexam":             CategoryFinalExam,
	"final":                 CategoryFinalExam,
}

// ParseCategory accepts the short catalog names ("PE", "HW", "Final Exam")
// and the long names, case-insensitive.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	if c, ok := categoryAliases[strings.ReplaceAll(key, "_", " ")]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func (c Category) Valid() bool {
	return c < categoryCount
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// Title is the human readable section name used in reports.
func (c Category) Title() string {
	if !c.Valid() {
		return c.String()
	}
	return categoryTitles[c]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the category by name.
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return c.String(), nil
}

func (c *Category) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Category", src)
	}
}
