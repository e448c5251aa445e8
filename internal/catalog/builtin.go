// Package catalog provides the term catalogs compiled into the service.
package catalog

import (
	"time"
	_ "time/tzdata"

	"github.com/SAP-F-2025/grade-service/internal/models"
)

const (
	Fall2024Code = "cs-fall-2024"
	Fall2024Name = "Intro to Programming in Java, Fall 2024"
)

// courseZone is where the due times of the built-in catalogs are published.
var courseZone = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func due(month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(2024, month, day, hour, minute, 0, 0, courseZone)
	return &t
}

func item(id, label string, category models.Category, maxScore float64, date string, dueAt *time.Time) models.GradedItem {
	gi := models.GradedItem{
		ID:        id,
		Label:     label,
		Category:  category,
		MaxScore:  maxScore,
		DateLabel: date,
		Due:       dueAt,
	}
	gi.Droppable = category == models.CategoryQuiz && !gi.IsSyllabus()
	return gi
}

// Fall2024Items returns a fresh copy of the Fall 2024 catalog in calendar order.
func Fall2024Items() []models.GradedItem {
	const (
		quiz = models.CategoryQuiz
		pe   = models.CategoryProgrammingExercise
		hw   = models.CategoryHomework
		exam = models.CategoryExam
	)
	aug, sep, oct, nov, dec := time.August, time.September, time.October, time.November, time.December

	return []models.GradedItem{
		item("quiz1", "Quiz 01) Java Introduction", quiz, 5, "Fri, Aug 23, 2024", due(aug, 23, 16, 45)),
		item("pe0", "Programming Exercise 00", pe, 5, "Wed, Aug 28, 2024", due(aug, 28, 20, 0)),
		item("peSyllabus", "Syllabus Quiz", quiz, 25, "Wed, Aug 28, 2024", due(aug, 28, 20, 0)),
		item("quiz2", "Quiz 02) Type Conversion, Expressions, Program Control Flow", quiz, 5, "Thu, Aug 29, 2024", due(aug, 29, 10, 20)),
		item("pe1", "Programming Exercise 01", pe, 100, "Wed, Sep 04, 2024", due(sep, 4, 20, 0)),
		item("quiz3", "Quiz 03) Iteration, Strings", quiz, 5, "Sat, Sep 07, 2024", due(sep, 7, 10, 20)),
		item("pe2", "Programming Exercise 02", pe, 100, "Wed, Sep 11, 2024", due(sep, 11, 20, 0)),
		item("quiz4", "Quiz 04) Math, Random, Static Methods, Scanner, printf", quiz, 5, "Thu, Sep 12, 2024", due(sep, 12, 16, 0)),
		item("quiz5", "Quiz 05) Arrays", quiz, 5, "Sat, Sep 14, 2024", due(sep, 14, 10, 20)),
		item("pe3", "Programming Exercise 03", pe, 100, "Wed, Sep 18, 2024", due(sep, 18, 20, 0)),
		item("exam1", "Exam 01", exam, 100, "Fri, Sep 20, 2024", due(sep, 20, 10, 30)),
		item("quiz6", "Quiz 06) Classes, Instances, Instance vs Static Methods, Visibility Modifiers", quiz, 5, "Tue, Sep 24, 2024", due(sep, 24, 10, 20)),
		item("pe4", "Programming Exercise 04", pe, 100, "Wed, Sep 25, 2024", due(sep, 25, 20, 0)),
		item("quiz7", "Quiz 07) Constructors", quiz, 5, "Thu, Sep 26, 2024", due(sep, 26, 10, 20)),
		item("quiz8", "Quiz 08) Wrapper Classes, Inheritance, Aliasing Revisited", quiz, 5, "Sat, Sep 28, 2024", due(sep, 28, 10, 20)),
		item("quiz9", "Quiz 09) Advanced Inheritance", quiz, 5, "Tue, Oct 1, 2024", due(oct, 1, 10, 20)),
		item("hw1", "Homework 01", hw, 100, "Wed, Oct 2, 2024", due(oct, 2, 20, 0)),
		item("quiz10", "Quiz 10) Object, Abstract Classes", quiz, 5, "Tue, Oct 8, 2024", due(oct, 8, 10, 20)),
		item("hw2", "Homework 02", hw, 100, "Wed, Oct 9, 2024", due(oct, 9, 20, 0)),
		item("quiz11", "Quiz 11) Polymorphism", quiz, 5, "Thu, Oct 10, 2024", due(oct, 10, 10, 20)),
		item("hw3", "Homework 03", hw, 100, "Wed, Oct 16, 2024", due(oct, 16, 20, 0)),
		item("exam2", "Exam 02", exam, 100, "Fri, Oct 18, 2024", due(oct, 18, 10, 30)),
		item("hw4", "Homework 04", hw, 100, "Wed, Oct 23, 2024", due(oct, 23, 20, 0)),
		item("hw5", "Homework 05", hw, 100, "Wed, Oct 30, 2024", due(oct, 30, 20, 0)),
		item("exam3", "Exam 03", exam, 100, "Fri, Nov 01, 2024", due(nov, 1, 10, 30)),
		item("hw6", "Homework 06", hw, 100, "Wed, Nov 06, 2024", due(nov, 6, 20, 0)),
		item("hw7", "Homework 07", hw, 100, "Wed, Nov 13, 2024", due(nov, 13, 20, 0)),
		item("hw8", "Homework 08", hw, 100, "Wed, Nov 20, 2024", due(nov, 20, 20, 0)),
		item("hw9", "Homework 09", hw, 100, "Tue, Dec 03, 2024", due(dec, 3, 20, 0)),
	}
}

// Fall2024 returns the built-in Fall 2024 term.
func Fall2024() *models.Term {
	return &models.Term{
		Code:  Fall2024Code,
		Name:  Fall2024Name,
		Items: Fall2024Items(),
	}
}

// Builtin lists every compiled-in term.
func Builtin() []*models.Term {
	return []*models.Term{Fall2024()}
}
