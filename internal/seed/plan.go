// Package seed fills a database with a demo school: one admin, fifteen classes
// each with a teacher, thirty students per class and six months of attendance.
package seed

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
)

const (
	StudentsPerClass = 30
	AttendanceMonths = 6

	AdminEmail      = "admin@school.com"
	AdminPassword   = "admin123"
	TeacherPassword = "teacher123"
)

type ClassDef struct {
	GradeLevel       string
	TeacherFirstName string
	TeacherLastName  string
}

var Classes = []ClassDef{
	{"Play Group", "Aisha", "Rahman"},
	{"Nursery", "Bilal", "Hassan"},
	{"Katchi", "Celine", "Arif"},
	{"KG", "Danish", "Qureshi"},
	{"Prep", "Elena", "Farooq"},
	{"Grade 1", "Fahad", "Iqbal"},
	{"Grade 2", "Ghazal", "Saleem"},
	{"Grade 3", "Hassan", "Javed"},
	{"Grade 4", "Iman", "Sheikh"},
	{"Grade 5", "Jibran", "Aziz"},
	{"Grade 6", "Kiran", "Latif"},
	{"Grade 7", "Laiba", "Sohail"},
	{"Grade 8", "Musa", "Anwar"},
	{"Grade 9", "Nida", "Shah"},
	{"Grade 10", "Omar", "Yousaf"},
}

var firstNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry", "Ivy", "Jack",
	"Kate", "Liam", "Mia", "Noah", "Olivia", "Peter", "Quinn", "Rachel", "Sam", "Tina",
	"Uma", "Victor", "Wendy", "Xavier", "Yara", "Zack", "Amy", "Ben", "Chloe", "Daniel",
	"Emma", "Felix", "Gina", "Hugo", "Iris", "James", "Kelly", "Leo", "Maya", "Nathan",
	"Oscar", "Paula", "Quincy", "Ruby", "Steve", "Tara", "Ulysses", "Vera", "Walter", "Xena",
	"Yale", "Zoe", "Aaron", "Beth", "Carl", "Donna", "Eric", "Fiona", "Gary", "Hannah",
	"Isla", "Jonah", "Keira", "Luca", "Mason", "Nora", "Owen", "Piper", "Reid", "Sienna",
	"Theo", "Umair", "Valerie", "Wyatt", "Ximena", "Yusuf", "Zara", "Aria", "Blake", "Cora",
}

var lastNames = []string{
	"Johnson", "Williams", "Brown", "Davis", "Miller", "Wilson", "Moore", "Taylor", "Anderson", "Thomas",
	"Jackson", "White", "Harris", "Martin", "Thompson", "Garcia", "Martinez", "Robinson", "Clark", "Rodriguez",
	"Lewis", "Lee", "Walker", "Hall", "Allen", "Young", "King", "Wright", "Lopez", "Hill",
	"Scott", "Green", "Adams", "Baker", "Nelson", "Carter", "Mitchell", "Perez", "Roberts", "Turner",
	"Phillips", "Campbell", "Parker", "Evans", "Edwards", "Collins", "Stewart", "Sanchez", "Morris", "Rogers",
	"Reed", "Cook", "Morgan", "Bell", "Murphy", "Bailey", "Rivera", "Cooper", "Richardson", "Cox",
	"Bryant", "Diaz", "Fisher", "Gonzalez", "Harper", "Jenkins", "Khan", "Lawson", "Mehta", "Nguyen",
	"Olsen", "Patel", "Quinn", "Reyes", "Singh", "Tariq", "Usman", "Vasquez", "West", "Yadav",
}

// Weighted pools: students are present 8 in 11 draws, teachers 8 in 10.
var (
	studentPool = []attendance.Status{
		attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
		attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
		attendance.StatusAbsent, attendance.StatusLate, attendance.StatusLeave,
	}
	teacherPool = []attendance.Status{
		attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
		attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
		attendance.StatusAbsent, attendance.StatusLeave,
	}
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// TeacherEmail derives the login of a class's teacher from its grade level.
func TeacherEmail(gradeLevel string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(gradeLevel), "-"), "-")
	if slug == "" {
		slug = "class"
	}
	return slug + "-teacher@school.com"
}

// RollNumber is the zero-padded, one-based roll number of the i-th student.
func RollNumber(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

type StudentSeed struct {
	FirstName  string
	LastName   string
	RollNumber string
}

// Roster returns the students of the class at classIndex.
func Roster(classIndex int) []StudentSeed {
	out := make([]StudentSeed, 0, StudentsPerClass)
	for i := 0; i < StudentsPerClass; i++ {
		global := classIndex*StudentsPerClass + i
		out = append(out, StudentSeed{
			FirstName:  firstNames[global%len(firstNames)],
			LastName:   lastNames[(global*3+i)%len(lastNames)],
			RollNumber: RollNumber(i),
		})
	}
	return out
}

// TeachingDays lists the weekdays from AttendanceMonths before today through today, oldest first.
func TeachingDays(today time.Time) []time.Time {
	end := period.DateOf(today)
	var days []time.Time
	for d := end.AddDate(0, -AttendanceMonths, 0); !d.After(end); d = d.AddDate(0, 0, 1) {
		if period.IsWeekday(d) {
			days = append(days, d)
		}
	}
	return days
}

func pick(rng *rand.Rand, pool []attendance.Status) attendance.Status {
	return pool[rng.IntN(len(pool))]
}
