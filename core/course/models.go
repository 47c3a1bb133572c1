package course

import (
	"time"

	"github.com/diplomasi/admin/core"
	"github.com/diplomasi/admin/core/form"
)

// Course statuses
const (
	StatusActive   = "active"
	StatusDraft    = "draft"
	StatusArchived = "archived"
)

// Lesson types
const (
	LessonVideo       = "video"
	LessonReading     = "reading"
	LessonInteractive = "interactive"
)

// Question types & difficulties
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionTrueFalse      = "true-false"
	QuestionShortAnswer    = "short-answer"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Student statuses
const (
	StudentActive    = "active"
	StudentCompleted = "completed"
	StudentInactive  = "inactive"
)

type (
	Course struct {
		ID             string     `json:"id"`
		Title          string     `json:"title"`
		Description    string     `json:"description"`
		Status         string     `json:"status"`
		Category       string     `json:"category"`
		Duration       int        `json:"duration"` // hours
		Price          float64    `json:"price"`
		Instructor     string     `json:"instructor"`
		Learners       int        `json:"learners"`
		CompletionRate int        `json:"completionRate"`
		Levels         []Level    `json:"levels"`
		Students       []Student  `json:"students"`
		Questions      []Question `json:"questions"`
		CreatedAt      time.Time  `json:"createdAt"`
		UpdatedAt      time.Time  `json:"updatedAt"`
	}

	Level struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description,omitempty"`
		Order       int      `json:"order"`
		IsActive    bool     `json:"isActive"`
		Lessons     []Lesson `json:"lessons"`
	}

	Lesson struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		Description string     `json:"description,omitempty"`
		Order       int        `json:"order"`
		Duration    int        `json:"duration"` // minutes
		Type        string     `json:"type"`
		VideoURL    string     `json:"videoUrl,omitempty"`
		Content     string     `json:"content,omitempty"`
		Resources   []Resource `json:"resources"`
		IsActive    bool       `json:"isActive"`
	}

	Resource struct {
		ID   string `json:"id"`
		Name string `json:"name" validate:"required"`
		Type string `json:"type" validate:"required,oneof=pdf image video document"`
		URL  string `json:"url" validate:"required,httpurl"`
	}

	Question struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		Type        string `json:"type"`
		Difficulty  string `json:"difficulty"`
		Points      int    `json:"points"`
		LessonID    string `json:"lessonId"`
		LessonTitle string `json:"lessonTitle"`
	}

	Student struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Email      string    `json:"email"`
		Progress   int       `json:"progress"`
		Status     string    `json:"status"`
		EnrolledAt time.Time `json:"enrolledAt"`
	}
)

// Header returns the course without its nested collections.
func (c Course) Header() Course {
	c.Levels = nil
	c.Students = nil
	c.Questions = nil
	return c
}

// Course details form
type CourseDetails struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=10"`
	Category    string  `json:"category" validate:"required,min=1"`
	Status      string  `json:"status" validate:"required,oneof=active draft archived"`
	Duration    int     `json:"duration" validate:"min=1"`
	Price       float64 `json:"price" validate:"min=0"`
	Instructor  string  `json:"instructor" validate:"required,min=2"`
}

var CourseDefaults = form.Values{"status": StatusDraft, "duration": 1, "price": 0}

func (cd *CourseDetails) Clean() {
	cd.Title = core.CleanString(cd.Title)
	cd.Description = core.CleanString(cd.Description)
	cd.Category = core.CleanString(cd.Category)
	cd.Status = core.CleanString(cd.Status, true /* lower */)
	cd.Instructor = core.CleanString(cd.Instructor)
}

// Level form
type LevelData struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"min=1"`
	IsActive    *bool  `json:"isActive"`
}

var LevelDefaults = form.Values{"order": 1, "isActive": true}

func (ld *LevelData) Clean() {
	ld.Title = core.CleanString(ld.Title)
	ld.Description = core.CleanString(ld.Description)
}

// Lesson form
type LessonData struct {
	Title       string     `json:"title" validate:"required,min=3"`
	Description string     `json:"description"`
	Order       int        `json:"order" validate:"min=1"`
	Duration    int        `json:"duration" validate:"min=1"`
	Type        string     `json:"type" validate:"required,oneof=video reading interactive"`
	VideoURL    string     `json:"videoUrl" validate:"omitempty,httpurl"`
	Content     string     `json:"content"`
	Resources   []Resource `json:"resources" validate:"omitempty,dive"`
	IsActive    *bool      `json:"isActive"`
}

var LessonDefaults = form.Values{"order": 1, "duration": 30, "type": LessonVideo, "isActive": true}

func (ld *LessonData) Clean() {
	ld.Title = core.CleanString(ld.Title)
	ld.Description = core.CleanString(ld.Description)
	ld.Type = core.CleanString(ld.Type, true /* lower */)
	ld.VideoURL = core.CleanString(ld.VideoURL)
	for i := range ld.Resources {
		ld.Resources[i].Name = core.CleanString(ld.Resources[i].Name)
		ld.Resources[i].URL = core.CleanString(ld.Resources[i].URL)
	}
}

// Question form
type QuestionData struct {
	Text       string `json:"text" validate:"required,min=5"`
	Type       string `json:"type" validate:"required,oneof=multiple-choice true-false short-answer"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Points     int    `json:"points" validate:"min=1"`
	LessonID   string `json:"lessonId" validate:"required"`
}

var QuestionDefaults = form.Values{"type": QuestionMultipleChoice, "difficulty": DifficultyMedium, "points": 10}

func (qd *QuestionData) Clean() {
	qd.Text = core.CleanString(qd.Text)
	qd.LessonID = core.CleanString(qd.LessonID)
}

// Student form
type StudentData struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Progress int    `json:"progress" validate:"min=0,max=100"`
	Status   string `json:"status" validate:"required,oneof=active completed inactive"`
}

var StudentDefaults = form.Values{"progress": 0, "status": StudentActive}

func (sd *StudentData) Clean() {
	sd.Name = core.CleanString(sd.Name)
	sd.Email = core.CleanString(sd.Email, true /* lower */)
}

// QueryFilter filters the courses list.
type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
