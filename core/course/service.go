package course

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/diplomasi/admin/core"
)

var (
	// errors
	ErrNotFound         = errors.New("course not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrStudentExists    = errors.New("a student with this email is already enrolled")
)

// Aggregate is a course with its editable hierarchy, students and questions.
type Aggregate struct {
	Course    Course // header only
	Tree      *Tree
	Students  []Student
	Questions []Question
}

func NewAggregate(c Course) *Aggregate {
	agg := &Aggregate{
		Course:    c.Header(),
		Tree:      NewTree(c.Levels),
		Students:  append([]Student(nil), c.Students...),
		Questions: append([]Question(nil), c.Questions...),
	}
	return agg
}

// Snapshot returns the full course.
func (agg *Aggregate) Snapshot() Course {
	c := agg.Course
	c.Levels = agg.Tree.Levels()
	c.Students = append(make([]Student, 0, len(agg.Students)), agg.Students...)
	c.Questions = append(make([]Question, 0, len(agg.Questions)), agg.Questions...)
	return c
}

func (agg *Aggregate) Summary() Summary {
	sum := agg.Tree.Summary()
	sum.TotalQuestions = len(agg.Questions)
	return sum
}

// dropQuestions removes the questions attached to the given lessons.
func (agg *Aggregate) dropQuestions(lessonIDs []string) {
	if len(lessonIDs) == 0 {
		return
	}
	removed := make(map[string]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		removed[id] = true
	}
	kept := agg.Questions[:0]
	for _, q := range agg.Questions {
		if !removed[q.LessonID] {
			kept = append(kept, q)
		}
	}
	agg.Questions = kept
}

func (agg *Aggregate) questionIndex(id string) int {
	for i, q := range agg.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (agg *Aggregate) studentIndex(id string) int {
	for i, s := range agg.Students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

type (
	Repository interface {
		CreateCourse(ctx context.Context, agg *Aggregate) (Course, error)
		QueryCourses(ctx context.Context) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		GetCourseSummary(ctx context.Context, id string) (Summary, error)
		// MutateCourse runs fn on the stored aggregate under the write lock and returns
		// the resulting course. fn reports failures before mutating the aggregate.
		MutateCourse(ctx context.Context, id string, fn func(agg *Aggregate) error) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}

	// Stats are the quick stats shown above the courses list.
	Stats struct {
		TotalCourses      int `json:"totalCourses"`
		ActiveCourses     int `json:"activeCourses"`
		TotalLearners     int `json:"totalLearners"`
		AverageCompletion int `json:"averageCompletion"`
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, cd CourseDetails) (Course, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, NewAggregate(Course{
		ID:          NewID("course"),
		Title:       cd.Title,
		Description: cd.Description,
		Status:      cd.Status,
		Category:    cd.Category,
		Duration:    cd.Duration,
		Price:       cd.Price,
		Instructor:  cd.Instructor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

// Query returns the courses matching filter.
// filter.Search does a case-insensitive match on the title or description.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Course, error) {
	courses, err := svc.repo.QueryCourses(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Course, 0, len(courses))
	for _, c := range courses {
		if filter.Search != "" && !(core.ContainsFold(c.Title, filter.Search) || core.ContainsFold(c.Description, filter.Search)) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && c.Status != filter.Status {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	courses, err := svc.repo.QueryCourses(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(courses), nil
}

// ComputeStats aggregates the quick stats of courses; the average completion is rounded.
func ComputeStats(courses []Course) Stats {
	stats := Stats{TotalCourses: len(courses)}
	var completion int
	for _, c := range courses {
		if c.Status == StatusActive {
			stats.ActiveCourses++
		}
		stats.TotalLearners += c.Learners
		completion += c.CompletionRate
	}
	if len(courses) > 0 {
		stats.AverageCompletion = int(math.Round(float64(completion) / float64(len(courses))))
	}
	return stats
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Summary(ctx context.Context, id string) (Summary, error) {
	return svc.repo.GetCourseSummary(ctx, id)
}

func (svc *Service) UpdateDetails(ctx context.Context, id string, cd CourseDetails) (Course, error) {
	return svc.repo.MutateCourse(ctx, id, func(agg *Aggregate) error {
		c := &agg.Course
		c.Title = cd.Title
		c.Description = cd.Description
		c.Status = cd.Status
		c.Category = cd.Category
		c.Duration = cd.Duration
		c.Price = cd.Price
		c.Instructor = cd.Instructor
		c.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// Delete removes the course with its levels, lessons, students and questions.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

// Levels

func (svc *Service) AddLevel(ctx context.Context, courseID string, data LevelData) (Level, error) {
	var lvl Level
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		lvl = agg.Tree.AddLevel(data)
		return nil
	})
	return lvl, err
}

func (svc *Service) GetLevel(ctx context.Context, courseID, levelID string) (Level, error) {
	c, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range c.Levels {
		if lvl.ID == levelID {
			return lvl, nil
		}
	}
	return Level{}, ErrLevelNotFound
}

func (svc *Service) UpdateLevel(ctx context.Context, courseID, levelID string, data LevelData) (Level, error) {
	var lvl Level
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) (err error) {
		lvl, err = agg.Tree.UpdateLevel(levelID, data)
		return err
	})
	return lvl, err
}

func (svc *Service) ToggleLevel(ctx context.Context, courseID, levelID string) (Level, error) {
	var lvl Level
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) (err error) {
		lvl, err = agg.Tree.ToggleLevel(levelID)
		return err
	})
	return lvl, err
}

// DeleteLevel removes the level, its lessons and the questions attached to them.
func (svc *Service) DeleteLevel(ctx context.Context, courseID, levelID string) error {
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		removed, err := agg.Tree.DeleteLevel(levelID)
		if err != nil {
			return err
		}
		agg.dropQuestions(removed)
		return nil
	})
	return err
}

// MoveLevel changes the order of a level and returns the updated levels.
func (svc *Service) MoveLevel(ctx context.Context, courseID, levelID string, order int) ([]Level, error) {
	c, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		return agg.Tree.MoveLevel(levelID, order)
	})
	if err != nil {
		return nil, err
	}
	return c.Levels, nil
}

// MoveLesson changes the order of a lesson within its level and returns the updated levels.
func (svc *Service) MoveLesson(ctx context.Context, courseID, lessonID string, order int) ([]Level, error) {
	c, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		return agg.Tree.MoveLesson(lessonID, order)
	})
	if err != nil {
		return nil, err
	}
	return c.Levels, nil
}

// Lessons

func (svc *Service) AddLesson(ctx context.Context, courseID, levelID string, data LessonData) (Lesson, error) {
	var lsn Lesson
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) (err error) {
		lsn, err = agg.Tree.AddLesson(levelID, data)
		return err
	})
	return lsn, err
}

func (svc *Service) GetLesson(ctx context.Context, courseID, lessonID string) (Lesson, error) {
	c, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Lesson{}, err
	}
	for _, lvl := range c.Levels {
		for _, lsn := range lvl.Lessons {
			if lsn.ID == lessonID {
				return lsn, nil
			}
		}
	}
	return Lesson{}, ErrLessonNotFound
}

// UpdateLesson merges data into the lesson and refreshes the lesson title of its questions.
func (svc *Service) UpdateLesson(ctx context.Context, courseID, lessonID string, data LessonData) (Lesson, error) {
	var lsn Lesson
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) (err error) {
		if lsn, err = agg.Tree.UpdateLesson(lessonID, data); err != nil {
			return err
		}
		for i := range agg.Questions {
			if agg.Questions[i].LessonID == lsn.ID {
				agg.Questions[i].LessonTitle = lsn.Title
			}
		}
		return nil
	})
	return lsn, err
}

func (svc *Service) ToggleLesson(ctx context.Context, courseID, lessonID string) (Lesson, error) {
	var lsn Lesson
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) (err error) {
		lsn, err = agg.Tree.ToggleLesson(lessonID)
		return err
	})
	return lsn, err
}

func (svc *Service) DeleteLesson(ctx context.Context, courseID, lessonID string) error {
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		if err := agg.Tree.DeleteLesson(lessonID); err != nil {
			return err
		}
		agg.dropQuestions([]string{lessonID})
		return nil
	})
	return err
}

// Questions

func (svc *Service) QueryQuestions(ctx context.Context, courseID string) ([]Question, error) {
	c, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return c.Questions, nil
}

func (svc *Service) GetQuestion(ctx context.Context, courseID, questionID string) (Question, error) {
	qs, err := svc.QueryQuestions(ctx, courseID)
	if err != nil {
		return Question{}, err
	}
	for _, q := range qs {
		if q.ID == questionID {
			return q, nil
		}
	}
	return Question{}, ErrQuestionNotFound
}

func lessonRef(agg *Aggregate, lessonID string) (string, error) {
	lsn, err := agg.Tree.Lesson(lessonID)
	if err != nil {
		return "", core.NewFieldValidationError("lessonId", err)
	}
	return lsn.Title, nil
}

func (svc *Service) AddQuestion(ctx context.Context, courseID string, data QuestionData) (Question, error) {
	var q Question
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		title, err := lessonRef(agg, data.LessonID)
		if err != nil {
			return err
		}
		q = Question{
			ID:          NewID("question"),
			Text:        data.Text,
			Type:        data.Type,
			Difficulty:  data.Difficulty,
			Points:      data.Points,
			LessonID:    data.LessonID,
			LessonTitle: title,
		}
		agg.Questions = append(agg.Questions, q)
		return nil
	})
	return q, err
}

func (svc *Service) UpdateQuestion(ctx context.Context, courseID, questionID string, data QuestionData) (Question, error) {
	var q Question
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		i := agg.questionIndex(questionID)
		if i < 0 {
			return ErrQuestionNotFound
		}
		title, err := lessonRef(agg, data.LessonID)
		if err != nil {
			return err
		}
		q = agg.Questions[i]
		q.Text = data.Text
		q.Type = data.Type
		q.Difficulty = data.Difficulty
		q.Points = data.Points
		q.LessonID = data.LessonID
		q.LessonTitle = title
		agg.Questions[i] = q
		return nil
	})
	return q, err
}

func (svc *Service) DeleteQuestion(ctx context.Context, courseID, questionID string) error {
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		i := agg.questionIndex(questionID)
		if i < 0 {
			return ErrQuestionNotFound
		}
		agg.Questions = append(agg.Questions[:i], agg.Questions[i+1:]...)
		return nil
	})
	return err
}

// Students

// QueryStudents returns the enrolled students; search matches the name or email.
func (svc *Service) QueryStudents(ctx context.Context, courseID, search string) ([]Student, error) {
	c, err := svc.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	search = core.CleanString(search)
	if search == "" {
		return c.Students, nil
	}
	students := make([]Student, 0, len(c.Students))
	for _, s := range c.Students {
		if core.ContainsFold(s.Name, search) || core.ContainsFold(s.Email, search) {
			students = append(students, s)
		}
	}
	return students, nil
}

func (svc *Service) GetStudent(ctx context.Context, courseID, studentID string) (Student, error) {
	students, err := svc.QueryStudents(ctx, courseID, "")
	if err != nil {
		return Student{}, err
	}
	for _, s := range students {
		if s.ID == studentID {
			return s, nil
		}
	}
	return Student{}, ErrStudentNotFound
}

func checkStudentEmail(agg *Aggregate, email, excludedID string) error {
	for _, s := range agg.Students {
		if s.Email == email && s.ID != excludedID {
			return core.NewFieldValidationError("email", ErrStudentExists)
		}
	}
	return nil
}

func (svc *Service) AddStudent(ctx context.Context, courseID string, data StudentData) (Student, error) {
	var s Student
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		if err := checkStudentEmail(agg, data.Email, ""); err != nil {
			return err
		}
		s = Student{
			ID:         NewID("student"),
			Name:       data.Name,
			Email:      data.Email,
			Progress:   data.Progress,
			Status:     data.Status,
			EnrolledAt: time.Now().UTC(),
		}
		agg.Students = append(agg.Students, s)
		return nil
	})
	return s, err
}

func (svc *Service) UpdateStudent(ctx context.Context, courseID, studentID string, data StudentData) (Student, error) {
	var s Student
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		i := agg.studentIndex(studentID)
		if i < 0 {
			return ErrStudentNotFound
		}
		if err := checkStudentEmail(agg, data.Email, studentID); err != nil {
			return err
		}
		s = agg.Students[i]
		s.Name = data.Name
		s.Email = data.Email
		s.Progress = data.Progress
		s.Status = data.Status
		agg.Students[i] = s
		return nil
	})
	return s, err
}

func (svc *Service) DeleteStudent(ctx context.Context, courseID, studentID string) error {
	_, err := svc.repo.MutateCourse(ctx, courseID, func(agg *Aggregate) error {
		i := agg.studentIndex(studentID)
		if i < 0 {
			return ErrStudentNotFound
		}
		agg.Students = append(agg.Students[:i], agg.Students[i+1:]...)
		return nil
	})
	return err
}
