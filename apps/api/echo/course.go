package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core/course"
)

// orderData is the payload of the drag & drop reordering of a level or lesson.
type orderData struct {
	Order int `json:"order" validate:"min=1"`
}

type courseApi struct {
	*Server
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, s *Server) {
	api := courseApi{Server: s, svc: s.CourseSvc}

	g.GET("", api.query)
	g.POST("", api.create)
	g.GET("/stats", api.stats)

	dg := g.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/summary", api.summary)

	// levels
	dg.POST("/levels", api.addLevel)
	dg.GET("/levels/:levelId", api.retrieveLevel)
	dg.PUT("/levels/:levelId", api.updateLevel)
	dg.DELETE("/levels/:levelId", api.destroyLevel)
	dg.PATCH("/levels/:levelId/toggle", api.toggleLevel)
	dg.PATCH("/levels/:levelId/order", api.moveLevel)
	dg.POST("/levels/:levelId/lessons", api.addLesson)

	// lessons
	dg.GET("/lessons/:lessonId", api.retrieveLesson)
	dg.PUT("/lessons/:lessonId", api.updateLesson)
	dg.DELETE("/lessons/:lessonId", api.destroyLesson)
	dg.PATCH("/lessons/:lessonId/toggle", api.toggleLesson)
	dg.PATCH("/lessons/:lessonId/order", api.moveLesson)

	// questions
	dg.GET("/questions", api.queryQuestions)
	dg.POST("/questions", api.addQuestion)
	dg.GET("/questions/:questionId", api.retrieveQuestion)
	dg.PUT("/questions/:questionId", api.updateQuestion)
	dg.DELETE("/questions/:questionId", api.destroyQuestion)

	// students
	dg.GET("/students", api.queryStudents)
	dg.POST("/students", api.addStudent)
	dg.GET("/students/:studentId", api.retrieveStudent)
	dg.PUT("/students/:studentId", api.updateStudent)
	dg.DELETE("/students/:studentId", api.destroyStudent)
}

// Courses

func (api courseApi) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}
	filter.Clean()

	courses, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api courseApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing course stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api courseApi) create(ctx echo.Context) error {
	var data course.CourseDetails
	if err := api.submitForm(ctx, course.CourseDefaults, nil, &data); err != nil {
		return err
	}
	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api courseApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	c, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	var data course.CourseDetails
	if err = api.submitForm(ctx, course.CourseDefaults, c.Header(), &data); err != nil {
		return err
	}
	if c, err = api.svc.UpdateDetails(reqCtx, c.ID, data); err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api courseApi) summary(ctx echo.Context) error {
	sum, err := api.svc.Summary(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "summarizing course")
	}
	return ctx.JSON(http.StatusOK, sum)
}

// move applies a reordering of a level or lesson and returns the re-sorted levels.
type moveFunc func(ctx context.Context, courseID, nodeID string, order int) ([]course.Level, error)

func (api courseApi) move(ctx echo.Context, nodeID string, move moveFunc) error {
	var data orderData
	if err := api.submitForm(ctx, nil, nil, &data); err != nil {
		return err
	}
	levels, err := move(ctx.Request().Context(), ctx.Param("id"), nodeID, data.Order)
	if err != nil {
		return errors.Wrap(err, "moving node")
	}
	return ctx.JSON(http.StatusOK, levels)
}

// Levels

func (api courseApi) addLevel(ctx echo.Context) error {
	var data course.LevelData
	if err := api.submitForm(ctx, course.LevelDefaults, nil, &data); err != nil {
		return err
	}
	lvl, err := api.svc.AddLevel(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding level")
	}
	return ctx.JSON(http.StatusCreated, lvl)
}

func (api courseApi) retrieveLevel(ctx echo.Context) error {
	lvl, err := api.svc.GetLevel(ctx.Request().Context(), ctx.Param("id"), ctx.Param("levelId"))
	if err != nil {
		return errors.Wrap(err, "finding level by ID")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api courseApi) updateLevel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	courseID := ctx.Param("id")
	lvl, err := api.svc.GetLevel(reqCtx, courseID, ctx.Param("levelId"))
	if err != nil {
		return errors.Wrap(err, "finding level by ID")
	}
	var data course.LevelData
	if err = api.submitForm(ctx, course.LevelDefaults, lvl, &data); err != nil {
		return err
	}
	if lvl, err = api.svc.UpdateLevel(reqCtx, courseID, lvl.ID, data); err != nil {
		return errors.Wrap(err, "updating level")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api courseApi) toggleLevel(ctx echo.Context) error {
	lvl, err := api.svc.ToggleLevel(ctx.Request().Context(), ctx.Param("id"), ctx.Param("levelId"))
	if err != nil {
		return errors.Wrap(err, "toggling level")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api courseApi) moveLevel(ctx echo.Context) error {
	return api.move(ctx, ctx.Param("levelId"), api.svc.MoveLevel)
}

func (api courseApi) destroyLevel(ctx echo.Context) error {
	if err := api.svc.DeleteLevel(ctx.Request().Context(), ctx.Param("id"), ctx.Param("levelId")); err != nil {
		return errors.Wrap(err, "deleting level")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Lessons

func (api courseApi) addLesson(ctx echo.Context) error {
	var data course.LessonData
	if err := api.submitForm(ctx, course.LessonDefaults, nil, &data); err != nil {
		return err
	}
	lsn, err := api.svc.AddLesson(ctx.Request().Context(), ctx.Param("id"), ctx.Param("levelId"), data)
	if err != nil {
		return errors.Wrap(err, "adding lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api courseApi) retrieveLesson(ctx echo.Context) error {
	lsn, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"), ctx.Param("lessonId"))
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api courseApi) updateLesson(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	courseID := ctx.Param("id")
	lsn, err := api.svc.GetLesson(reqCtx, courseID, ctx.Param("lessonId"))
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}
	var data course.LessonData
	if err = api.submitForm(ctx, course.LessonDefaults, lsn, &data); err != nil {
		return err
	}
	if lsn, err = api.svc.UpdateLesson(reqCtx, courseID, lsn.ID, data); err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api courseApi) toggleLesson(ctx echo.Context) error {
	lsn, err := api.svc.ToggleLesson(ctx.Request().Context(), ctx.Param("id"), ctx.Param("lessonId"))
	if err != nil {
		return errors.Wrap(err, "toggling lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api courseApi) moveLesson(ctx echo.Context) error {
	return api.move(ctx, ctx.Param("lessonId"), api.svc.MoveLesson)
}

func (api courseApi) destroyLesson(ctx echo.Context) error {
	if err := api.svc.DeleteLesson(ctx.Request().Context(), ctx.Param("id"), ctx.Param("lessonId")); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Questions

func (api courseApi) queryQuestions(ctx echo.Context) error {
	questions, err := api.svc.QueryQuestions(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api courseApi) addQuestion(ctx echo.Context) error {
	var data course.QuestionData
	if err := api.submitForm(ctx, course.QuestionDefaults, nil, &data); err != nil {
		return err
	}
	q, err := api.svc.AddQuestion(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api courseApi) retrieveQuestion(ctx echo.Context) error {
	q, err := api.svc.GetQuestion(ctx.Request().Context(), ctx.Param("id"), ctx.Param("questionId"))
	if err != nil {
		return errors.Wrap(err, "finding question by ID")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api courseApi) updateQuestion(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	courseID := ctx.Param("id")
	q, err := api.svc.GetQuestion(reqCtx, courseID, ctx.Param("questionId"))
	if err != nil {
		return errors.Wrap(err, "finding question by ID")
	}
	var data course.QuestionData
	if err = api.submitForm(ctx, course.QuestionDefaults, q, &data); err != nil {
		return err
	}
	if q, err = api.svc.UpdateQuestion(reqCtx, courseID, q.ID, data); err != nil {
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api courseApi) destroyQuestion(ctx echo.Context) error {
	if err := api.svc.DeleteQuestion(ctx.Request().Context(), ctx.Param("id"), ctx.Param("questionId")); err != nil {
		return errors.Wrap(err, "deleting question")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api courseApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam(searchParam))
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api courseApi) addStudent(ctx echo.Context) error {
	var data course.StudentData
	if err := api.submitForm(ctx, course.StudentDefaults, nil, &data); err != nil {
		return err
	}
	st, err := api.svc.AddStudent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api courseApi) retrieveStudent(ctx echo.Context) error {
	st, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api courseApi) updateStudent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	courseID := ctx.Param("id")
	st, err := api.svc.GetStudent(reqCtx, courseID, ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	var data course.StudentData
	if err = api.submitForm(ctx, course.StudentDefaults, st, &data); err != nil {
		return err
	}
	if st, err = api.svc.UpdateStudent(reqCtx, courseID, st.ID, data); err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api courseApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentId")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
