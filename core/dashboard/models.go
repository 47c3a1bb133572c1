package dashboard

type (
	// Stat is a headline card.
	Stat struct {
		Key         string `json:"key"`
		Title       string `json:"title"`
		Value       string `json:"value"`
		Change      string `json:"change"`
		ChangeType  string `json:"changeType"` // positive | negative
		Description string `json:"description"`
	}

	FeaturedCourse struct {
		Title          string  `json:"title"`
		Description    string  `json:"description"`
		Rating         float64 `json:"rating"`
		Learners       int     `json:"learners"`
		Category       string  `json:"category"`
		CompletionRate string  `json:"completionRate"`
		EngagementRate string  `json:"engagementRate"`
		NewEnrollments string  `json:"newEnrollments"`
	}

	CourseProgress struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Icon        string `json:"icon"`
		Progress    int    `json:"progress"`
		Description string `json:"description"`
	}

	PathCourse struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Hours       int     `json:"hours"`
		Students    int     `json:"students"`
		Rating      float64 `json:"rating"`
		Description string  `json:"description"`
	}

	MonthlyPoints struct {
		Month  string  `json:"month"`
		Points float64 `json:"points"`
	}

	Overview struct {
		Stats             []Stat           `json:"stats"`
		FeaturedCourse    FeaturedCourse   `json:"featuredCourse"`
		CoursesInProgress []CourseProgress `json:"coursesInProgress"`
		LearningPath      []PathCourse     `json:"learningPath"`
		LearningPoints    []MonthlyPoints  `json:"learningPoints"`
	}

	MonthlyStats struct {
		Month   string `json:"month"`
		Users   int    `json:"users"`
		Courses int    `json:"courses"`
		Revenue int    `json:"revenue"`
	}

	CourseCompletion struct {
		Name        string `json:"name"`
		Completions int    `json:"completions"`
		Rate        int    `json:"rate"`
	}

	PlanShare struct {
		Name  string `json:"name"`
		Plan  string `json:"plan"`
		Value int    `json:"value"` // percent
	}

	Report struct {
		Summary           []Stat             `json:"summary"`
		Monthly           []MonthlyStats     `json:"monthly"`
		CourseCompletions []CourseCompletion `json:"courseCompletions"`
		PlanDistribution  []PlanShare        `json:"planDistribution"`
	}
)

// TotalRevenue sums the monthly revenues of the report.
func (r Report) TotalRevenue() int {
	var total int
	for _, m := range r.Monthly {
		total += m.Revenue
	}
	return total
}
