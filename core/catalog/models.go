package catalog

import "time"

type (
	Article struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		Category  string    `json:"category"` // diplomacy | negotiation | communication | general
		Status    string    `json:"status"`   // published | draft
		Views     int       `json:"views"`
		Author    string    `json:"author"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Certificate struct {
		ID                string    `json:"id"`
		LearnerName       string    `json:"learnerName"`
		CourseTitle       string    `json:"courseTitle"`
		IssuedAt          time.Time `json:"issuedAt"`
		Status            string    `json:"status"` // issued | pending | revoked
		CertificateNumber string    `json:"certificateNumber"`
		DownloadCount     int       `json:"downloadCount"`
		Verified          bool      `json:"verified"`
	}

	GlossaryTerm struct {
		ID                string    `json:"id"`
		TermArabic        string    `json:"termArabic"`
		TermEnglish       string    `json:"termEnglish"`
		DefinitionArabic  string    `json:"definitionArabic"`
		DefinitionEnglish string    `json:"definitionEnglish"`
		Category          string    `json:"category"` // diplomacy | negotiation | communication | protocol | other
		CreatedAt         time.Time `json:"createdAt"`
	}

	LessonRow struct {
		ID             string    `json:"id"`
		Title          string    `json:"title"`
		CourseID       string    `json:"courseId"`
		CourseTitle    string    `json:"courseTitle"`
		LevelTitle     string    `json:"levelTitle"`
		Order          int       `json:"order"`
		Duration       int       `json:"duration"`
		QuestionsCount int       `json:"questionsCount"`
		Status         string    `json:"status"` // active | draft
		CreatedAt      time.Time `json:"createdAt"`
	}

	LevelRow struct {
		ID           string    `json:"id"`
		Title        string    `json:"title"`
		CourseID     string    `json:"courseId"`
		CourseTitle  string    `json:"courseTitle"`
		Order        int       `json:"order"`
		LessonsCount int       `json:"lessonsCount"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	Notification struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Message    string    `json:"message"`
		Type       string    `json:"type"`   // info | success | warning | course | achievement
		Target     string    `json:"target"` // all | specific | course
		SentAt     time.Time `json:"sentAt"`
		ReadCount  int       `json:"readCount"`
		TotalUsers int       `json:"totalUsers"`
	}

	QuestionRow struct {
		ID          string    `json:"id"`
		Text        string    `json:"text"`
		Type        string    `json:"type"`
		LessonTitle string    `json:"lessonTitle"`
		CourseID    string    `json:"courseId"`
		CourseTitle string    `json:"courseTitle"`
		Difficulty  string    `json:"difficulty"`
		Points      int       `json:"points"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	Subscription struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		UserName  string    `json:"userName"`
		Plan      string    `json:"plan"`   // basic | premium | enterprise
		Status    string    `json:"status"` // active | expired | cancelled
		Amount    float64   `json:"amount"`
		StartDate time.Time `json:"startDate"`
		EndDate   time.Time `json:"endDate"`
		AutoRenew bool      `json:"autoRenew"`
	}
)

func (a Article) SearchFields() []string { return []string{a.Title, a.Content} }

func (a Article) FilterValues() map[string]string {
	return map[string]string{"category": a.Category, "status": a.Status}
}

func (a Article) Field(name string) (interface{}, bool) {
	switch name {
	case "title":
		return a.Title, true
	case "views":
		return a.Views, true
	case "createdAt":
		return a.CreatedAt.Format(time.RFC3339), true
	case "updatedAt":
		return a.UpdatedAt.Format(time.RFC3339), true
	}
	return nil, false
}

func (c Certificate) SearchFields() []string {
	return []string{c.LearnerName, c.CourseTitle, c.CertificateNumber}
}

func (c Certificate) FilterValues() map[string]string {
	return map[string]string{"status": c.Status}
}

func (c Certificate) Field(name string) (interface{}, bool) {
	switch name {
	case "learnerName":
		return c.LearnerName, true
	case "issuedAt":
		return c.IssuedAt.Format(time.RFC3339), true
	case "downloadCount":
		return c.DownloadCount, true
	}
	return nil, false
}

func (g GlossaryTerm) SearchFields() []string {
	return []string{g.TermArabic, g.TermEnglish, g.DefinitionArabic, g.DefinitionEnglish}
}

func (g GlossaryTerm) FilterValues() map[string]string {
	return map[string]string{"category": g.Category}
}

func (g GlossaryTerm) Field(name string) (interface{}, bool) {
	switch name {
	case "termArabic":
		return g.TermArabic, true
	case "termEnglish":
		return g.TermEnglish, true
	case "createdAt":
		return g.CreatedAt.Format(time.RFC3339), true
	}
	return nil, false
}

func (l LessonRow) SearchFields() []string { return []string{l.Title, l.CourseTitle, l.LevelTitle} }

func (l LessonRow) FilterValues() map[string]string {
	return map[string]string{"course": l.CourseTitle, "status": l.Status}
}

func (l LessonRow) Field(name string) (interface{}, bool) {
	switch name {
	case "title":
		return l.Title, true
	case "order":
		return l.Order, true
	case "duration":
		return l.Duration, true
	case "createdAt":
		return l.CreatedAt.Format(time.RFC3339), true
	}
	return nil, false
}

func (l LevelRow) SearchFields() []string { return []string{l.Title, l.CourseTitle} }

func (l LevelRow) FilterValues() map[string]string {
	return map[string]string{"course": l.CourseTitle}
}

func (l LevelRow) Field(name string) (interface{}, bool) {
	switch name {
	case "title":
		return l.Title, true
	case "order":
		return l.Order, true
	case "lessonsCount":
		return l.LessonsCount, true
	case "createdAt":
		return l.CreatedAt.Format(time.RFC3339), true
	}
	return nil, false
}

func (n Notification) SearchFields() []string { return []string{n.Title, n.Message} }

func (n Notification) FilterValues() map[string]string {
	return map[string]string{"type": n.Type}
}

func (n Notification) Field(name string) (interface{}, bool) {
	switch name {
	case "title":
		return n.Title, true
	case "sentAt":
		return n.SentAt.Format(time.RFC3339), true
	case "readCount":
		return n.ReadCount, true
	}
	return nil, false
}

// ReadRate is the percentage of targeted users who read the notification.
func (n Notification) ReadRate() int {
	if n.TotalUsers == 0 {
		return 0
	}
	return n.ReadCount * 100 / n.TotalUsers
}

func (qr QuestionRow) SearchFields() []string {
	return []string{qr.Text, qr.LessonTitle, qr.CourseTitle}
}

func (qr QuestionRow) FilterValues() map[string]string {
	return map[string]string{"course": qr.CourseTitle, "type": qr.Type, "difficulty": qr.Difficulty}
}

func (qr QuestionRow) Field(name string) (interface{}, bool) {
	switch name {
	case "text":
		return qr.Text, true
	case "points":
		return qr.Points, true
	case "createdAt":
		return qr.CreatedAt.Format(time.RFC3339), true
	}
	return nil, false
}

func (s Subscription) SearchFields() []string { return []string{s.UserName} }

func (s Subscription) FilterValues() map[string]string {
	return map[string]string{"plan": s.Plan, "status": s.Status}
}

func (s Subscription) Field(name string) (interface{}, bool) {
	switch name {
	case "userName":
		return s.UserName, true
	case "amount":
		return s.Amount, true
	case "startDate":
		return s.StartDate.Format(time.RFC3339), true
	case "endDate":
		return s.EndDate.Format(time.RFC3339), true
	}
	return nil, false
}
