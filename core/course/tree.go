package course

import (
	"github.com/google/uuid"
)

// NewID generates entity identifiers such as "level-<uuid>".
var NewID = func(prefix string) string { // mockable
	return prefix + "-" + uuid.New().String()
}

type node struct {
	id       string
	parent   *node
	children []*node
	level    *Level  // level nodes
	lesson   *Lesson // lesson nodes
}

func (n *node) order() int {
	switch {
	case n.level != nil:
		return n.level.Order
	case n.lesson != nil:
		return n.lesson.Order
	}
	return 0
}

func (n *node) setOrder(order int) {
	switch {
	case n.level != nil:
		n.level.Order = order
	case n.lesson != nil:
		n.lesson.Order = order
	}
}

// insertSorted inserts child after every sibling whose order is <= child's order,
// which keeps the children sorted ascending and ties in insertion order.
func (n *node) insertSorted(child *node) {
	i := len(n.children)
	for j, c := range n.children {
		if c.order() > child.order() {
			i = j
			break
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
}

func (n *node) detach(child *node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Tree is the Level -> Lesson hierarchy of a course, indexed by id.
// A Tree is not safe for concurrent use; repositories guard it.
type Tree struct {
	root  *node
	index map[string]*node
}

// NewTree builds a Tree from a levels snapshot. Levels and lessons are sorted by order.
func NewTree(levels []Level) *Tree {
	t := &Tree{root: &node{}, index: make(map[string]*node)}
	for _, lvl := range levels {
		lvl := lvl
		lessons := lvl.Lessons
		lvl.Lessons = nil
		if lvl.ID == "" {
			lvl.ID = NewID("level")
		}
		lvlNode := t.attach(t.root, &node{id: lvl.ID, level: &lvl})
		for _, lsn := range lessons {
			lsn := lsn
			if lsn.ID == "" {
				lsn.ID = NewID("lesson")
			}
			lsn.Resources = copyResources(lsn.Resources)
			t.attach(lvlNode, &node{id: lsn.ID, lesson: &lsn})
		}
	}
	return t
}

func (t *Tree) attach(parent, child *node) *node {
	parent.insertSorted(child)
	t.index[child.id] = child
	return child
}

func (t *Tree) levelNode(id string) (*node, error) {
	if n, ok := t.index[id]; ok && n.level != nil {
		return n, nil
	}
	return nil, ErrLevelNotFound
}

func (t *Tree) lessonNode(id string) (*node, error) {
	if n, ok := t.index[id]; ok && n.lesson != nil {
		return n, nil
	}
	return nil, ErrLessonNotFound
}

func (t *Tree) levelSnapshot(n *node) Level {
	lvl := *n.level
	lvl.Lessons = make([]Lesson, 0, len(n.children))
	for _, c := range n.children {
		lvl.Lessons = append(lvl.Lessons, lessonSnapshot(c))
	}
	return lvl
}

func lessonSnapshot(n *node) Lesson {
	lsn := *n.lesson
	lsn.Resources = copyResources(lsn.Resources)
	return lsn
}

func copyResources(res []Resource) []Resource {
	cp := make([]Resource, len(res))
	copy(cp, res)
	return cp
}

// Levels returns the ordered levels with their ordered lessons.
func (t *Tree) Levels() []Level {
	levels := make([]Level, 0, len(t.root.children))
	for _, n := range t.root.children {
		levels = append(levels, t.levelSnapshot(n))
	}
	return levels
}

func (t *Tree) Level(id string) (Level, error) {
	n, err := t.levelNode(id)
	if err != nil {
		return Level{}, err
	}
	return t.levelSnapshot(n), nil
}

func (t *Tree) Lesson(id string) (Lesson, error) {
	n, err := t.lessonNode(id)
	if err != nil {
		return Lesson{}, err
	}
	return lessonSnapshot(n), nil
}

// ParentOf returns the level holding the given lesson.
func (t *Tree) ParentOf(lessonID string) (Level, error) {
	n, err := t.lessonNode(lessonID)
	if err != nil {
		return Level{}, err
	}
	return t.levelSnapshot(n.parent), nil
}

// Len returns the number of nodes (levels and lessons) in the tree.
func (t *Tree) Len() int {
	return len(t.index)
}

func (t *Tree) AddLevel(data LevelData) Level {
	lvl := &Level{
		ID:          NewID("level"),
		Title:       data.Title,
		Description: data.Description,
		Order:       data.Order,
		IsActive:    data.IsActive == nil || *data.IsActive,
	}
	n := t.attach(t.root, &node{id: lvl.ID, level: lvl})
	return t.levelSnapshot(n)
}

// UpdateLevel merges data into the level; the siblings are re-sorted when the order changed.
func (t *Tree) UpdateLevel(id string, data LevelData) (Level, error) {
	n, err := t.levelNode(id)
	if err != nil {
		return Level{}, err
	}
	n.level.Title = data.Title
	n.level.Description = data.Description
	if data.IsActive != nil {
		n.level.IsActive = *data.IsActive
	}
	t.reorder(n, data.Order)
	return t.levelSnapshot(n), nil
}

func (t *Tree) ToggleLevel(id string) (Level, error) {
	n, err := t.levelNode(id)
	if err != nil {
		return Level{}, err
	}
	n.level.IsActive = !n.level.IsActive
	return t.levelSnapshot(n), nil
}

// DeleteLevel removes the level and every lesson under it; it returns the removed lesson ids.
func (t *Tree) DeleteLevel(id string) ([]string, error) {
	if _, err := t.levelNode(id); err != nil {
		return nil, err
	}
	return t.Remove(id), nil
}

func (t *Tree) AddLesson(levelID string, data LessonData) (Lesson, error) {
	parent, err := t.levelNode(levelID)
	if err != nil {
		return Lesson{}, err
	}
	lsn := &Lesson{
		ID:          NewID("lesson"),
		Title:       data.Title,
		Description: data.Description,
		Order:       data.Order,
		Duration:    data.Duration,
		Type:        data.Type,
		VideoURL:    data.VideoURL,
		Content:     data.Content,
		Resources:   withResourceIDs(data.Resources),
		IsActive:    data.IsActive == nil || *data.IsActive,
	}
	n := t.attach(parent, &node{id: lsn.ID, lesson: lsn})
	return lessonSnapshot(n), nil
}

// UpdateLesson merges data into the lesson. Resources are kept unless data carries some.
func (t *Tree) UpdateLesson(id string, data LessonData) (Lesson, error) {
	n, err := t.lessonNode(id)
	if err != nil {
		return Lesson{}, err
	}
	lsn := n.lesson
	lsn.Title = data.Title
	lsn.Description = data.Description
	lsn.Duration = data.Duration
	lsn.Type = data.Type
	lsn.VideoURL = data.VideoURL
	lsn.Content = data.Content
	if data.Resources != nil {
		lsn.Resources = withResourceIDs(data.Resources)
	}
	if data.IsActive != nil {
		lsn.IsActive = *data.IsActive
	}
	t.reorder(n, data.Order)
	return lessonSnapshot(n), nil
}

func (t *Tree) ToggleLesson(id string) (Lesson, error) {
	n, err := t.lessonNode(id)
	if err != nil {
		return Lesson{}, err
	}
	n.lesson.IsActive = !n.lesson.IsActive
	return lessonSnapshot(n), nil
}

func (t *Tree) DeleteLesson(id string) error {
	if _, err := t.lessonNode(id); err != nil {
		return err
	}
	t.Remove(id)
	return nil
}

// MoveLevel sets the order of a level and re-sorts the levels.
func (t *Tree) MoveLevel(id string, order int) error {
	n, err := t.levelNode(id)
	if err != nil {
		return err
	}
	t.reorder(n, order)
	return nil
}

// MoveLesson sets the order of a lesson and re-sorts the lessons of its level.
func (t *Tree) MoveLesson(id string, order int) error {
	n, err := t.lessonNode(id)
	if err != nil {
		return err
	}
	t.reorder(n, order)
	return nil
}

func (t *Tree) reorder(n *node, order int) {
	if n.order() == order {
		return
	}
	parent := n.parent
	parent.detach(n)
	n.setOrder(order)
	parent.insertSorted(n)
}

// Remove deletes the node and its whole subtree from the tree and the index.
// It returns the ids of the removed lessons. Unknown ids are a no-op.
func (t *Tree) Remove(id string) []string {
	n, ok := t.index[id]
	if !ok {
		return nil
	}
	n.parent.detach(n)

	var removed []string
	var drop func(*node)
	drop = func(n *node) {
		for _, c := range n.children {
			drop(c)
		}
		if n.lesson != nil {
			removed = append(removed, n.id)
		}
		delete(t.index, n.id)
	}
	drop(n)
	return removed
}

type (
	Summary struct {
		TotalLevels    int            `json:"totalLevels"`
		TotalLessons   int            `json:"totalLessons"`
		ActiveLessons  int            `json:"activeLessons"`
		TotalDuration  int            `json:"totalDuration"` // minutes
		TotalQuestions int            `json:"totalQuestions"`
		Levels         []LevelSummary `json:"levels"`
	}

	LevelSummary struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		IsActive bool   `json:"isActive"`
		Lessons  int    `json:"lessons"`
		Duration int    `json:"duration"` // minutes
	}
)

func (t *Tree) Summary() Summary {
	sum := Summary{
		TotalLevels: len(t.root.children),
		Levels:      make([]LevelSummary, 0, len(t.root.children)),
	}
	for _, lvlNode := range t.root.children {
		ls := LevelSummary{
			ID:       lvlNode.id,
			Title:    lvlNode.level.Title,
			IsActive: lvlNode.level.IsActive,
			Lessons:  len(lvlNode.children),
		}
		for _, lsnNode := range lvlNode.children {
			ls.Duration += lsnNode.lesson.Duration
			if lsnNode.lesson.IsActive {
				sum.ActiveLessons++
			}
		}
		sum.TotalLessons += ls.Lessons
		sum.TotalDuration += ls.Duration
		sum.Levels = append(sum.Levels, ls)
	}
	return sum
}

func withResourceIDs(res []Resource) []Resource {
	cp := copyResources(res)
	for i := range cp {
		if cp[i].ID == "" {
			cp[i].ID = NewID("resource")
		}
	}
	return cp
}
