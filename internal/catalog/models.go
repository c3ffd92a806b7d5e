package catalog

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CategoryID int64  `json:"category_id"`
	Order      int    `json:"order"`
}

type Unit struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	BookID int64  `json:"book_id"`
	Order  int    `json:"order"`
}

// Lesson is the reference text a learner reads aloud. UnitID is nil for
// lessons not filed under a unit.
type Lesson struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	UnitID    *int64 `json:"unit_id,omitempty"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}
