package schema

// CoreCommentTable represents the 'core.comment' table
type CoreCommentTable struct {
	Table     string
	ID        string
	IssueID   string
	AuthorID  string
	Content   string
	CreatedAt string
}

// CoreComment is the schema definition for core.comment
var CoreComment = CoreCommentTable{
	Table:     "core.comment",
	ID:        "id",
	IssueID:   "issueid",
	AuthorID:  "authorid",
	Content:   "content",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CoreCommentTable) Columns() []string {
	return []string{t.ID, t.IssueID, t.AuthorID, t.Content, t.CreatedAt}
}
