package schema

// CoreIssueTable represents the 'core.issue' table
type CoreIssueTable struct {
	Table       string
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	ReporterID  string
	AssigneeID  string
	DueDate     string
	CreatedAt   string
	UpdatedAt   string
}

// CoreIssue is the schema definition for core.issue
var CoreIssue = CoreIssueTable{
	Table:       "core.issue",
	ID:          "id",
	ProjectID:   "projectid",
	Title:       "title",
	Description: "description",
	Status:      "status",
	Priority:    "priority",
	ReporterID:  "reporterid",
	AssigneeID:  "assigneeid",
	DueDate:     "duedate",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t CoreIssueTable) Columns() []string {
	return []string{
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
		t.ReporterID, t.AssigneeID, t.DueDate, t.CreatedAt, t.UpdatedAt,
	}
}
