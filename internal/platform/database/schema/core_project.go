package schema

// CoreProjectTable represents the 'core.project' table
type CoreProjectTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	IsArchived  string
	CreatedByID string
	CreatedAt   string
	UpdatedAt   string
}

// CoreProject is the schema definition for core.project
var CoreProject = CoreProjectTable{
	Table:       "core.project",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	IsArchived:  "isarchived",
	CreatedByID: "createdbyid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t CoreProjectTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.IsArchived,
		t.CreatedByID, t.CreatedAt, t.UpdatedAt,
	}
}
