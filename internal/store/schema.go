package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableCategories = "skill_categories"
	tableNodes      = "skill_nodes"
	tableEdges      = "prerequisite_edges"
	tableRecords    = "user_skill_records"
	tableEvents     = "practice_events"
	tablePaths      = "paths"
	tablePathNodes  = "path_nodes"
	tableProblems   = "problems"
)

var (
	// SkillCategoriesColumns holds the columns for the "skill_categories" table.
	SkillCategoriesColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "decay_constant", Type: field.TypeFloat64, Default: 0.03},
	}
	// SkillCategoriesTable holds the schema information for the "skill_categories" table.
	SkillCategoriesTable = &schema.Table{
		Name:       tableCategories,
		Columns:    SkillCategoriesColumns,
		PrimaryKey: []*schema.Column{SkillCategoriesColumns[0]},
	}

	// SkillNodesColumns holds the columns for the "skill_nodes" table.
	SkillNodesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "external_key", Type: field.TypeString, Default: ""},
		{Name: "external_url", Type: field.TypeString, Default: ""},
	}
	// SkillNodesTable holds the schema information for the "skill_nodes" table.
	SkillNodesTable = &schema.Table{
		Name:       tableNodes,
		Columns:    SkillNodesColumns,
		PrimaryKey: []*schema.Column{SkillNodesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "skillnode_category", Unique: false, Columns: []*schema.Column{SkillNodesColumns[1]}},
		},
	}

	// PrerequisiteEdgesColumns holds the columns for the "prerequisite_edges" table.
	PrerequisiteEdgesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "prerequisite_id", Type: field.TypeInt64},
		{Name: "dependent_id", Type: field.TypeInt64},
	}
	// PrerequisiteEdgesTable holds the schema information for the "prerequisite_edges" table.
	PrerequisiteEdgesTable = &schema.Table{
		Name:       tableEdges,
		Columns:    PrerequisiteEdgesColumns,
		PrimaryKey: []*schema.Column{PrerequisiteEdgesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "prerequisite_edges_skill_nodes_prerequisite",
				Columns:    []*schema.Column{PrerequisiteEdgesColumns[1]},
				RefColumns: []*schema.Column{SkillNodesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "prerequisite_edges_skill_nodes_dependent",
				Columns:    []*schema.Column{PrerequisiteEdgesColumns[2]},
				RefColumns: []*schema.Column{SkillNodesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "prerequisiteedge_prerequisite_id_dependent_id", Unique: true, Columns: []*schema.Column{PrerequisiteEdgesColumns[1], PrerequisiteEdgesColumns[2]}},
			{Name: "prerequisiteedge_dependent_id", Unique: false, Columns: []*schema.Column{PrerequisiteEdgesColumns[2]}},
		},
	}

	// UserSkillRecordsColumns holds the columns for the "user_skill_records" table.
	UserSkillRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "node_id", Type: field.TypeInt64},
		{Name: "mastery_score", Type: field.TypeFloat64, Default: 0},
		{Name: "status", Type: field.TypeString},
		{Name: "last_practiced_at", Type: field.TypeTime, Nullable: true},
		{Name: "last_successful_at", Type: field.TypeTime, Nullable: true},
		{Name: "decay_charged", Type: field.TypeFloat64, Default: 0},
	}
	// UserSkillRecordsTable holds the schema information for the "user_skill_records" table.
	UserSkillRecordsTable = &schema.Table{
		Name:       tableRecords,
		Columns:    UserSkillRecordsColumns,
		PrimaryKey: []*schema.Column{UserSkillRecordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_skill_records_skill_nodes_records",
				Columns:    []*schema.Column{UserSkillRecordsColumns[2]},
				RefColumns: []*schema.Column{SkillNodesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{Name: "userskillrecord_user_id_node_id", Unique: true, Columns: []*schema.Column{UserSkillRecordsColumns[1], UserSkillRecordsColumns[2]}},
			{Name: "userskillrecord_status", Unique: false, Columns: []*schema.Column{UserSkillRecordsColumns[4]}},
		},
	}

	// PracticeEventsColumns holds the columns for the "practice_events" table.
	PracticeEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "node_id", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_kind", Type: field.TypeString, Nullable: true},
		{Name: "duration_ms", Type: field.TypeInt, Nullable: true},
		{Name: "attempt_number", Type: field.TypeInt},
		{Name: "practiced_at", Type: field.TypeTime},
	}
	// PracticeEventsTable holds the schema information for the "practice_events" table.
	PracticeEventsTable = &schema.Table{
		Name:       tableEvents,
		Columns:    PracticeEventsColumns,
		PrimaryKey: []*schema.Column{PracticeEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "practice_events_skill_nodes_events",
				Columns:    []*schema.Column{PracticeEventsColumns[2]},
				RefColumns: []*schema.Column{SkillNodesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{Name: "practiceevent_user_id_node_id", Unique: false, Columns: []*schema.Column{PracticeEventsColumns[1], PracticeEventsColumns[2]}},
			{Name: "practiceevent_user_id_practiced_at", Unique: false, Columns: []*schema.Column{PracticeEventsColumns[1], PracticeEventsColumns[7]}},
		},
	}

	// PathsColumns holds the columns for the "paths" table.
	PathsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Default: ""},
	}
	// PathsTable holds the schema information for the "paths" table.
	PathsTable = &schema.Table{
		Name:       tablePaths,
		Columns:    PathsColumns,
		PrimaryKey: []*schema.Column{PathsColumns[0]},
	}

	// PathNodesColumns holds the columns for the "path_nodes" table.
	PathNodesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "path_id", Type: field.TypeInt64},
		{Name: "node_id", Type: field.TypeInt64},
		{Name: "sequence_order", Type: field.TypeInt},
	}
	// PathNodesTable holds the schema information for the "path_nodes" table.
	PathNodesTable = &schema.Table{
		Name:       tablePathNodes,
		Columns:    PathNodesColumns,
		PrimaryKey: []*schema.Column{PathNodesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "path_nodes_paths_nodes",
				Columns:    []*schema.Column{PathNodesColumns[1]},
				RefColumns: []*schema.Column{PathsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "path_nodes_skill_nodes_paths",
				Columns:    []*schema.Column{PathNodesColumns[2]},
				RefColumns: []*schema.Column{SkillNodesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "pathnode_path_id_node_id", Unique: true, Columns: []*schema.Column{PathNodesColumns[1], PathNodesColumns[2]}},
			{Name: "pathnode_path_id_sequence_order", Unique: false, Columns: []*schema.Column{PathNodesColumns[1], PathNodesColumns[3]}},
		},
	}

	// ProblemsColumns holds the columns for the "problems" table.
	ProblemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "node_id", Type: field.TypeInt64},
		{Name: "problem_text", Type: field.TypeString},
		{Name: "solution_text", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeInt, Default: 1},
	}
	// ProblemsTable holds the schema information for the "problems" table.
	ProblemsTable = &schema.Table{
		Name:       tableProblems,
		Columns:    ProblemsColumns,
		PrimaryKey: []*schema.Column{ProblemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "problems_skill_nodes_problems",
				Columns:    []*schema.Column{ProblemsColumns[1]},
				RefColumns: []*schema.Column{SkillNodesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "problem_node_id_problem_text", Unique: true, Columns: []*schema.Column{ProblemsColumns[1], ProblemsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SkillCategoriesTable,
		SkillNodesTable,
		PrerequisiteEdgesTable,
		UserSkillRecordsTable,
		PracticeEventsTable,
		PathsTable,
		PathNodesTable,
		ProblemsTable,
	}
)

func init() {
	PrerequisiteEdgesTable.ForeignKeys[0].RefTable = SkillNodesTable
	PrerequisiteEdgesTable.ForeignKeys[1].RefTable = SkillNodesTable
	UserSkillRecordsTable.ForeignKeys[0].RefTable = SkillNodesTable
	PracticeEventsTable.ForeignKeys[0].RefTable = SkillNodesTable
	PathNodesTable.ForeignKeys[0].RefTable = PathsTable
	PathNodesTable.ForeignKeys[1].RefTable = SkillNodesTable
	ProblemsTable.ForeignKeys[0].RefTable = SkillNodesTable
}

// migrate creates or updates every table to match Tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
