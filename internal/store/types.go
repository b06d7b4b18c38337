package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// EngagementStat is one school's participation over a reporting window.
type EngagementStat struct {
	SchoolID      string  `db:"school_id"`
	SchoolName    string  `db:"school_name"`
	Polls         int64   `db:"polls"`
	Votes         int64   `db:"votes"`
	Voters        int64   `db:"voters"`
	LastVote      *int64  `db:"last_vote"`
	HumanLastVote *string `db:"human_last_vote"`
}
