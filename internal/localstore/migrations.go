package localstore

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS stored_files (
	stored_name   TEXT PRIMARY KEY,
	original_name TEXT NOT NULL,
	mime_type     TEXT NOT NULL DEFAULT '',
	size          INTEGER NOT NULL DEFAULT 0,
	uploaded_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stored_files_uploaded_at ON stored_files(uploaded_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
