package review

// Schema holds the review module's tables. main applies it once at
// startup via database.Migrate.
const Schema = `
CREATE TABLE IF NOT EXISTS review_runs (
	id               TEXT PRIMARY KEY,
	started_at       TIMESTAMP NOT NULL,
	duration_ms      INTEGER NOT NULL,
	tickers          INTEGER NOT NULL,
	errored          INTEGER NOT NULL,
	alerts           INTEGER NOT NULL,
	avg_completeness REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS score_results (
	run_id       TEXT NOT NULL REFERENCES review_runs(id),
	ticker       TEXT NOT NULL,
	total_score  REAL,
	completeness REAL,
	breakdown    TEXT,
	errored      INTEGER NOT NULL DEFAULT 0,
	error_text   TEXT,
	PRIMARY KEY (run_id, ticker)
);

CREATE TABLE IF NOT EXISTS risk_assessments (
	run_id     TEXT NOT NULL REFERENCES review_runs(id),
	ticker     TEXT NOT NULL,
	risk_score REAL,
	tier       TEXT,
	breakdown  TEXT,
	PRIMARY KEY (run_id, ticker)
);

CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES review_runs(id),
	ticker     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at DESC);

CREATE TABLE IF NOT EXISTS recommendations (
	uuid       TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES review_runs(id),
	ticker     TEXT NOT NULL,
	name       TEXT NOT NULL,
	action     TEXT NOT NULL,
	score      REAL,
	tier       TEXT,
	reason     TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendations_ticker ON recommendations(ticker, created_at DESC);
`
