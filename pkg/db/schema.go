package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Every URL seen by any crawl, stored once
CREATE TABLE IF NOT EXISTS urls (
    url_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    scheme TEXT NOT NULL,
    domain TEXT NOT NULL,
    path TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls(domain);

-- One row per crawl run
CREATE TABLE IF NOT EXISTS crawl_sessions (
    session_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    seed_url_id INTEGER NOT NULL,
    status TEXT NOT NULL,              -- success, error
    error_message TEXT,
    page_budget INTEGER NOT NULL,
    depth_budget INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    total_pages INTEGER DEFAULT 0,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    item_count INTEGER DEFAULT 0,
    total_chars INTEGER DEFAULT 0,
    extraction_time TEXT,
    output_dir TEXT,
    top_keywords TEXT,                 -- JSON array of "word:count"
    FOREIGN KEY (seed_url_id) REFERENCES urls(url_id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_created ON crawl_sessions(created_at);

-- Per-page outcome within a crawl
CREATE TABLE IF NOT EXISTS crawl_pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    url_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    status_code INTEGER,
    error_type TEXT,
    error_message TEXT,
    title TEXT,
    language TEXT,
    depth INTEGER NOT NULL DEFAULT 0,
    content_length INTEGER DEFAULT 0,
    item_count INTEGER DEFAULT 0,
    content_hash TEXT,
    fetched_at TIMESTAMP,
    FOREIGN KEY (session_id) REFERENCES crawl_sessions(session_id) ON DELETE CASCADE,
    FOREIGN KEY (url_id) REFERENCES urls(url_id),
    UNIQUE(session_id, url_id)
);

CREATE INDEX IF NOT EXISTS idx_pages_session ON crawl_pages(session_id);
CREATE INDEX IF NOT EXISTS idx_pages_status ON crawl_pages(status);

-- Every fetch attempt, across sessions
CREATE TABLE IF NOT EXISTS url_accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id INTEGER NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    status_code INTEGER,
    error_type TEXT,
    success BOOLEAN NOT NULL,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accesses_url ON url_accesses(url_id);
`
