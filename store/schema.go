package store

// Schema creates the export tables. Amounts are kept as exact fractions
// next to their display text.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    date TEXT NOT NULL,
    state TEXT NOT NULL,               -- 'cleared', 'pending' or 'uncleared'
    code TEXT,                         -- NULL when the transaction has no code
    description TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date
    ON transactions(date);

CREATE TABLE IF NOT EXISTS postings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    transaction_id INTEGER NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    account TEXT NOT NULL,
    commodity TEXT NOT NULL,
    amount_num INTEGER NOT NULL,
    amount_den INTEGER NOT NULL,
    amount_text TEXT NOT NULL,
    inferred INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_postings_account
    ON postings(account);

CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    transaction_id INTEGER NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
    posting_id INTEGER REFERENCES postings(id) ON DELETE CASCADE,
    line INTEGER NOT NULL,
    text TEXT NOT NULL
);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(s *Store) error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	return nil
}
