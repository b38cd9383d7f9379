// Package lexeme implements the grow-only intern table used to turn
// identifier text into stable small integer ids.
package lexeme

// ID identifies an interned lexeme. The zero value is the sentinel id for
// empty text; it is never returned for non-empty text.
type ID uint32

// None is the sentinel id returned for empty text. Tokens with no associated
// lexeme carry token.NoLexeme instead.
const None ID = 0

// Database interns identifier text. Equal text always maps to equal ids;
// Add is idempotent.
type Database struct {
	text   []string
	lookup map[string]ID
}

// NewDatabase returns an empty database with the sentinel slot pre-seeded.
func NewDatabase() *Database {
	db := &Database{
		text:   make([]string, 1, 64),
		lookup: make(map[string]ID, 64),
	}
	db.text[0] = ""
	return db
}

// Add interns lexeme and returns its stable id. Empty text always returns
// None without growing the table.
func (db *Database) Add(text string) ID {
	if text == "" {
		return None
	}
	if id, ok := db.lookup[text]; ok {
		return id
	}
	id := ID(len(db.text))
	db.text = append(db.text, text)
	db.lookup[text] = id
	return id
}

// Find reports the id of text if it was previously interned.
func (db *Database) Find(text string) (ID, bool) {
	if text == "" {
		return None, true
	}
	id, ok := db.lookup[text]
	return id, ok
}

// Get returns the text stored under id, or "" if id is out of range.
func (db *Database) Get(id ID) string {
	if int(id) >= len(db.text) {
		return ""
	}
	return db.text[id]
}

// Len reports how many distinct non-empty lexemes are interned.
func (db *Database) Len() int {
	return len(db.text) - 1
}
