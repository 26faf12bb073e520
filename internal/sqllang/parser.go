package sqllang

import "github.com/tuannm99/novalite/internal/errs"

// ParseSelect parses a single `SELECT ...` statement. Two grammars are
// accepted: `SELECT COUNT ( * ) FROM <id>` and
// `SELECT <id> (, <id>)* FROM <id> [WHERE <id> <op> <id|string>]`. Only
// `=` is accepted as a WHERE operator; `<` and `>` are lexed but rejected
// here with a SyntaxError rather than silently matching nothing.
func ParseSelect(sql string) (*SelectStmt, error) {
	l := NewLexer(sql)
	stmt := &SelectStmt{}

	tok := l.Next()
	if tok.Kind != TokSelect {
		return nil, errs.Syntaxf("expected SELECT, got %q", tok.Text)
	}

	tok = l.Next()
	if tok.Kind == TokCount {
		stmt.IsCountStar = true

		tok = l.Next()
		if tok.Kind != TokLParen {
			return nil, errs.Syntaxf("expected ( after COUNT, got %q", tok.Text)
		}
		tok = l.Next()
		if tok.Text != "*" {
			return nil, errs.Syntaxf("expected * in COUNT(*), got %q", tok.Text)
		}
		tok = l.Next()
		if tok.Kind != TokRParen {
			return nil, errs.Syntaxf("expected ) after *, got %q", tok.Text)
		}
		tok = l.Next()
		if tok.Kind != TokFrom {
			return nil, errs.Syntaxf("expected FROM after COUNT(*), got %q", tok.Text)
		}
	} else {
		for {
			if tok.Kind == TokIdent {
				stmt.Columns = append(stmt.Columns, tok.Text)
			} else {
				return nil, errs.Syntaxf("expected column name, got %q", tok.Text)
			}

			tok = l.Next()
			if tok.Kind == TokFrom {
				break
			}
			if tok.Kind != TokComma {
				return nil, errs.Syntaxf("expected comma between columns, got %q", tok.Text)
			}
			tok = l.Next()
		}
	}

	tok = l.Next()
	if tok.Kind != TokIdent {
		return nil, errs.Syntaxf("expected table name, got %q", tok.Text)
	}
	stmt.TableName = tok.Text

	tok = l.Next()
	if tok.Kind == TokWhere {
		where, err := parseWhereClause(l)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
		tok = l.Next()
	}

	if tok.Kind != TokEOF {
		return nil, errs.Syntaxf("unexpected trailing input %q", tok.Text)
	}

	return stmt, nil
}

func parseWhereClause(l *Lexer) (*WhereClause, error) {
	tok := l.Next()
	if tok.Kind != TokIdent {
		return nil, errs.Syntaxf("expected column name in WHERE, got %q", tok.Text)
	}
	col := tok.Text

	tok = l.Next()
	if tok.Kind != TokEq {
		if tok.Kind == TokLt || tok.Kind == TokGt {
			return nil, errs.Syntaxf("unsupported WHERE operator %q, only = is implemented", tok.Text)
		}
		return nil, errs.Syntaxf("expected operator in WHERE, got %q", tok.Text)
	}

	tok = l.Next()
	if tok.Kind != TokIdent && tok.Kind != TokString {
		return nil, errs.Syntaxf("expected value in WHERE, got %q", tok.Text)
	}

	return &WhereClause{Column: col, Operator: "=", Value: tok.Text}, nil
}

// ParseCreateTable parses a CREATE TABLE statement's text, the way the
// schema layer re-derives column positions from sqlite_schema.sql. Tokens
// between CREATE and TABLE, between TABLE and the table name, and between
// the name and the opening parenthesis are skipped; inside the column
// list, only name and type are kept (the type is empty for a column
// declared without one), and everything up to the next comma or closing
// paren is treated as a constraint decoration and discarded. A table-level
// PRIMARY KEY constraint ends the column list.
func ParseCreateTable(sql string) (*CreateTableStmt, error) {
	l := NewLexer(sql)
	stmt := &CreateTableStmt{}

	tok := l.Next()
	for tok.Kind != TokTable {
		if tok.Kind == TokEOF {
			return nil, errs.Syntaxf("expected TABLE, reached end of input")
		}
		tok = l.Next()
	}

	tok = l.Next()
	for tok.Kind != TokIdent {
		if tok.Kind == TokEOF {
			return nil, errs.Syntaxf("expected table name, reached end of input")
		}
		tok = l.Next()
	}
	stmt.TableName = tok.Text

	tok = l.Next()
	for tok.Kind != TokLParen {
		if tok.Kind == TokEOF {
			return nil, errs.Syntaxf("expected ( after table name, reached end of input")
		}
		tok = l.Next()
	}

	for {
		tok = l.Next()
		if tok.Kind == TokRParen {
			break
		}
		if tok.Kind == TokEOF {
			return nil, errs.Syntaxf("unterminated column list")
		}
		if tok.Kind == TokPrimary {
			// A table-level PRIMARY KEY (...) constraint follows the last column.
			break
		}
		if tok.Kind != TokIdent {
			continue
		}

		col := ColumnDef{Name: tok.Text}
		tok = l.Next()
		if tok.Kind == TokComma || tok.Kind == TokRParen {
			// Column declared without a type, e.g. sqlite_sequence(name,seq).
			stmt.Columns = append(stmt.Columns, col)
			if tok.Kind == TokRParen {
				break
			}
			continue
		}
		if tok.Kind != TokIdent {
			return nil, errs.Syntaxf("expected column type for %q, got %q", col.Name, tok.Text)
		}
		col.Type = tok.Text
		stmt.Columns = append(stmt.Columns, col)

		tok = l.Next()
		for tok.Kind != TokComma && tok.Kind != TokRParen {
			if tok.Kind == TokEOF {
				return nil, errs.Syntaxf("unterminated column list")
			}
			tok = l.Next()
		}
		if tok.Kind == TokRParen {
			break
		}
	}

	return stmt, nil
}
