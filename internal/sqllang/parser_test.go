package sqllang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectCountStar(t *testing.T) {
	stmt, err := ParseSelect("SELECT COUNT(*) FROM apples")
	require.NoError(t, err)
	assert.True(t, stmt.IsCountStar)
	assert.Equal(t, "apples", stmt.TableName)
	assert.Nil(t, stmt.Where)
}

func TestParseSelectColumnsNoWhere(t *testing.T) {
	stmt, err := ParseSelect("SELECT name, color FROM apples")
	require.NoError(t, err)
	assert.False(t, stmt.IsCountStar)
	assert.Equal(t, []string{"name", "color"}, stmt.Columns)
	assert.Equal(t, "apples", stmt.TableName)
}

func TestParseSelectWithWhereEquality(t *testing.T) {
	stmt, err := ParseSelect("SELECT id, name FROM apples WHERE color = 'Yellow'")
	require.NoError(t, err)
	require.NotNil(t, stmt.Where)
	assert.Equal(t, "color", stmt.Where.Column)
	assert.Equal(t, "=", stmt.Where.Operator)
	assert.Equal(t, "Yellow", stmt.Where.Value)
}

func TestParseSelectRejectsUnsupportedOperator(t *testing.T) {
	_, err := ParseSelect("SELECT id FROM apples WHERE color > 'Yellow'")
	assert.Error(t, err)
}

func TestParseSelectRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseSelect("SELECT id FROM apples garbage")
	assert.Error(t, err)
}

func TestParseSelectRequiresFrom(t *testing.T) {
	_, err := ParseSelect("SELECT id apples")
	assert.Error(t, err)
}

func TestParseCreateTable(t *testing.T) {
	sql := `CREATE TABLE apples
(
	id integer primary key autoincrement,
	name text,
	color text
)`
	stmt, err := ParseCreateTable(sql)
	require.NoError(t, err)
	assert.Equal(t, "apples", stmt.TableName)
	require.Len(t, stmt.Columns, 3)
	assert.Equal(t, "id", stmt.Columns[0].Name)
	assert.Equal(t, "name", stmt.Columns[1].Name)
	assert.Equal(t, "color", stmt.Columns[2].Name)
}

func TestParseCreateTableMissingTableKeywordFails(t *testing.T) {
	_, err := ParseCreateTable("CREATE apples (id integer)")
	assert.Error(t, err)
}
