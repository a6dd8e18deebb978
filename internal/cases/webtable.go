// internal/cases/webtable.go
package cases

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/pages"
	"github.com/valpere/UIProbe/internal/suite"
)

const tableFixture = "table_data"

func webTableCases() []suite.Case {
	c := func(name string, tags []string, fn suite.Func) suite.Case {
		return suite.Case{Module: "webtable", Name: name, Fixture: tableFixture, Tags: tags, Run: fn}
	}
	return []suite.Case{
		c("find_and_delete", []string{TagFunctional}, tableFindAndDelete),
		c("add_then_delete", []string{TagFunctional}, tableAddThenDelete),
		c("search_and_edit", []string{TagFunctional}, tableSearchAndEdit),
		c("search_other_user", []string{TagFunctional}, tableSearchOtherUser),
	}
}

func openTable(t *suite.T) *pages.WebTablePage {
	t.Open("/elements")
	el := pages.NewElementsPage(t.Page())
	require.True(t, el.OpenSection(t.Context(), pages.SectionWebTables), "menu entry %s", pages.SectionWebTables)
	return pages.NewWebTablePage(t.Page())
}

func users(t *suite.T) []pages.Record {
	var out []pages.Record
	t.Must(t.Data().Decode("Users", &out))
	if len(out) < 5 {
		t.Skipf("fixture lists %d users, need 5", len(out))
	}
	return out
}

// rowMatches compares the data columns of a row, ignoring the action
// column.
func rowMatches(t *suite.T, row []string, r pages.Record) {
	want := r.Cells()
	if !assert.GreaterOrEqual(t, len(row), len(want), "row %v is too short", row) {
		return
	}
	assert.Equal(t, want, row[:len(want)])
}

func tableFindAndDelete(t *suite.T) {
	table := openTable(t)
	ctx := t.Context()
	u := users(t)[1]

	i := table.FindRowByEmail(ctx, u.Email)
	require.NotEqual(t, -1, i, "%s should be listed", u.Email)
	rowMatches(t, table.RowData(ctx, i), u)

	before := table.RecordCount(ctx)
	t.Step("delete %s", u.Email)
	require.True(t, table.DeleteByEmail(ctx, u.Email))
	assert.Equal(t, -1, table.FindRowByEmail(ctx, u.Email), "deleted row still listed")
	assert.Equal(t, before-1, table.RecordCount(ctx))
}

func tableAddThenDelete(t *suite.T) {
	table := openTable(t)
	ctx := t.Context()
	u := users(t)[3]

	before := table.RecordCount(ctx)
	t.Step("add %s", u.Email)
	require.True(t, table.AddRecord(ctx, u), "add record")
	assert.Equal(t, before+1, table.RecordCount(ctx))

	i := table.FindRowByEmail(ctx, u.Email)
	require.NotEqual(t, -1, i, "added row not found")
	rowMatches(t, table.RowData(ctx, i), u)

	t.Step("delete row %d", i)
	require.True(t, table.DeleteByIndex(ctx, i))
	assert.Equal(t, -1, table.FindRowByEmail(ctx, u.Email))
	assert.Equal(t, before, table.RecordCount(ctx))
}

func tableSearchAndEdit(t *suite.T) {
	table := openTable(t)
	ctx := t.Context()

	var edit pages.Record
	t.Must(t.Data().Decode("EditUser", &edit))

	t.Step("search for %s", edit.Email)
	require.True(t, table.Search(ctx, edit.Email))
	require.Equal(t, 1, table.RecordCount(ctx), "search should match one row")

	t.Step("edit %s", edit.Email)
	require.True(t, table.EditByIndex(ctx, 0), "open the edit form")
	require.True(t, table.FillForm(ctx, edit), "fill the edit form")
	require.True(t, table.Submit(ctx), "submit the edit form")

	i := table.FindRowByEmail(ctx, edit.Email)
	require.NotEqual(t, -1, i, "edited row not found")
	rowMatches(t, table.RowData(ctx, i), edit)
}

func tableSearchOtherUser(t *suite.T) {
	table := openTable(t)
	ctx := t.Context()
	all := users(t)
	added, other := all[3], all[4]
	require.NotEqual(t, added.Email, other.Email, "fixture users must differ")

	require.True(t, table.AddRecord(ctx, added), "add record")
	t.Step("search for %s", other.Email)
	require.True(t, table.Search(ctx, other.Email))
	assert.Equal(t, 0, table.RecordCount(ctx), "no row should match another user's email")
}
