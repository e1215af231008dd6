package passcode

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	st := NewSettingsStore(settings.NewPostgresRepository(db))

	mock.ExpectQuery(`SELECT value FROM settings`).WithArgs(SettingsKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(`INSERT INTO settings`).WithArgs(SettingsKey, "A").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT value FROM settings`).WithArgs(SettingsKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("A"))

	_, err = st.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, st.Save(context.Background(), "A"))

	v, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_BlankValueIsAbsent(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	reg := NewRegister(NewSettingsStore(settings.NewPostgresRepository(db)))

	mock.ExpectQuery(`SELECT value FROM settings`).WithArgs(SettingsKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("  "))
	mock.ExpectExec(`INSERT INTO settings`).WithArgs(SettingsKey, "fallback").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, reg.Init(context.Background(), "fallback"))
	assert.Equal(t, "fallback", reg.Get())

	ok, err := reg.Check(context.Background(), "fallback", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
