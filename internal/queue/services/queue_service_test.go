package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medifront/frontdesk-backend/internal/queue/models"
)

var entryCols = []string{
	"id", "queue_number", "patient_id", "reason_for_visit", "status",
	"called_at", "served_at", "queue_date", "created_at", "updated_at",
}

func newQueueService(t *testing.T) (*QueueService, sqlmock.Sqlmock, *recorderStub) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	recorder := &recorderStub{}
	return NewQueueService(db, NewLedgerService(db), recorder), mock, recorder
}

func addEntryRow(rows *sqlmock.Rows, id int64, number int, status string, calledAt, servedAt interface{}) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rows.AddRow(id, number, int64(42), "checkup", status, calledAt, servedAt, day, day, day)
}

func TestListForDateOrdersByQueueNumber(t *testing.T) {
	svc, mock, _ := newQueueService(t)

	rows := sqlmock.NewRows(entryCols)
	addEntryRow(rows, 1, 1, "served", time.Now(), time.Now())
	addEntryRow(rows, 2, 2, "serving", time.Now(), nil)
	addEntryRow(rows, 3, 3, "waiting", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY queue_number ASC")).
		WithArgs("2025-03-10").
		WillReturnRows(rows)

	entries, err := svc.ListForDate(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].QueueNumber)
	assert.Equal(t, models.StatusServing, entries[1].Status)
	assert.Nil(t, entries[2].CalledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNowServingReturnsNilWhenNobodyIsServing(t *testing.T) {
	svc, mock, _ := newQueueService(t)

	mock.ExpectQuery(regexp.QuoteMeta("status = ?")).
		WithArgs("2025-03-10", "serving").
		WillReturnRows(sqlmock.NewRows(entryCols))

	entry, err := svc.NowServing(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextUpTruncatesToLimit(t *testing.T) {
	svc, mock, _ := newQueueService(t)

	rows := sqlmock.NewRows(entryCols)
	addEntryRow(rows, 4, 4, "waiting", nil, nil)
	addEntryRow(rows, 5, 5, "waiting", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ?")).
		WithArgs("2025-03-10", "waiting", 2).
		WillReturnRows(rows)

	entries, err := svc.NextUp(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].QueueNumber)
	assert.Equal(t, models.StatusWaiting, entries[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatisticsCountsByStatus(t *testing.T) {
	svc, mock, _ := newQueueService(t)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("waiting", 4).
		AddRow("serving", 1).
		AddRow("served", 7).
		AddRow("skipped", 2)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WithArgs("2025-03-10").
		WillReturnRows(rows)

	stats, err := svc.Statistics(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 14, stats.Total)
	assert.Equal(t, 4, stats.Waiting)
	assert.Equal(t, 1, stats.Serving)
	assert.Equal(t, 7, stats.Served)
	assert.Equal(t, 2, stats.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionPersistsAndRecordsAudit(t *testing.T) {
	svc, mock, recorder := newQueueService(t)

	rows := sqlmock.NewRows(entryCols)
	addEntryRow(rows, 9, 3, "waiting", nil, nil)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? FOR UPDATE")).
		WithArgs(int64(9)).
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE queue_entries SET status = ?")).
		WithArgs("serving", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry, err := svc.Transition(9, models.StatusServing, 77)
	require.NoError(t, err)
	assert.Equal(t, models.StatusServing, entry.Status)
	require.NotNil(t, entry.CalledAt)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, "queue.transition", recorder.events[0].Action)
	assert.Equal(t, int64(77), recorder.events[0].ActorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionNoOpDoesNotRestamp(t *testing.T) {
	svc, mock, recorder := newQueueService(t)

	calledAt := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	rows := sqlmock.NewRows(entryCols)
	addEntryRow(rows, 9, 3, "serving", calledAt, nil)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? FOR UPDATE")).
		WithArgs(int64(9)).
		WillReturnRows(rows)
	mock.ExpectRollback()

	entry, err := svc.Transition(9, models.StatusServing, 77)
	require.NoError(t, err)
	require.NotNil(t, entry.CalledAt)
	assert.Equal(t, calledAt, entry.CalledAt.UTC())
	assert.Empty(t, recorder.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionFromTerminalStateFails(t *testing.T) {
	svc, mock, recorder := newQueueService(t)

	rows := sqlmock.NewRows(entryCols)
	addEntryRow(rows, 9, 3, "served", time.Now(), time.Now())
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? FOR UPDATE")).
		WithArgs(int64(9)).
		WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := svc.Transition(9, models.StatusWaiting, 77)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Empty(t, recorder.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionUnknownEntry(t *testing.T) {
	svc, mock, _ := newQueueService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? FOR UPDATE")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(entryCols))
	mock.ExpectRollback()

	_, err := svc.Transition(404, models.StatusServing, 77)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
