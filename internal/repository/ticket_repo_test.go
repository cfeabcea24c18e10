package repository

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"ZMKImport/internal/config"
	"ZMKImport/internal/database"
	"ZMKImport/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedGroup(t *testing.T, db *gorm.DB, title string) *model.GroupEntity {
	t.Helper()
	g := &model.GroupEntity{Title: title}
	require.NoError(t, db.Create(g).Error)
	return g
}

func TestFindGroupByTitle(t *testing.T) {
	db := openTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	acme := seedGroup(t, db, "Acme")

	got, err := repo.FindGroupByTitle(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)

	_, err = repo.FindGroupByTitle(ctx, "acme")
	require.Error(t, err, "title match is exact")
	assert.True(t, errors.Is(err, model.ErrGroupNotFound))
	assert.Contains(t, err.Error(), "acme")
}

func TestInsertTicketReportsExistingKey(t *testing.T) {
	db := openTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	acme := seedGroup(t, db, "Acme")

	status := "pending"
	first := &model.Ticket{GroupEntityID: acme.ID, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 5), Weight: 10, Status: &status}
	outcome, err := repo.InsertTicket(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)
	assert.NotZero(t, first.ID)

	dup := &model.Ticket{GroupEntityID: acme.ID, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 5), Weight: 10}
	outcome, err = repo.InsertTicket(ctx, dup)
	require.NoError(t, err)
	assert.Equal(t, model.ExistingKey, outcome)

	other := &model.Ticket{GroupEntityID: acme.ID, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 5), Weight: 10.5}
	outcome, err = repo.InsertTicket(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome, "different weight is a different key")

	stored, err := repo.FindTicketByNaturalKey(ctx, dup.NaturalKey())
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	require.NotNil(t, stored.Status)
	assert.Equal(t, "pending", *stored.Status)
}

func TestInsertTicketUnknownGroupFails(t *testing.T) {
	db := openTestDB(t)
	repo := NewTicketRepository(db)

	_, err := repo.InsertTicket(context.Background(), &model.Ticket{GroupEntityID: 999, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 2), Weight: 1})
	assert.Error(t, err, "foreign key violation is not a natural key conflict")
}

func TestBulkUpdateTickets(t *testing.T) {
	db := openTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	acme := seedGroup(t, db, "Acme")

	ticket := &model.Ticket{GroupEntityID: acme.ID, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 5), Weight: 10}
	_, err := repo.InsertTicket(ctx, ticket)
	require.NoError(t, err)

	status, upd := "delivered", "UPD-1"
	update := &model.Ticket{ID: ticket.ID, GroupEntityID: acme.ID, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 5), Weight: 10, Status: &status, UPD: &upd}
	require.NoError(t, repo.BulkUpdateTickets(ctx, []*model.Ticket{update}, model.UpdatableTicketFields))

	var stored model.Ticket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	require.NotNil(t, stored.Status)
	assert.Equal(t, "delivered", *stored.Status)
	require.NotNil(t, stored.UPD)
	assert.Equal(t, "UPD-1", *stored.UPD)

	err = repo.BulkUpdateTickets(ctx, []*model.Ticket{{Date: date(2024, 1, 1)}}, model.UpdatableTicketFields)
	assert.Error(t, err, "tickets without a primary key are rejected")
	assert.NoError(t, repo.BulkUpdateTickets(ctx, nil, model.UpdatableTicketFields))
}

func TestBulkInsertLinesAndCascade(t *testing.T) {
	db := openTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	acme := seedGroup(t, db, "Acme")

	ticket := &model.Ticket{GroupEntityID: acme.ID, Date: date(2024, 1, 1), UnloadingDate: date(2024, 1, 5), Weight: 8}
	_, err := repo.InsertTicket(ctx, ticket)
	require.NoError(t, err)

	lines := []*model.TicketLine{
		{TicketID: ticket.ID, ObjectWeight: 5},
		{TicketID: ticket.ID, ObjectWeight: 3},
	}
	require.NoError(t, repo.BulkInsertLines(ctx, lines))
	require.NoError(t, repo.BulkInsertLines(ctx, nil))

	var count int64
	require.NoError(t, db.Model(&model.TicketLine{}).Where("rtc_id = ?", ticket.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	require.NoError(t, db.Delete(&model.Ticket{}, ticket.ID).Error)
	require.NoError(t, db.Model(&model.TicketLine{}).Count(&count).Error)
	assert.Zero(t, count, "lines are removed with their ticket")
}
