package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"ZMKImport/internal/config"
	"ZMKImport/internal/database"
	"ZMKImport/internal/importer"
	"ZMKImport/internal/model"
	"ZMKImport/internal/repository"
	"ZMKImport/internal/sheet"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) (*gorm.DB, *logrus.Logger) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "service.db"),
		LogLevel: "silent",
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db, log
}

func newImportService(db *gorm.DB, log *logrus.Logger) *ImportService {
	return NewImportService(repository.NewTicketRepository(db), repository.NewRunRepository(db), log)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildWorkbook 按行写入活动工作表，行列均从 A1 开始
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func twoTableRows() [][]any {
	return [][]any{
		{"Acme", nil, nil, nil, "Globex"},
		{},
		{"Дата", "Вес(тн)", "Дата выгрузки", "Объект 1", "Дата", "Вес(тн)", "Статус", "Дата выгрузки", "Объект 1", "Объект 2"},
		{day(2024, 1, 1), 10.0, day(2024, 1, 5), 4.0, day(2024, 2, 1), 20.0, "pending", day(2024, 2, 3), 5.0, nil},
		{day(2024, 1, 2), 11.0, nil, 1.0, day(2024, 2, 2), 21.0, nil, day(2024, 2, 4), 5.0, 3.0},
	}
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestImportFileEndToEnd(t *testing.T) {
	db, log := setupDB(t)
	groups := repository.NewGroupRepository(db)
	ctx := context.Background()
	acme, err := groups.CreateGroup(ctx, "Acme")
	require.NoError(t, err)
	globex, err := groups.CreateGroup(ctx, "Globex")
	require.NoError(t, err)

	svc := newImportService(db, log)
	res, err := svc.ImportFile(ctx, "weights.xlsx", buildWorkbook(t, twoTableRows()))
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Summary.Tables, 2)
	assert.Equal(t, "Acme", res.Summary.Tables[0].Group)
	assert.Equal(t, 1, res.Summary.Tables[0].Inserted)
	assert.Equal(t, 1, res.Summary.Tables[0].Lines)
	assert.Equal(t, "Globex", res.Summary.Tables[1].Group)
	assert.Equal(t, 2, res.Summary.Tables[1].Inserted)
	assert.Equal(t, 3, res.Summary.Tables[1].Lines)

	var acmeTickets []model.Ticket
	require.NoError(t, db.Where("zmk_id = ?", acme.ID).Find(&acmeTickets).Error)
	require.Len(t, acmeTickets, 1)
	assert.True(t, day(2024, 1, 1).Equal(acmeTickets[0].Date.UTC()))
	assert.True(t, day(2024, 1, 5).Equal(acmeTickets[0].UnloadingDate.UTC()))
	assert.Equal(t, 10.0, acmeTickets[0].Weight)
	assert.Nil(t, acmeTickets[0].Status)

	var globexTickets []model.Ticket
	require.NoError(t, db.Where("zmk_id = ?", globex.ID).Order("date").Find(&globexTickets).Error)
	require.Len(t, globexTickets, 2)
	require.NotNil(t, globexTickets[0].Status)
	assert.Equal(t, "pending", *globexTickets[0].Status)
	assert.Equal(t, int64(4), countRows(t, db, &model.TicketLine{}))

	runs, err := svc.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunUUID)
	assert.Equal(t, model.ImportRunSuccess, runs[0].Status)
	assert.Equal(t, "weights.xlsx", runs[0].FileName)

	var stats importer.Summary
	require.NoError(t, json.Unmarshal(runs[0].Stats, &stats))
	assert.Len(t, stats.Tables, 2)
}

func TestImportFileReimportUpdatesInPlace(t *testing.T) {
	db, log := setupDB(t)
	groups := repository.NewGroupRepository(db)
	ctx := context.Background()
	_, err := groups.CreateGroup(ctx, "Acme")
	require.NoError(t, err)
	_, err = groups.CreateGroup(ctx, "Globex")
	require.NoError(t, err)
	svc := newImportService(db, log)

	_, err = svc.ImportFile(ctx, "first.xlsx", buildWorkbook(t, twoTableRows()))
	require.NoError(t, err)
	var before model.Ticket
	require.NoError(t, db.Where("weight = ?", 20.0).First(&before).Error)

	rows := twoTableRows()
	rows[3][6] = "delivered"
	res, err := svc.ImportFile(ctx, "second.xlsx", buildWorkbook(t, rows))
	require.NoError(t, err)

	totals := res.Summary.Totals()
	assert.Equal(t, 0, totals.Inserted)
	assert.Equal(t, 3, totals.Updated)
	assert.Equal(t, 0, totals.Lines)
	assert.Equal(t, int64(3), countRows(t, db, &model.Ticket{}))
	assert.Equal(t, int64(4), countRows(t, db, &model.TicketLine{}), "lines are not duplicated")

	var after model.Ticket
	require.NoError(t, db.Where("weight = ?", 20.0).First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	require.NotNil(t, after.Status)
	assert.Equal(t, "delivered", *after.Status)
}

func TestImportFileUnknownGroupWritesNothing(t *testing.T) {
	db, log := setupDB(t)
	ctx := context.Background()
	_, err := repository.NewGroupRepository(db).CreateGroup(ctx, "Acme")
	require.NoError(t, err)
	svc := newImportService(db, log)

	rows := twoTableRows()
	rows[0][4] = "Unknown Corp"
	res, err := svc.ImportFile(ctx, "bad.xlsx", buildWorkbook(t, rows))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrGroupNotFound))
	assert.Nil(t, res.Summary)
	assert.Zero(t, countRows(t, db, &model.Ticket{}))
	assert.Zero(t, countRows(t, db, &model.TicketLine{}))

	runs, err := svc.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.ImportRunFailed, runs[0].Status)
	require.NotNil(t, runs[0].Error)
	assert.Contains(t, *runs[0].Error, "Unknown Corp")
}

func TestImportFileRejectsInvalidWorkbook(t *testing.T) {
	db, log := setupDB(t)
	svc := newImportService(db, log)

	res, err := svc.ImportFile(context.Background(), "notes.txt", bytes.NewReader([]byte("hello")))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, sheet.ErrInvalidWorkbook))

	runs, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.ImportRunFailed, runs[0].Status)
}

func TestListRunsWithoutHistory(t *testing.T) {
	db, log := setupDB(t)
	svc := NewImportService(repository.NewTicketRepository(db), nil, log)
	runs, err := svc.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
