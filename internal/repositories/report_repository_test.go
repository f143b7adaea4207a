package repositories

import (
	"context"
	"testing"
	"time"

	"rentify_backend/internal/models"
	"rentify_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_OneOpenReportPerReporterAndProperty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, &models.User{Role: models.UserRoleOwner})
	reporter := testutil.CreateUser(t, db, &models.User{})
	admin := testutil.CreateUser(t, db, &models.User{Role: models.UserRoleAdmin})
	property := testutil.CreateProperty(t, db, testutil.NewProperty(owner.ID))

	first := &models.Report{PropertyID: property.ID, ReporterID: reporter.ID, Reason: models.ReportReasonFraud}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, models.ReportStatusOpen, first.Status)

	open, err := repo.HasOpenReport(ctx, reporter.ID, property.ID)
	require.NoError(t, err)
	assert.True(t, open)

	dup := &models.Report{PropertyID: property.ID, ReporterID: reporter.ID, Reason: models.ReportReasonOther}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrOpenReportExists)

	require.NoError(t, repo.Resolve(ctx, first.ID, models.ReportStatusDismissed, admin.ID, time.Now().UTC()))

	again := &models.Report{PropertyID: property.ID, ReporterID: reporter.ID, Reason: models.ReportReasonOther}
	require.NoError(t, repo.Create(ctx, again))

	reports, total, err := repo.FindWithFilter(ctx, models.ReportStatusOpen, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, again.ID, reports[0].ID)

	resolved, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusDismissed, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, admin.ID, *resolved.ResolvedBy)

	assert.ErrorIs(t, repo.Resolve(ctx, "missing", models.ReportStatusResolved, admin.ID, time.Now()), ErrReportNotFound)
}
