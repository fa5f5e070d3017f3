package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

func TestExportService_Macro(t *testing.T) {
	f := newFixture()
	f.macro.rows = []models.MacroIndicators{{Date: day("2024-06-30"), GDPGrowth: fp(7.2)}}
	svc := NewExportService(f.deps, 0)

	table, err := svc.Macro(context.Background(), query.Params{}, []string{"gdp_growth"})
	require.NoError(t, err)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "Date", table.Columns[0].Label)
	assert.Equal(t, "GDP Growth", table.Columns[1].Label)
	assert.Len(t, table.Rows, 1)

	_, err = svc.Macro(context.Background(), query.Params{}, []string{"gdp_growth", "nope"})
	ae := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "Invalid column(s): nope", ae.Message)

	table, err = svc.Macro(context.Background(), query.Params{}, []string{"date", "gdp_growth"})
	require.NoError(t, err)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "Date", table.Columns[0].Label)
	assert.Equal(t, "GDP Growth", table.Columns[1].Label)
}

func TestExportService_Financials_UnknownCompany(t *testing.T) {
	_, err := NewExportService(newFixture().deps, 10).Financials(context.Background(), 3, query.Params{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestExportService_Companies(t *testing.T) {
	f := newFixture(bank)
	table, err := NewExportService(f.deps, 10).Companies(context.Background(), query.Params{})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "Companies", table.Sheet)
}
