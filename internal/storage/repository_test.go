package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/query"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func companyRow(id int64, name, ticker string) []driver.Value {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{id, name, ticker, "Banking", nil, nil, nil, nil, nil, now, now, nil, nil}
}

func TestCompanyRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)

	plan, err := query.Build(query.Companies, query.Params{Industry: "Banking", Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM companies WHERE industry = $1")).
		WithArgs("Banking").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT id, name, ticker, .* FROM companies WHERE industry = \$1 ORDER BY name ASC, id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("Banking", 2, 0).
		WillReturnRows(sqlmock.NewRows(CompanyColumns).
			AddRow(companyRow(1, "Abay Bank", "ABAY")...).
			AddRow(companyRow(2, "Dashen Bank", "DASH")...))

	out, total, err := repo.List(context.Background(), plan)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(out) != 2 || out[1].Ticker != "DASH" || out[0].Sector != nil {
		t.Fatalf("unexpected result total=%d out=%+v", total, out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompanyRepository_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)

	mock.ExpectQuery(`SELECT .* FROM companies WHERE id = \$1$`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(CompanyColumns))

	c, err := repo.Get(context.Background(), 9)
	if err != nil || c != nil {
		t.Fatalf("want nil,nil got %+v %v", c, err)
	}
}

func TestCompanyRepository_GetForUpdateLocks(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)

	mock.ExpectQuery(`SELECT .* FROM companies WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(CompanyColumns).AddRow(companyRow(1, "Abay Bank", "ABAY")...))

	c, err := repo.GetForUpdate(context.Background(), 1)
	if err != nil || c == nil || c.Name != "Abay Bank" {
		t.Fatalf("unexpected %+v %v", c, err)
	}
}

func TestCompanyRepository_CreateAndDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)
	uid := int64(5)
	now := time.Now()

	c := &models.Company{Name: "Awash Bank", Ticker: "AWSH", Industry: "Banking", CreatedBy: &uid}
	mock.ExpectQuery(`INSERT INTO companies \(name, ticker`).
		WithArgs("Awash Bank", "AWSH", "Banking", nil, nil, nil, nil, nil, uid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 11 {
		t.Fatalf("id not set: %d", c.ID)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM companies WHERE id = $1")).
		WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.Delete(context.Background(), 11)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM companies WHERE id = $1")).
		WithArgs(int64(12)).WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.Delete(context.Background(), 12)
	if err != nil || ok {
		t.Fatalf("Delete missing: ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompanyRepository_UpsertWithExplicitID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)
	now := time.Now()

	c := &models.Company{ID: 4, Name: "Zemen Bank", Ticker: "ZEMN", Industry: "Banking"}
	mock.ExpectQuery(`INSERT INTO companies \(id, name.*ON CONFLICT \(ticker\) DO UPDATE`).
		WithArgs(int64(4), "Zemen Bank", "ZEMN", "Banking", nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(4, now, now, true))

	inserted, err := repo.Upsert(context.Background(), c)
	if err != nil || !inserted {
		t.Fatalf("Upsert: inserted=%v err=%v", inserted, err)
	}
}

func TestFinancialRepository_CreateBindsEveryMetric(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFinancialRepository(db)
	rev := 100.0
	f := &models.Financial{CompanyID: 1, Year: 2023, Period: "Annual", Revenue: &rev}

	args := make([]driver.Value, 0, len(financialWriteColumns))
	args = append(args, int64(1), 2023, "Annual", rev)
	for range models.FinancialMetricColumns[1:] {
		args = append(args, nil)
	}
	args = append(args, nil, nil)

	mock.ExpectQuery(`INSERT INTO financials \(company_id, year, period, revenue, .*\) VALUES \(\$1, .*\$34\) RETURNING id`).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, time.Now(), time.Now()))

	if err := repo.Create(context.Background(), f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.ID != 3 {
		t.Fatalf("id = %d", f.ID)
	}
}

func TestFinancialRepository_LatestScansNulls(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFinancialRepository(db)

	row := []driver.Value{int64(1), int64(2), 2023, "Q4"}
	for i := range models.FinancialMetricColumns {
		if i == 0 {
			row = append(row, 0.0) // revenue reported as zero
			continue
		}
		row = append(row, nil)
	}
	now := time.Now()
	row = append(row, now, now, nil, nil)

	mock.ExpectQuery(`FROM financials WHERE company_id = \$1\s+ORDER BY year DESC`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(FinancialColumns).AddRow(row...))

	f, err := repo.Latest(context.Background(), 2)
	if err != nil || f == nil {
		t.Fatalf("Latest: %+v %v", f, err)
	}
	if f.Revenue == nil || *f.Revenue != 0 {
		t.Fatalf("zero revenue must survive as 0, got %v", f.Revenue)
	}
	if f.NetIncome != nil {
		t.Fatalf("null net income must stay nil")
	}
}

func TestFinancialRepository_LatestAnnual(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFinancialRepository(db)

	mock.ExpectQuery(`FROM financials WHERE company_id = \$1 AND period = 'Annual' ORDER BY year DESC LIMIT 1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(FinancialColumns))

	f, err := repo.LatestAnnual(context.Background(), 2)
	if err != nil || f != nil {
		t.Fatalf("LatestAnnual without rows: %+v %v", f, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStockRepository_BulkUpsert(t *testing.T) {
	db, mock := newMock(t)
	close1, close2 := 10.0, 11.0
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE IF NOT EXISTS stocks_staging`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`TRUNCATE stocks_staging`).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(`COPY "stocks_staging"`)
	prep.ExpectExec().WithArgs(int64(1), d1, nil, nil, nil, close1, nil).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(int64(1), d2, nil, nil, nil, close2, nil).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	prep.WillBeClosed()
	mock.ExpectExec(`INSERT INTO stocks .* FROM stocks_staging .* ON CONFLICT \(company_id, date\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	runner := NewTxRunner(db)
	var n int64
	err := runner.Run(context.Background(), func(_ DBTX, repos Repos) error {
		var err error
		n, err = repos.Stocks.BulkUpsert(context.Background(), []models.Stock{
			{CompanyID: 1, Date: d1, Close: &close1},
			{CompanyID: 1, Date: d2, Close: &close2},
		})
		return err
	})
	if err != nil || n != 2 {
		t.Fatalf("BulkUpsert n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("audit failed")
	err := NewTxRunner(db).Run(context.Background(), func(DBTX, Repos) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithSavepoint(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("SAVEPOINT record").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT record").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT record").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT record").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := WithSavepoint(ctx, db, func() error { return nil }); err != nil {
		t.Fatalf("ok path: %v", err)
	}
	bad := errors.New("duplicate")
	if err := WithSavepoint(ctx, db, func() error { return bad }); !errors.Is(err, bad) {
		t.Fatalf("want duplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMacroRepository_StatsRejectsUnknownColumn(t *testing.T) {
	db, _ := newMock(t)
	if _, err := NewMacroRepository(db).Stats(context.Background(), nil, nil, []string{"gdp_growth; DROP"}); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestMacroRepository_Stats(t *testing.T) {
	db, mock := newMock(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), MIN(date), MAX(date), AVG(gdp_growth), MIN(gdp_growth), MAX(gdp_growth) FROM macro_indicators WHERE date >= $1")).
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"c", "a", "b", "avg", "min", "max"}).AddRow(2, from, from.AddDate(0, 1, 0), 6.0, 5.5, 6.5))

	st, err := NewMacroRepository(db).Stats(context.Background(), &from, nil, []string{"gdp_growth"})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	g := st.Columns["gdp_growth"]
	if st.Records != 2 || g.Average == nil || *g.Max != 6.5 {
		t.Fatalf("unexpected stats %+v %+v", st, g)
	}
}

func TestAuditRepository_Insert(t *testing.T) {
	db, mock := newMock(t)
	a := &models.CompanyAudit{CompanyID: 3, Action: models.AuditDelete, Details: []byte(`{"snapshot":{}}`)}
	mock.ExpectQuery(`INSERT INTO company_audit`).
		WithArgs(int64(3), "DELETE", nil, []byte(`{"snapshot":{}}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, time.Now()))
	if err := NewAuditRepository(db).Insert(context.Background(), a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3, 3); got != "$3, $4, $5" {
		t.Fatalf("got %q", got)
	}
}
