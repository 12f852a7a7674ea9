package pgstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"circulation/internal/store"
	"circulation/pkg/db/postgres"
	"circulation/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder collects every statement gorm builds.
type sqlRecorder struct {
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statements...)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	stmts := r.all()
	require.NotEmpty(t, stmts, "no statement was built")
	return stmts[len(stmts)-1]
}

// newDryRunStore builds statements without a server; DryRun skips execution
// and DisableAutomaticPing skips the connection check.
func newDryRunStore(t *testing.T) (*Store, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN: "host=localhost user=circulation dbname=circulation sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return New(db), rec
}

const (
	queryAssetID = "0b7f5c8e-4b0e-4a47-9d47-2fd0f3f5a001"
	queryHoldID  = "0b7f5c8e-4b0e-4a47-9d47-2fd0f3f5a0ff"
)

func TestHoldQueueOrdering(t *testing.T) {
	st, rec := newDryRunStore(t)

	holds, err := st.Holds().ListByAsset(context.Background(), queryAssetID)
	require.NoError(t, err)
	assert.Empty(t, holds)

	sql := rec.last(t)
	assert.Contains(t, sql, `FROM "holds"`)
	assert.Contains(t, sql, "asset_id = '"+queryAssetID+"'")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY placed ASC, id ASC"), sql)
}

func TestAssetLockedForUpdate(t *testing.T) {
	st, rec := newDryRunStore(t)

	_, err := st.Assets().FindForUpdate(context.Background(), queryAssetID)
	require.NoError(t, err)

	sql := rec.last(t)
	assert.Contains(t, sql, `FROM "library_assets"`)
	assert.Contains(t, sql, "id = '"+queryAssetID+"'")
	assert.True(t, strings.HasSuffix(sql, "FOR UPDATE"), sql)
}

func TestCheckoutLedgerStatements(t *testing.T) {
	ctx := context.Background()
	checkedIn := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		run  func(st *Store) error
		want []string
	}{
		{
			name: "close open history",
			run: func(st *Store) error {
				_, err := st.Checkouts().CloseOpenHistory(ctx, queryAssetID, checkedIn)
				return err
			},
			want: []string{`UPDATE "checkout_histories" SET "checked_in"=`, "WHERE asset_id = '" + queryAssetID + "' AND checked_in IS NULL"},
		},
		{
			name: "latest checkout",
			run: func(st *Store) error {
				_, err := st.Checkouts().LatestByAsset(ctx, queryAssetID)
				return err
			},
			want: []string{`FROM "checkouts"`, "ORDER BY since DESC"},
		},
		{
			name: "history newest first",
			run: func(st *Store) error {
				_, err := st.Checkouts().ListHistory(ctx, queryAssetID)
				return err
			},
			want: []string{`FROM "checkout_histories"`, "ORDER BY checked_out DESC, id DESC"},
		},
		{
			name: "delete active checkout",
			run: func(st *Store) error {
				_, err := st.Checkouts().DeleteByAsset(ctx, queryAssetID)
				return err
			},
			want: []string{`DELETE FROM "checkouts" WHERE asset_id = '` + queryAssetID + "'"},
		},
		{
			name: "create checkout",
			run: func(st *Store) error {
				return st.Checkouts().Create(ctx, model.NewCheckout(queryAssetID, "card-1", checkedIn))
			},
			want: []string{`INSERT INTO "checkouts"`, queryAssetID},
		},
		{
			name: "create open history",
			run: func(st *Store) error {
				return st.Checkouts().CreateHistory(ctx, model.NewCheckoutHistory(queryAssetID, "card-1", checkedIn))
			},
			want: []string{`INSERT INTO "checkout_histories"`, "NULL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, rec := newDryRunStore(t)
			require.NoError(t, tt.run(st))

			sql := rec.last(t)
			for _, fragment := range tt.want {
				assert.Contains(t, sql, fragment)
			}
		})
	}
}

func TestMalformedIDsIssueNoStatementInTransaction(t *testing.T) {
	st, rec := newDryRunStore(t)
	ctx := postgres.WithTx(context.Background(), st.db)

	_, err := st.Assets().FindForUpdate(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Holds().FindByID(ctx, "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, store.ErrNotFound)

	holds, err := st.Holds().ListByAsset(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, holds)

	exists, err := st.Checkouts().ExistsForAsset(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, exists)

	closed, err := st.Checkouts().CloseOpenHistory(ctx, "not-a-uuid", time.Now())
	require.NoError(t, err)
	assert.False(t, closed)

	assert.Empty(t, rec.all(), "a malformed id must not reach postgres inside a transaction")

	_, err = st.Holds().FindByID(ctx, queryHoldID)
	require.NoError(t, err)
	assert.Len(t, rec.all(), 1)
}

func TestOpenHistoryIndexIsPartial(t *testing.T) {
	assert.Contains(t, openHistoryIndex, "CREATE UNIQUE INDEX")
	assert.Contains(t, openHistoryIndex, checkoutHistoryTable+" (asset_id)")
	assert.True(t, strings.HasSuffix(openHistoryIndex, "WHERE checked_in IS NULL"))
}
