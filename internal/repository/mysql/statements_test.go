package mysql

import (
	"context"
	"storefront-service/internal/repository"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm builds, with values inlined and
// identifier quoting removed.
type sqlRecorder struct {
	mu   sync.Mutex
	stmt []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmt = append(r.stmt, strings.ReplaceAll(sql, "`", ""))
}

func (r *sqlRecorder) statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stmt...)
}

// newDryRunDB builds statements with the MySQL dialect without a server.
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "shop:shop@tcp(127.0.0.1:3306)/shop?charset=utf8mb4&parseTime=True&loc=Local",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestCartRepository_IncrementIsSingleUpsert(t *testing.T) {
	db, rec := newDryRunDB(t)

	require.NoError(t, NewCartRepository(db).Increment(context.Background(), 1, 7))

	stmts := rec.statements()
	require.Len(t, stmts, 1)
	assert.True(t, strings.HasPrefix(stmts[0], "INSERT INTO cart_items (user_id,product_id,quantity) VALUES (1,7,1)"), stmts[0])
	assert.True(t, strings.HasSuffix(stmts[0], "ON DUPLICATE KEY UPDATE quantity=quantity + 1"), stmts[0])
}

func TestUserRepository_LockStrength(t *testing.T) {
	tests := []struct {
		mode   repository.LockMode
		suffix string
	}{
		{mode: repository.LockShared, suffix: " FOR SHARE"},
		{mode: repository.LockExclusive, suffix: " FOR UPDATE"},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.suffix), func(t *testing.T) {
			db, rec := newDryRunDB(t)

			_, err := NewUserRepository(db).Lock(context.Background(), 1, tt.mode)
			require.NoError(t, err)

			stmts := rec.statements()
			require.Len(t, stmts, 1)
			assert.True(t, strings.HasPrefix(stmts[0], "SELECT id FROM users WHERE users.id = 1"), stmts[0])
			assert.True(t, strings.HasSuffix(stmts[0], tt.suffix), stmts[0])
		})
	}
}

func TestCartRepository_ListForUpdateLocksLines(t *testing.T) {
	db, rec := newDryRunDB(t)

	_, err := NewCartRepository(db).ListForUpdate(context.Background(), 1)
	require.NoError(t, err)

	stmts := rec.statements()
	require.NotEmpty(t, stmts)
	assert.Equal(t, "SELECT * FROM cart_items WHERE user_id = 1 ORDER BY id FOR UPDATE", stmts[0])
}

func TestCartRepository_DeleteLinesIsScopedToUser(t *testing.T) {
	db, rec := newDryRunDB(t)
	carts := NewCartRepository(db)

	_, err := carts.DeleteLines(context.Background(), 1, []uint64{3, 4})
	require.NoError(t, err)

	n, err := carts.DeleteLines(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{"DELETE FROM cart_items WHERE user_id = 1 AND id IN (3,4)"}, rec.statements())
}

func TestCategoryRepository_GetOrCreateUpsertsThenLocks(t *testing.T) {
	db, rec := newDryRunDB(t)

	_, err := NewCategoryRepository(db).GetOrCreate(context.Background(), "Snacks")
	require.NoError(t, err)

	stmts := rec.statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, "INSERT INTO categories (name) VALUES ('Snacks') ON DUPLICATE KEY UPDATE id=id", stmts[0])
	assert.Contains(t, stmts[1], "FROM categories WHERE name = 'Snacks'")
	assert.True(t, strings.HasSuffix(stmts[1], " FOR SHARE"), stmts[1])
}

func TestOrderRepository_DetachProductKeepsItems(t *testing.T) {
	db, rec := newDryRunDB(t)

	require.NoError(t, NewOrderRepository(db).DetachProduct(context.Background(), 5))

	stmts := rec.statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, "UPDATE order_items SET product_id=NULL WHERE product_id = 5", stmts[0])
}
