package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/domain/entity"
	"github.com/jhoicas/cotizador-api/internal/infrastructure/sqlite"
)

func openRepo(t *testing.T) *sqlite.HistoryRepo {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewHistoryRepository(db)
}

func TestListAll_BaseNuevaVacia(t *testing.T) {
	out, err := openRepo(t).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAppend_OrdenDeInsercionYEstadoPorDefecto(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 19, 10, 30, 0, 0, time.Local)

	require.NoError(t, repo.Append(ctx, entity.NewHistoryRecord("HYQ-26001", "Acme", 165000, at)))
	require.NoError(t, repo.Append(ctx, entity.HistoryRecord{DocumentNumber: "HYQ-26002", CompanyName: "Beta", TotalAmount: 1234567, CreatedAt: at}))

	out, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "HYQ-26001", out[0].DocumentNumber)
	assert.Equal(t, "HYQ-26002", out[1].DocumentNumber)
	assert.Equal(t, int64(1234567), out[1].TotalAmount)
	assert.Equal(t, entity.EngagementNotEngaged, out[1].EngagementStatus, "estado vacío se guarda como NOT_ENGAGED")
	assert.True(t, at.Equal(out[0].CreatedAt))
}

func TestAppend_FechaIlegibleSeGuardaComoTexto(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, entity.HistoryRecord{DocumentNumber: "HYQ-25009", CreatedAtRaw: "3월 4일 오전", CompanyName: "Acme", TotalAmount: 1}))

	out, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].CreatedAt.IsZero())
	assert.Equal(t, "3월 4일 오전", out[0].CreatedAtRaw)
	assert.NotContains(t, out[0].CreatedAtText(), "0001")
}

func TestAppend_Concurrente(t *testing.T) {
	repo := openRepo(t)
	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(context.Background(),
				entity.NewHistoryRecord(fmt.Sprintf("D-%d", i), "X", int64(i), time.Now())))
		}(i)
	}
	wg.Wait()

	out, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, n)
}

func TestRunHistory_RollbackSiFalla(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = sqlite.RunHistory(ctx, db, func(repo *sqlite.HistoryRepo) error {
		if err := repo.Append(ctx, entity.NewHistoryRecord("HYQ-26001", "Acme", 1, time.Now())); err != nil {
			return err
		}
		return fmt.Errorf("fallo a mitad de la migración")
	})
	require.Error(t, err)

	out, err := sqlite.NewHistoryRepository(db).ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}
