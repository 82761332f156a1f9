package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/application/history"
	"github.com/jhoicas/cotizador-api/internal/domain/entity"
)

type stubRepo struct {
	records []entity.HistoryRecord
	err     error
}

func (s *stubRepo) Append(_ context.Context, r entity.HistoryRecord) error {
	s.records = append(s.records, r)
	return nil
}

func (s *stubRepo) ListAll(_ context.Context) ([]entity.HistoryRecord, error) {
	return s.records, s.err
}

type stubSheet struct{ got []entity.HistoryRecord }

func (s *stubSheet) BuildHistoryXLSX(records []entity.HistoryRecord) ([]byte, error) {
	s.got = records
	return []byte("xlsx"), nil
}

func TestListAll_FormateaTotalesYConservaOrden(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	repo := &stubRepo{}
	_ = repo.Append(context.Background(), entity.NewHistoryRecord("HYQ-26001", "Acme", 165000, at))
	_ = repo.Append(context.Background(), entity.NewHistoryRecord("HYQ-26002", "Beta", 1234567, at.Add(time.Minute)))

	out, err := history.NewUseCase(repo, nil).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "HYQ-26001", out[0].DocumentNumber)
	assert.Equal(t, "165,000", out[0].TotalAmount)
	assert.Equal(t, "2026-10-19 09:00:00", out[0].CreatedAt)

	last := out[1]
	assert.Equal(t, "HYQ-26002", last.DocumentNumber, "el último agregado va al final")
	assert.Equal(t, "1,234,567", last.TotalAmount)
	assert.Equal(t, string(entity.EngagementNotEngaged), last.EngagementStatus)
	assert.Equal(t, "미수임", last.EngagementLabel)
}

func TestListAll_FechaIlegibleMuestraTextoOriginal(t *testing.T) {
	repo := &stubRepo{records: []entity.HistoryRecord{
		{DocumentNumber: "HYQ-25009", CreatedAtRaw: "3월 4일 오전", CompanyName: "Acme", TotalAmount: 165000},
	}}

	out, err := history.NewUseCase(repo, nil).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "3월 4일 오전", out[0].CreatedAt)
}

func TestListAll_AlmacenVacio(t *testing.T) {
	out, err := history.NewUseCase(&stubRepo{}, nil).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestListAll_PropagaErrorDeLectura(t *testing.T) {
	_, err := history.NewUseCase(&stubRepo{err: errors.New("io")}, nil).ListAll(context.Background())
	assert.Error(t, err)
}

func TestExportXLSX_UsaTodosLosRegistros(t *testing.T) {
	repo := &stubRepo{records: []entity.HistoryRecord{{DocumentNumber: "A"}, {DocumentNumber: "B"}}}
	sheet := &stubSheet{}

	data, err := history.NewUseCase(repo, sheet).ExportXLSX(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Len(t, sheet.got, 2)
}
