package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
)

func TestParseEndDate(t *testing.T) {
	t.Run("empty string means open-ended", func(t *testing.T) {
		end, err := domain.ParseEndDate("")
		require.NoError(t, err)
		assert.Nil(t, end)
	})

	t.Run("sentinel means open-ended", func(t *testing.T) {
		end, err := domain.ParseEndDate("9999-12-31")
		require.NoError(t, err)
		assert.Nil(t, end)
	})

	t.Run("real date parses", func(t *testing.T) {
		end, err := domain.ParseEndDate("2021-01-01")
		require.NoError(t, err)
		require.NotNil(t, end)
		assert.Equal(t, 2021, end.Year())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := domain.ParseEndDate("not-a-date")
		assert.Error(t, err)
	})
}

func TestFormatEndDate(t *testing.T) {
	t.Run("nil renders the sentinel", func(t *testing.T) {
		assert.Equal(t, "9999-12-31", domain.FormatEndDate(nil))
	})

	t.Run("real date renders as ISO date", func(t *testing.T) {
		d := time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2021-06-30", domain.FormatEndDate(&d))
	})
}

func TestTenureKeys(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	a := &domain.Assignment{EmpNo: 1001, DeptNo: 3, FromDate: from}
	assert.Equal(t, "3", a.Key())

	m := &domain.ManagerTenure{EmpNo: 1001, DeptNo: 3, FromDate: from}
	assert.Equal(t, "1001", m.Key())

	tt := &domain.TitleTenure{EmpNo: 1001, Title: "Engineer", FromDate: from}
	assert.Equal(t, "Engineer|2020-01-01", tt.Key())

	s := &domain.SalaryTenure{EmpNo: 1001, AmountCents: 800000, FromDate: from}
	assert.Equal(t, "2020-01-01", s.Key())
}

func TestTenureActive(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	open := &domain.Assignment{FromDate: past}
	assert.True(t, open.Active(now))

	ended := &domain.Assignment{FromDate: past, ToDate: &past}
	assert.False(t, ended.Active(now))

	endsLater := &domain.Assignment{FromDate: past, ToDate: &future}
	assert.True(t, endsLater.Active(now))
}
