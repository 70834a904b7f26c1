package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLocale(t *testing.T) {
	l, ok := ParseLocale(" RU ")
	require.True(t, ok)
	require.Equal(t, LocaleRU, l)

	_, ok = ParseLocale("de")
	require.False(t, ok)
}

func TestLocale_OrDefault(t *testing.T) {
	require.Equal(t, LocaleRU, LocaleRU.OrDefault())
	require.Equal(t, DefaultLocale, Locale("").OrDefault())
	require.Equal(t, DefaultLocale, Locale("xx").OrDefault())
}

func TestVacancyFilter_Values(t *testing.T) {
	remote := true
	f := VacancyFilter{
		Search:         "go developer",
		EmploymentType: EmploymentFullTime,
		Remote:         &remote,
		SalaryMin:      1000,
		Page:           2,
		Limit:          20,
	}

	require.Equal(t,
		"employmentType=full_time&limit=20&page=2&remote=true&salaryMin=1000&search=go+developer",
		f.Values().Encode())
}

func TestVacancyFilter_ZeroValueIsEmpty(t *testing.T) {
	require.Empty(t, VacancyFilter{}.Values().Encode())
}

func TestLoadAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	a, err := LoadAttachment(path)
	require.NoError(t, err)
	require.Equal(t, "cv.pdf", a.FileName)
	require.Equal(t, []byte("%PDF-1.4"), a.Content)

	_, err = LoadAttachment(filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorContains(t, err, "error reading attachment")
}
