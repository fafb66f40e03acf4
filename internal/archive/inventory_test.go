package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestFindYearlyFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "era5_surface_gb_2016.nc")
	touch(t, dir, "era5_surface_gb_2017.nc")
	touch(t, dir, "era5_surface_gb_2018-03.nc") // monthly, not yearly

	path, ok, err := FindYearlyFile(dir, 2016)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "era5_surface_gb_2016.nc"), path)

	_, ok, err = FindYearlyFile(dir, 2018)
	require.NoError(t, err)
	assert.False(t, ok)
}

// The literal four-digit year must match: no substring leakage from longer
// digit runs or other years.
func TestFindYearlyFile_LiteralYearOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "era5_surface_gb_12016.nc")
	touch(t, dir, "era5_surface_gb_2016_backup.nc")

	_, ok, err := FindYearlyFile(dir, 2016)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = FindYearlyFile(dir, 1201)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindMonthlyFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"era5_surface_gb_2016-03.nc",
		"era5_surface_gb_2016-01.nc",
		"era5_surface_gb_2016-12.nc",
		"era5_surface_gb_2017-01.nc",
		"era5_surface_gb_2016.nc", // yearly, must not match
	} {
		touch(t, dir, name)
	}

	paths, err := FindMonthlyFiles(dir, 2016)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "era5_surface_gb_2016-01.nc"), paths[0])
	assert.Equal(t, filepath.Join(dir, "era5_surface_gb_2016-12.nc"), paths[2])
}

func TestFindMonthlyFiles_Empty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt")

	paths, err := FindMonthlyFiles(dir, 2016)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestListAvailableYears(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "era5_surface_gb_2017-01.nc")
	touch(t, dir, "era5_surface_gb_2016.nc")
	touch(t, dir, "era5_surface_gb_2017-02.nc")
	touch(t, dir, "notes.md")

	years, err := ListAvailableYears(dir)
	require.NoError(t, err)
	assert.Equal(t, []int{2016, 2017}, years)
}

func TestFindYearlyFile_MissingDir(t *testing.T) {
	_, _, err := FindYearlyFile(filepath.Join(t.TempDir(), "nope"), 2016)
	assert.Error(t, err)
}
