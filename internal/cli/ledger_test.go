package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bikepark/internal/config"
	"github.com/example/bikepark/internal/errs"
)

// setupLedgerEnv points bikepark at a scratch directory for the test.
func setupLedgerEnv(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("BIKEPARK_DB_PATH", filepath.Join(dir, "bikepark.db"))
	t.Setenv("BIKEPARK_ARCHIVE_DIR", "")
	t.Setenv("BIKEPARK_ADMIN_SECRET", "Bicicletable1.5")
	t.Setenv("BIKEPARK_TIMEZONE", "UTC")
	t.Setenv("BIKEPARK_LOG_LEVEL", "error")
	return dir
}

func runCmd(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "bikepark", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(InitCmd(), CheckInCmd(), CheckOutCmd(), ShowCmd(), FindCmd(),
		ListCmd(), PendingCmd(), ArchiveCmd(), RestoreCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestCommands_CheckInAndOut(t *testing.T) {
	setupLedgerEnv(t)

	out, err := runCmd(t, "", "checkin", "Ana", "Silva", "red", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Checked in stay 1: Ana Silva, red bike in box 12")

	out, err = runCmd(t, "", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "1 bike(s) pending checkout")

	out, err = runCmd(t, "", "checkout", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Checked out stay 1 (box 12)")

	out, err = runCmd(t, "", "checkout", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Stay 1 was already checked out")

	out, err = runCmd(t, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:        Ana Silva")
	assert.NotContains(t, out, "PENDING")

	out, err = runCmd(t, "", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "No bikes pending checkout")
}

func TestCommands_CheckInRejectsBadBox(t *testing.T) {
	setupLedgerEnv(t)

	_, err := runCmd(t, "", "checkin", "Ana", "Silva", "red", "twelve")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrValidation))

	out, err := runCmd(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stays found")
}

func TestCommands_FindResolve(t *testing.T) {
	setupLedgerEnv(t)

	_, err := runCmd(t, "", "checkin", "Ana", "Silva", "red", "12")
	require.NoError(t, err)
	_, err = runCmd(t, "", "checkin", "ANA", "SILVA", "red", "4")
	require.NoError(t, err)

	out, err := runCmd(t, "n\ny\n", "find", "ana", "silva", "--resolve")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "[y/N]"))

	out, err = runCmd(t, "", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "1 bike(s) pending checkout")
	assert.Contains(t, out, "Ana Silva")
	assert.NotContains(t, out, "ANA SILVA")
}

func TestCommands_ListByDate(t *testing.T) {
	setupLedgerEnv(t)

	_, err := runCmd(t, "", "checkin", "Ana", "Silva", "red", "12")
	require.NoError(t, err)

	out, err := runCmd(t, "", "list", "--date", "01-01-2001")
	require.NoError(t, err)
	assert.Contains(t, out, "No stays checked in on 01-01-2001")

	_, err = runCmd(t, "", "list", "--date", "yesterday")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestCommands_ArchiveAndRestore(t *testing.T) {
	dir := setupLedgerEnv(t)

	_, err := runCmd(t, "", "checkin", "Ana", "Silva", "red", "12")
	require.NoError(t, err)
	_, err = runCmd(t, "", "checkin", "Bruno", "Costa", "blue", "3")
	require.NoError(t, err)

	_, err = runCmd(t, "", "archive", "--secret", "wrong")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrPermissionDenied))

	// Secret read from the prompt.
	out, err := runCmd(t, "Bicicletable1.5\n", "archive")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin secret: ")
	assert.Contains(t, out, "✓ Archived 2 stay(s)")

	entries, err := os.ReadDir(filepath.Join(dir, config.ArchiveDirName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	archive := filepath.Join(dir, config.ArchiveDirName, entries[0].Name())

	out, err = runCmd(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stays found")

	restored := filepath.Join(dir, "restored.db")
	out, err = runCmd(t, "", "restore", archive, "--into", restored)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Restored 2 stay(s)")

	_, err = runCmd(t, "", "restore", archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--into is required")
}

func TestInitCmd_WritesEnv(t *testing.T) {
	dir := setupLedgerEnv(t)
	dbPath := filepath.Join(dir, "data", "ledger.db")

	out, err := runCmd(t, "", "init", "--db", dbPath, "--secret", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Database ready at "+dbPath)

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	env, err := os.ReadFile(filepath.Join(dir, config.EnvFileName))
	require.NoError(t, err)
	assert.Contains(t, string(env), `BIKEPARK_ADMIN_SECRET="s3cret"`)
	assert.Contains(t, string(env), filepath.Join(dir, "data", config.ArchiveDirName))

	_, err = runCmd(t, "", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
