package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testLedgerFileName = "ledger.db"

func TestPrepareSQLiteDataSource(testingT *testing.T) {
	testCases := []struct {
		name              string
		dataSourceName    func(root string) string
		expectedName      func(root string) string
		createdDirectory  func(root string) string
		absentDirectory   func(root string) string
		expectedRootError error
	}{
		{
			name:             "nested plain path",
			dataSourceName:   func(root string) string { return "  " + filepath.Join(root, "state", "areagen", testLedgerFileName) + "\n" },
			expectedName:     func(root string) string { return filepath.Join(root, "state", "areagen", testLedgerFileName) },
			createdDirectory: func(root string) string { return filepath.Join(root, "state", "areagen") },
		},
		{
			name:            "file uri",
			dataSourceName:  func(root string) string { return "file:" + filepath.Join(root, "uri", testLedgerFileName) + "?mode=rwc" },
			expectedName:    func(root string) string { return "file:" + filepath.Join(root, "uri", testLedgerFileName) + "?mode=rwc" },
			absentDirectory: func(root string) string { return filepath.Join(root, "uri") },
		},
		{
			name:           "in-memory database",
			dataSourceName: func(string) string { return " :memory: " },
			expectedName:   func(string) string { return sqliteMemoryDatabase },
		},
		{
			name:              "blank path",
			dataSourceName:    func(string) string { return " \t " },
			expectedRootError: ErrMissingDataSourceName,
		},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			root := testingT.TempDir()

			prepared, prepareErr := prepareSQLiteDataSource(testCase.dataSourceName(root))
			if testCase.expectedRootError != nil {
				require.ErrorIs(testingT, prepareErr, testCase.expectedRootError)
				return
			}
			require.NoError(testingT, prepareErr)
			require.Equal(testingT, testCase.expectedName(root), prepared)
			if testCase.createdDirectory != nil {
				require.DirExists(testingT, testCase.createdDirectory(root))
			}
			if testCase.absentDirectory != nil {
				require.NoDirExists(testingT, testCase.absentDirectory(root))
			}
		})
	}
}

func TestPrepareSQLiteDataSourceReportsBlockedDirectory(testingT *testing.T) {
	root := testingT.TempDir()
	blocker := filepath.Join(root, "state")
	require.NoError(testingT, os.WriteFile(blocker, []byte("not a directory"), 0o600))

	_, prepareErr := prepareSQLiteDataSource(filepath.Join(blocker, testLedgerFileName))
	require.Error(testingT, prepareErr)
	require.Contains(testingT, prepareErr.Error(), "create ledger directory")
}

func TestOpenLedgerTrimsAndCreatesNestedPath(testingT *testing.T) {
	ledgerPath := filepath.Join(testingT.TempDir(), "a", "b", testLedgerFileName)

	ledger, openErr := OpenLedger("  " + ledgerPath + "  ")
	require.NoError(testingT, openErr)
	require.NoError(testingT, ledger.Close())
	require.FileExists(testingT, ledgerPath)
}
