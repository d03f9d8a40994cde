package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/storage"
	"github.com/MarkoPoloResearchLab/areaconfig/internal/testutil"
)

const (
	testOtherAreaIDValue       = "kapra"
	testOtherArtifactPathValue = "elsewhere/dammaiguda.yaml"
)

func newTestLedger(testingT *testing.T) *storage.Ledger {
	testingT.Helper()
	database := testutil.NewSQLiteTestDatabase(testingT).OpenMigratedDatabase(testingT)

	ledger, ledgerErr := storage.NewLedger(database)
	require.NoError(testingT, ledgerErr)
	return ledger
}

func newTestRecord(testingT *testing.T, areaID string, artifactPath string) model.GenerationRecord {
	testingT.Helper()
	record, err := model.NewGenerationRecord(model.GenerationRecordInput{
		AreaID:       areaID,
		ArtifactPath: artifactPath,
		Format:       model.ArtifactFormatJSON,
		Checksum:     testChecksumValue,
	})
	require.NoError(testingT, err)
	return record
}

func TestLedgerEnforcesGlobalAreaUniqueness(testingT *testing.T) {
	ledger := newTestLedger(testingT)
	ctx := context.Background()

	require.NoError(testingT, ledger.EnsureAvailable(ctx, testAreaIDValue, testArtifactPathValue))
	require.NoError(testingT, ledger.Record(ctx, newTestRecord(testingT, testAreaIDValue, testArtifactPathValue)))

	require.NoError(testingT, ledger.EnsureAvailable(ctx, testAreaIDValue, testArtifactPathValue))
	require.NoError(testingT, ledger.EnsureAvailable(ctx, testOtherAreaIDValue, testOtherArtifactPathValue))
	require.ErrorIs(testingT, ledger.EnsureAvailable(ctx, testAreaIDValue, testOtherArtifactPathValue), storage.ErrAreaAlreadyGenerated)
}

func TestLedgerHistory(testingT *testing.T) {
	ledger := newTestLedger(testingT)
	ctx := context.Background()

	require.NoError(testingT, ledger.Record(ctx, newTestRecord(testingT, testAreaIDValue, testArtifactPathValue)))
	require.NoError(testingT, ledger.Record(ctx, newTestRecord(testingT, testOtherAreaIDValue, "out/kapra.json")))
	require.NoError(testingT, ledger.Record(ctx, newTestRecord(testingT, testAreaIDValue, testArtifactPathValue)))

	all, err := ledger.History(ctx, "")
	require.NoError(testingT, err)
	require.Len(testingT, all, 3)

	filtered, err := ledger.History(ctx, testAreaIDValue)
	require.NoError(testingT, err)
	require.Len(testingT, filtered, 2)
	for _, record := range filtered {
		require.Equal(testingT, testAreaIDValue, record.AreaID)
	}
}

func TestOpenLedgerCreatesDatabaseFile(testingT *testing.T) {
	ledgerPath := filepath.Join(testingT.TempDir(), "state", "ledger.db")

	ledger, err := storage.OpenLedger(ledgerPath)
	require.NoError(testingT, err)
	testingT.Cleanup(func() { _ = ledger.Close() })

	require.NoError(testingT, ledger.Record(context.Background(), newTestRecord(testingT, testAreaIDValue, testArtifactPathValue)))
	records, historyErr := ledger.History(context.Background(), testAreaIDValue)
	require.NoError(testingT, historyErr)
	require.Len(testingT, records, 1)
	require.FileExists(testingT, ledgerPath)
}

func TestLedgerRequiresDatabase(testingT *testing.T) {
	_, err := storage.NewLedger(nil)
	require.ErrorIs(testingT, err, storage.ErrMissingLedgerDatabase)

	_, openErr := storage.OpenLedger("  ")
	require.ErrorIs(testingT, openErr, storage.ErrMissingDataSourceName)
}
