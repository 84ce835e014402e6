package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name string, lines []string) {
	t.Helper()
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadBalancesSortAndDedup(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "balances-0.csv", []string{
		"0x0000000000000000000000000000000000000002,200",
		"0x0000000000000000000000000000000000000001,100",
	})
	writeCSV(t, dir, "balances-1.csv", []string{
		// later file overrides the balance for address 1
		"0x0000000000000000000000000000000000000001,150",
	})

	records, err := readBalances(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byAddr := make(map[common.Address]uint64)
	for _, r := range records {
		byAddr[r.addr] = r.balance
	}
	require.Equal(t, uint64(150), byAddr[common.HexToAddress("0x0000000000000000000000000000000000000001")])
	require.Equal(t, uint64(200), byAddr[common.HexToAddress("0x0000000000000000000000000000000000000002")])
}

func TestReadBalancesRejectsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "balances-0.csv", []string{"not-an-address,100"})

	_, err := readBalances(dir)
	require.Error(t, err)
}

func TestReadBalancesRequiresCSVFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := readBalances(dir)
	require.Error(t, err)
}

func TestRunWritesSortedOutputs(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeCSV(t, inputDir, "balances-0.csv", []string{
		"0x0000000000000000000000000000000000000003,30",
		"0x0000000000000000000000000000000000000001,10",
		"0x0000000000000000000000000000000000000002,20",
	})

	app := newApp()
	err := app.Run([]string{"dbgen", "--input", inputDir, "--output", outputDir})
	require.NoError(t, err)

	dbBytes, err := os.ReadFile(filepath.Join(outputDir, "database.bin"))
	require.NoError(t, err)
	require.Len(t, dbBytes, 3*8)

	wantBalances := []uint64{10, 20, 30}
	for i, want := range wantBalances {
		got := binary.LittleEndian.Uint64(dbBytes[i*8 : i*8+8])
		require.Equal(t, want, got)
	}

	mapBytes, err := os.ReadFile(filepath.Join(outputDir, "address-mapping.bin"))
	require.NoError(t, err)
	require.Len(t, mapBytes, 3*(common.AddressLength+4))

	for i := 0; i < 3; i++ {
		start := i * (common.AddressLength + 4)
		addr := common.BytesToAddress(mapBytes[start : start+common.AddressLength])
		idx := binary.LittleEndian.Uint32(mapBytes[start+common.AddressLength : start+common.AddressLength+4])
		require.Equal(t, uint32(i), idx)
		require.Equal(t, byte(i+1), addr.Bytes()[common.AddressLength-1])
	}
}

func TestRunRejectsMissingFlags(t *testing.T) {
	app := newApp()
	require.Error(t, app.Run([]string{"dbgen"}))
}

func TestRunRejectsEmptyInput(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	app := newApp()
	err := app.Run([]string{"dbgen", "--input", inputDir, "--output", outputDir})
	require.Error(t, err)
}
