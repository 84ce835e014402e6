// Command dbgen builds the database.bin and address-mapping.bin files
// consumed by a Plinko PIR server from a directory of flat balance
// records. It is the Go realization of the external ingester described
// in the iPRF core's interface contract (spec §6): the core itself never
// reads or writes these files, but domain = n for any iPRF built over
// this database must equal the number of records dbgen writes.
package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("dbgen: %v", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dbgen"
	app.Usage = "build database.bin and address-mapping.bin from balance records"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "input", Usage: "directory containing *.csv balance records"},
		cli.StringFlag{Name: "output", Usage: "destination directory"},
	}
	app.Action = run
	return app
}

// balanceRecord is one (address, balance) pair parsed from an input
// file, mirroring the {address, balance_after} columns the parquet
// ingester this tool adapts reads from balance_diffs_blocks-*.parquet.
type balanceRecord struct {
	addr    common.Address
	balance uint64
}

func run(c *cli.Context) error {
	inputDir := c.String("input")
	outputDir := c.String("output")
	if inputDir == "" || outputDir == "" {
		return errors.New("--input and --output are required")
	}

	records, err := readBalances(inputDir)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	if len(records) == 0 {
		return errors.Errorf("no balance records found under %s", inputDir)
	}

	// Sorted-by-address order, matching the reference ingester's
	// `sorted(balances.items())`: this sort order is what makes
	// domain = n consistent between database.bin and address-mapping.bin.
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].addr[:], records[j].addr[:]) < 0
	})

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if err := writeDatabase(filepath.Join(outputDir, "database.bin"), records); err != nil {
		return errors.Wrap(err, "writing database.bin")
	}
	if err := writeAddressMapping(filepath.Join(outputDir, "address-mapping.bin"), records); err != nil {
		return errors.Wrap(err, "writing address-mapping.bin")
	}

	info, err := os.Stat(filepath.Join(outputDir, "database.bin"))
	if err != nil || info.Size() == 0 {
		return errors.New("database.bin is empty after writing")
	}

	fmt.Printf("wrote %d entries to %s\n", len(records), outputDir)
	return nil
}

// readBalances reads every *.csv file under dir, one "0xAddress,balance"
// record per line, deduplicating by address (last write wins, matching
// the reference ingester's dict-keyed-by-address accumulation).
func readBalances(dir string) ([]balanceRecord, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no *.csv files found under %s", dir)
	}

	byAddr := make(map[common.Address]uint64)
	for _, path := range files {
		if err := readBalanceFile(path, byAddr); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	}

	records := make([]balanceRecord, 0, len(byAddr))
	for addr, bal := range byAddr {
		records = append(records, balanceRecord{addr: addr, balance: bal})
	}
	return records, nil
}

func readBalanceFile(path string, byAddr map[common.Address]uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return errors.Errorf("line %d: expected \"address,balance\"", lineNo)
		}
		if !common.IsHexAddress(parts[0]) {
			return errors.Errorf("line %d: invalid address %q", lineNo, parts[0])
		}
		balance, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return errors.Wrapf(err, "line %d: invalid balance", lineNo)
		}
		byAddr[common.HexToAddress(parts[0])] = balance
	}
	return scanner.Err()
}

// writeDatabase writes one little-endian uint64 balance per record, in
// the given (already sorted) order.
func writeDatabase(path string, records []balanceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var buf [8]byte
	for _, r := range records {
		binary.LittleEndian.PutUint64(buf[:], r.balance)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writeAddressMapping writes (20-byte address, little-endian uint32
// index) records, one per database entry, in the same order as
// database.bin.
func writeAddressMapping(path string, records []balanceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var idxBuf [4]byte
	for i, r := range records {
		if _, err := w.Write(r.addr.Bytes()); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(idxBuf[:], uint32(i))
		if _, err := w.Write(idxBuf[:]); err != nil {
			return err
		}
	}
	return w.Flush()
}
