// Command macdump splits hex encoded P25 Phase 2 MAC PDU payloads, one per
// line, into their messages.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/spf13/pflag"

	trunk "github.com/pd0mz/go-trunk"
	"github.com/pd0mz/go-trunk/config"
	"github.com/pd0mz/go-trunk/p25/phase2/mac"
)

var log = logging.MustGetLogger("macdump")

// dump reads PDUs from r, adding them to h. Empty lines and lines starting
// with # are skipped.
func dump(r io.Reader, h *trunk.History, now func() time.Time) (bad int, err error) {
	var (
		scanner = bufio.NewScanner(r)
		line    int
	)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		payload, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			log.Warningf("line %d: %v", line, err)
			bad++
			continue
		}
		pdu := mac.ParsePDU(payload, now())
		if !pdu.IsValid() {
			bad++
		}
		h.Add(pdu)
	}
	return bad, scanner.Err()
}

func main() {
	var (
		level   = pflag.StringP("log-level", "l", "warning", "log level")
		history = pflag.IntP("history", "n", 0, "number of PDUs to keep, 0 for the default")
		opcodes = pflag.Bool("opcodes", false, "list the known opcodes and exit")
	)
	pflag.Parse()

	l := &config.Default().Logging
	l.Level = *level
	closer, err := l.Setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	if *opcodes {
		for _, op := range mac.All() {
			fmt.Printf("%3d %-10s %s\n", op.Value(), op.Partition(), op.Title())
		}
		return
	}

	h := trunk.NewHistory(*history)
	var in io.Reader = os.Stdin
	if pflag.NArg() > 0 {
		f, err := os.Open(pflag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}
	bad, err := dump(in, h, time.Now)
	if err != nil {
		log.Error(err)
	}
	for _, m := range h.Messages() {
		fmt.Println(m)
	}
	if bad > 0 {
		log.Warningf("%d bad PDUs", bad)
	}
}
