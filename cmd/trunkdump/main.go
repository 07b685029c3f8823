// Command trunkdump decodes DMR frames from demodulated bit streams or from
// captured repeater network traffic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/op/go-logging"
	"github.com/spf13/pflag"

	trunk "github.com/pd0mz/go-trunk"
	"github.com/pd0mz/go-trunk/config"
)

var log = logging.MustGetLogger("trunkdump")

func main() {
	var (
		configFile    = pflag.StringP("config", "c", "", "configuration file")
		format        = pflag.StringP("format", "f", "", "input format: packed, unpacked, text, symbols or pcap")
		maxSyncErrors = pflag.IntP("max-sync-errors", "s", 0, "bit errors tolerated in a SYNC pattern")
		timeslot      = pflag.IntP("timeslot", "t", 0, "only show timeslot 1 or 2")
		workers       = pflag.IntP("workers", "w", 0, "number of inputs decoded in parallel")
		listen        = pflag.StringP("listen", "L", "", "receive DMRD packets on this UDP address")
		showRaw       = pflag.Bool("raw", false, "show idle bursts and undecoded data")
		summary       = pflag.Bool("summary", false, "print a summary of the decoded messages")
		verbose       = pflag.BoolP("verbose", "v", false, "enable debug logging")
		showVersion   = pflag.Bool("version", false, "print the version and exit")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [file ...]\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *showVersion {
		fmt.Println(trunk.PackageID)
		return
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	flags := pflag.CommandLine
	if flags.Changed("format") {
		cfg.Input.Format = *format
	}
	if flags.Changed("max-sync-errors") {
		cfg.DMR.MaxSyncErrors = *maxSyncErrors
	}
	if flags.Changed("timeslot") {
		cfg.DMR.Timeslot = *timeslot
	}
	if flags.Changed("workers") {
		cfg.DMR.Workers = *workers
	}
	if flags.Changed("listen") {
		cfg.Input.Listen = *listen
	}
	if *showRaw {
		cfg.DMR.ShowRaw = true
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	closer, err := cfg.Logging.Setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	names := pflag.Args()
	if len(names) == 0 {
		names = cfg.Input.Files
	}
	if len(names) == 0 {
		names = []string{"-"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		results = make(chan result, 64)
		done    sync.WaitGroup
		multi   = len(names) > 1
	)
	done.Add(1)
	go func() {
		defer done.Done()
		for r := range results {
			if multi {
				fmt.Printf("%s %s: %s\n", r.msg.Timestamp().Format("15:04:05.000"), r.name, r.msg)
			} else {
				fmt.Printf("%s %s\n", r.msg.Timestamp().Format("15:04:05.000"), r.msg)
			}
		}
	}()

	d := &dumper{
		cfg:     cfg,
		history: trunk.NewHistory(cfg.History.Size),
		emit:    func(r result) { results <- r },
	}
	var stats []*fileStats
	if cfg.Input.Listen != "" {
		var s *fileStats
		if s, err = d.listen(ctx); s != nil {
			stats = append(stats, s)
		}
	} else {
		log.Infof("%s decoding %d input(s) as %s", trunk.SoftwareID, len(names), cfg.Input.Format)
		stats, err = d.run(ctx, names)
	}
	close(results)
	done.Wait()

	for _, s := range stats {
		log.Infof("%s: %d bits, %d frames (%d flywheel, %d sync bit errors), %d packets", s.name,
			s.framer.Bits, s.framer.Frames, s.framer.Flywheel, s.framer.SyncErrors, s.packets)
		log.Infof("%s: %d decoded, %d valid, %d corrected, %d failed, %d errors", s.name,
			s.decoder.Frames, s.decoder.Valid, s.decoder.Corrected, s.decoder.Failed, s.decoder.Errors)
	}
	if *summary {
		printSummary(d.history)
	}
	if err != nil {
		log.Error(err)
		closer.Close()
		os.Exit(1)
	}
}

func printSummary(h *trunk.History) {
	type count struct{ total, valid int }
	var counts = map[string]*count{}
	for _, m := range h.Messages() {
		name := fmt.Sprintf("%s %T", m.Protocol(), m)
		c, ok := counts[name]
		if !ok {
			c = &count{}
			counts[name] = c
		}
		c.total++
		if m.IsValid() {
			c.valid++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("last %d messages:\n", h.Len())
	for _, name := range names {
		fmt.Printf("\t%-32s %6d (%d valid)\n", name, counts[name].total, counts[name].valid)
	}
}
