package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	trunk "github.com/pd0mz/go-trunk"
	"github.com/pd0mz/go-trunk/config"
	"github.com/pd0mz/go-trunk/dmr"
	"github.com/pd0mz/go-trunk/source"
)

type result struct {
	name string
	msg  trunk.Message
}

type fileStats struct {
	name    string
	framer  dmr.FramerStats
	decoder dmr.DecoderStats
	packets int
}

type dumper struct {
	cfg     *config.Config
	history *trunk.History
	emit    func(result)
}

func (d *dumper) accept(m trunk.Message) bool {
	hm, ok := m.(interface{ MessageHeader() *dmr.Header })
	if !ok {
		return true
	}
	h := hm.MessageHeader()
	if ts := d.cfg.DMR.Timeslot; ts > 0 && int(h.Timeslot)+1 != ts {
		return false
	}
	if !d.cfg.DMR.ShowRaw {
		switch m.(type) {
		case *dmr.Raw, *dmr.IdleBurst:
			return false
		}
	}
	return true
}

func (d *dumper) handle(name string, dec *dmr.Decoder, f *dmr.Frame) {
	m, err := dec.Decode(f)
	if err != nil {
		log.Debugf("%s: %v", name, err)
		return
	}
	if !d.accept(m) {
		return
	}
	d.history.Add(m)
	d.emit(result{name: name, msg: m})
}

func open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// decodeFile runs one input through its own framer and decoder.
func (d *dumper) decodeFile(ctx context.Context, name string) (*fileStats, error) {
	r, err := open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var (
		stats = &fileStats{name: name}
		dec   = dmr.NewDecoder()
	)
	defer func() { stats.decoder = dec.Stats() }()

	if d.cfg.Input.Format == config.FormatPCAP {
		c, err := source.OpenCapture(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		err = c.Frames(d.cfg.DMR.MaxSyncErrors, func(p *source.DMRD, f *dmr.Frame) {
			stats.packets++
			log.Debugf("%s: %s", name, p)
			d.handle(name, dec, f)
		})
		return stats, err
	}

	format, err := source.ParseFormat(d.cfg.Input.Format)
	if err != nil {
		return nil, err
	}
	fr, err := dmr.NewFramer(d.cfg.DMR.MaxSyncErrors, func(f *dmr.Frame) {
		d.handle(name, dec, f)
	})
	if err != nil {
		return nil, err
	}
	_, err = source.CopyBits(ctx, fr, r, format)
	stats.framer = fr.Stats()
	if err != nil {
		return stats, fmt.Errorf("%s: %w", name, err)
	}
	return stats, nil
}

// listen decodes DMRD packets received on the configured UDP address.
func (d *dumper) listen(ctx context.Context) (*fileStats, error) {
	l, err := source.Listen(d.cfg.Input.Listen)
	if err != nil {
		return nil, err
	}
	defer l.Close()
	log.Infof("listening on %s", l.Addr())

	var (
		name  = l.Addr().String()
		stats = &fileStats{name: name}
		dec   = dmr.NewDecoder()
	)
	err = l.Frames(ctx, d.cfg.DMR.MaxSyncErrors, func(p *source.DMRD, f *dmr.Frame) {
		stats.packets++
		log.Debugf("%s", p)
		d.handle(name, dec, f)
	})
	stats.decoder = dec.Stats()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return stats, err
}

// run decodes the inputs on a pool of workers.
func (d *dumper) run(ctx context.Context, names []string) ([]*fileStats, error) {
	var (
		jobs    = make(chan string)
		wg      sync.WaitGroup
		mu      sync.Mutex
		all     []*fileStats
		errs    []error
		workers = min(d.cfg.DMR.Workers, len(names))
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				stats, err := d.decodeFile(ctx, name)
				mu.Lock()
				if stats != nil {
					all = append(all, stats)
				}
				if err != nil {
					errs = append(errs, err)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, name := range names {
		select {
		case jobs <- name:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return all, errors.Join(errs...)
}
