package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/pd0mz/go-trunk/dmr"
)

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// Capture reads DMRD packets from the UDP traffic in a pcap or pcapng file.
type Capture struct {
	packets *gopacket.PacketSource

	// Skipped counts packets that carried no DMRD payload.
	Skipped int
}

// OpenCapture starts reading a capture from r.
func OpenCapture(r io.Reader) (*Capture, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(pcapngMagic))
	if err != nil {
		return nil, fmt.Errorf("source: capture header: %w", err)
	}

	var (
		data     gopacket.PacketDataSource
		linkType layers.LinkType
	)
	if bytes.Equal(magic, pcapngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		data, linkType = ng, ng.LinkType()
	} else {
		pr, err := pcapgo.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		data, linkType = pr, pr.LinkType()
	}
	log.Debugf("capture with link type %s", linkType)

	packets := gopacket.NewPacketSource(data, linkType)
	packets.Lazy = true
	return &Capture{packets: packets}, nil
}

// Next returns the next DMRD packet and its capture time. It returns io.EOF
// at the end of the capture.
func (c *Capture) Next() (*DMRD, time.Time, error) {
	for {
		packet, err := c.packets.NextPacket()
		if errors.Is(err, io.EOF) {
			return nil, time.Time{}, io.EOF
		}
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("source: %w", err)
		}

		udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		if !ok || !IsDMRD(udp.Payload) {
			c.Skipped++
			continue
		}
		p, err := ParseDMRD(udp.Payload)
		if err != nil {
			log.Warningf("%s: %v", packet.Metadata().Timestamp.Format(time.RFC3339Nano), err)
			c.Skipped++
			continue
		}
		return p, packet.Metadata().Timestamp, nil
	}
}

// Frames calls fn with every DMRD burst in the capture, framed with
// maxSyncErrors tolerated in its SYNC pattern.
func (c *Capture) Frames(maxSyncErrors int, fn func(*DMRD, *dmr.Frame)) error {
	for {
		p, ts, err := c.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		f, err := p.Frame(maxSyncErrors)
		if err != nil {
			return err
		}
		f.Time = ts
		fn(p, f)
	}
}
