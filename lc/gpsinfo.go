package lc

import "fmt"

// Position error, ETSI TS 102 361-2 7.2.15.
const (
	ErrorLT2m uint8 = iota
	ErrorLT20m
	ErrorLT200m
	ErrorLT2km
	ErrorLT20km
	ErrorLE200km
	ErrorGT200km
	ErrorUnknown
)

var positionErrors = [...]string{"< 2m", "< 20m", "< 200m", "< 2km", "< 20km", "<= 200km", "> 200km", "unknown"}

// GpsInfoPDU is the payload of GPS info link control, ETSI TS 102 361-2
// 7.1.1.3. Longitude is 25 bits, latitude 24 bits, both two's complement.
type GpsInfoPDU struct {
	PositionError uint8
	Longitude     uint32
	Latitude      uint32
}

func ParseGpsInfoPDU(data []byte) (*GpsInfoPDU, error) {
	if len(data) != pduSize {
		return nil, fmt.Errorf("lc: GPS info needs %d octets, got %d", pduSize, len(data))
	}
	return &GpsInfoPDU{
		PositionError: data[0] >> 1 & 0x07,
		Longitude:     uint32(data[0]&0x01)<<24 | uint24(data[1:4]),
		Latitude:      uint24(data[4:7]),
	}, nil
}

// Bytes encodes the PDU to its 7 octets; the 4 spare bits are zero.
func (g *GpsInfoPDU) Bytes() []byte {
	data := make([]byte, pduSize)
	data[0] = (g.PositionError&0x07)<<1 | byte(g.Longitude>>24)&0x01
	putUint24(data[1:], g.Longitude)
	putUint24(data[4:], g.Latitude)
	return data
}

// Position returns latitude and longitude in degrees, in units of 180/2^24
// and 360/2^25 degrees.
func (g *GpsInfoPDU) Position() (lat, lon float64) {
	var (
		rawLat = int32(g.Latitude<<8) >> 8
		rawLon = int32(g.Longitude<<7) >> 7
	)
	return float64(rawLat) * 180 / (1 << 24), float64(rawLon) * 360 / (1 << 25)
}

func (g *GpsInfoPDU) String() string {
	lat, lon := g.Position()
	return fmt.Sprintf("GPS %.5f,%.5f (error %s)", lat, lon, positionErrors[g.PositionError&0x07])
}
