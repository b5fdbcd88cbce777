package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/leo-lp/png/internal/chunk"
	"github.com/leo-lp/png/internal/pngerr"
)

// Text is a tEXt keyword/value pair. Both are Latin-1.
type Text struct {
	Keyword string
	Value   string
}

// Physical is the pHYs pixel density.
type Physical struct {
	X, Y uint32 // pixels per unit
	// Meter is true when the unit is the meter; otherwise only the aspect
	// ratio is meaningful.
	Meter bool
}

// Metadata carries the ancillary chunks of an image. Gamma is the raw gAMA
// value (gamma times 100000); it is not applied to pixels.
type Metadata struct {
	Gamma      *uint32
	Physical   *Physical
	Modified   *time.Time
	Background []byte // raw bKGD payload
	Texts      []Text

	// Extra holds every other ancillary chunk that appeared before the
	// image data, Tail those that appeared after it. Both keep stream order.
	Extra []chunk.Chunk
	Tail  []chunk.Chunk
}

// Portable returns the metadata that stays valid when the image is
// re-encoded in another pixel format. bKGD is dropped, and so are the
// extra chunks not marked safe to copy.
func (md Metadata) Portable() Metadata {
	out := md
	out.Background = nil
	out.Extra, out.Tail = safeToCopy(md.Extra), safeToCopy(md.Tail)
	return out
}

func safeToCopy(cs []chunk.Chunk) []chunk.Chunk {
	var out []chunk.Chunk
	for _, c := range cs {
		if c.Name.SafeToCopy() {
			out = append(out, c)
		}
	}
	return out
}

func parseText(data []byte) (Text, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return Text{}, pngerr.Syntax("tEXt", len(data), "no keyword separator")
	}
	if i == 0 || i > 79 {
		return Text{}, pngerr.Syntax("tEXt keyword length", i, "must be in [1, 79]")
	}
	return Text{Keyword: latin1(data[:i]), Value: latin1(data[i+1:])}, nil
}

func (t Text) bytes() ([]byte, error) {
	kw, err := toLatin1(t.Keyword)
	if err != nil {
		return nil, err
	}
	if len(kw) == 0 || len(kw) > 79 {
		return nil, fmt.Errorf("tEXt keyword %q: length must be in [1, 79]", t.Keyword)
	}
	val, err := toLatin1(t.Value)
	if err != nil {
		return nil, err
	}
	return append(append(kw, 0), val...), nil
}

func latin1(b []byte) string {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}

func toLatin1(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff || r == 0 {
			return nil, fmt.Errorf("text %q: %U is not Latin-1", s, r)
		}
		b = append(b, byte(r))
	}
	return b, nil
}

func parseTime(data []byte) (time.Time, error) {
	if len(data) != 7 {
		return time.Time{}, pngerr.Syntax("tIME length", len(data), "want 7 bytes")
	}
	year := int(binary.BigEndian.Uint16(data))
	month, day, hour, minute, sec := int(data[2]), int(data[3]), int(data[4]), int(data[5]), int(data[6])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 60 {
		return time.Time{}, pngerr.Syntax("tIME", fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d",
			year, month, day, hour, minute, sec), "field out of range")
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC), nil
}

func timeBytes(t time.Time) []byte {
	t = t.UTC()
	b := make([]byte, 7)
	binary.BigEndian.PutUint16(b, uint16(t.Year()))
	b[2], b[3] = byte(t.Month()), byte(t.Day())
	b[4], b[5], b[6] = byte(t.Hour()), byte(t.Minute()), byte(t.Second())
	return b
}

func parsePhysical(data []byte) (Physical, error) {
	if len(data) != 9 {
		return Physical{}, pngerr.Syntax("pHYs length", len(data), "want 9 bytes")
	}
	if data[8] > 1 {
		return Physical{}, pngerr.Syntax("pHYs unit", data[8], "must be 0 or 1")
	}
	return Physical{
		X:     binary.BigEndian.Uint32(data[0:]),
		Y:     binary.BigEndian.Uint32(data[4:]),
		Meter: data[8] == 1,
	}, nil
}

func (p Physical) bytes() []byte {
	b := make([]byte, 9)
	binary.BigEndian.PutUint32(b[0:], p.X)
	binary.BigEndian.PutUint32(b[4:], p.Y)
	if p.Meter {
		b[8] = 1
	}
	return b
}

func parseGamma(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, pngerr.Syntax("gAMA length", len(data), "want 4 bytes")
	}
	return binary.BigEndian.Uint32(data), nil
}

func gammaBytes(g uint32) []byte { return binary.BigEndian.AppendUint32(nil, g) }
