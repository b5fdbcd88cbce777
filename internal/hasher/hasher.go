package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/leo-lp/png/internal/sample"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Output file names use 16 hex chars.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// PixelHash digests canonical pixels, so two files that decode to the
// same colors hash alike whatever their format, filters or compression.
// The dimensions are part of the digest.
func PixelHash(width, height int, px []sample.RGBA16) string {
	h := xxhash.New()
	buf := make([]byte, 0, 8*256)
	buf = binary.BigEndian.AppendUint32(buf, uint32(width))
	buf = binary.BigEndian.AppendUint32(buf, uint32(height))
	for _, c := range px {
		if len(buf)+8 > cap(buf) {
			h.Write(buf)
			buf = buf[:0]
		}
		buf = binary.BigEndian.AppendUint16(buf, c.R)
		buf = binary.BigEndian.AppendUint16(buf, c.G)
		buf = binary.BigEndian.AppendUint16(buf, c.B)
		buf = binary.BigEndian.AppendUint16(buf, c.A)
	}
	h.Write(buf)
	return truncate(h.Sum64(), 0)
}

func truncate(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
