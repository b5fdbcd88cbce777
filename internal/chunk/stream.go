package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/leo-lp/png/internal/pngerr"
)

// Signature starts every PNG stream.
const Signature = "\x89PNG\r\n\x1a\n"

// maxLength is the largest legal chunk payload.
const maxLength = 1<<31 - 1

// Chunk is one decoded container unit.
type Chunk struct {
	Name Name
	Data []byte
}

// Raw is a chunk as read, before its checksum is verified.
type Raw struct {
	Chunk
	CRC      uint32 // stored checksum
	Computed uint32 // checksum of name and payload
}

// Intact reports whether the stored checksum matches.
func (r Raw) Intact() bool { return r.CRC == r.Computed }

// Checksum computes the CRC-32 of a chunk: over the name, then the payload.
func Checksum(name Name, data []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, name[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}

// Reader reads chunks from a byte stream.
type Reader struct {
	r   io.Reader
	tmp [8]byte
}

// NewReader consumes and checks the signature.
func NewReader(r io.Reader) (*Reader, error) {
	cr := &Reader{r: r}
	if _, err := io.ReadFull(r, cr.tmp[:len(Signature)]); err != nil {
		return nil, fmt.Errorf("%w: %v", pngerr.ErrMissingSignature, err)
	}
	if string(cr.tmp[:len(Signature)]) != Signature {
		return nil, pngerr.ErrMissingSignature
	}
	return cr, nil
}

// NextRaw reads the next chunk without judging its checksum or name. It
// returns io.EOF when the stream ends cleanly between chunks.
func (cr *Reader) NextRaw() (Raw, error) {
	var raw Raw
	n, err := io.ReadFull(cr.r, cr.tmp[:8])
	if err != nil {
		if err == io.EOF && n == 0 {
			return raw, io.EOF
		}
		return raw, fmt.Errorf("%w: truncated chunk header", pngerr.ErrCorruptedChunk)
	}
	length := binary.BigEndian.Uint32(cr.tmp[:4])
	copy(raw.Name[:], cr.tmp[4:8])
	if length > maxLength {
		return raw, fmt.Errorf("%w: %s length %d", pngerr.ErrCorruptedChunk, raw.Name, length)
	}
	data, err := cr.payload(int64(length))
	if err != nil {
		return raw, fmt.Errorf("%w: %s truncated", pngerr.ErrCorruptedChunk, raw.Name)
	}
	raw.Data = data
	if _, err := io.ReadFull(cr.r, cr.tmp[:4]); err != nil {
		return raw, fmt.Errorf("%w: %s missing checksum", pngerr.ErrCorruptedChunk, raw.Name)
	}
	raw.CRC = binary.BigEndian.Uint32(cr.tmp[:4])
	raw.Computed = Checksum(raw.Name, raw.Data)
	return raw, nil
}

// payload reads n bytes. Large payloads are buffered as they arrive so a
// forged length cannot force one huge allocation.
func (cr *Reader) payload(n int64) ([]byte, error) {
	if n <= smallPayload {
		b := make([]byte, n)
		_, err := io.ReadFull(cr.r, b)
		return b, err
	}
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, cr.r, n)
	if got < n {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

const smallPayload = 1 << 16

// Next reads the next chunk, verifying its checksum and name. It returns
// io.EOF when the stream ends cleanly between chunks.
func (cr *Reader) Next() (Chunk, error) {
	raw, err := cr.NextRaw()
	if err != nil {
		return Chunk{}, err
	}
	if !raw.Intact() {
		return Chunk{}, fmt.Errorf("%w: %s checksum %08x, computed %08x",
			pngerr.ErrCorruptedChunk, raw.Name, raw.CRC, raw.Computed)
	}
	if !raw.Name.Valid() {
		return Chunk{}, fmt.Errorf("%w: %q", pngerr.ErrInvalidName, raw.Name.String())
	}
	return raw.Chunk, nil
}

// Writer writes the signature followed by chunks.
type Writer struct {
	w       io.Writer
	started bool
	tmp     [8]byte
}

// NewWriter returns a Writer. The signature is written with the first chunk.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Write emits one chunk.
func (cw *Writer) Write(name Name, data []byte) error {
	if len(data) > maxLength {
		return fmt.Errorf("chunk %s: payload of %d bytes too large", name, len(data))
	}
	if !cw.started {
		if _, err := io.WriteString(cw.w, Signature); err != nil {
			return err
		}
		cw.started = true
	}
	binary.BigEndian.PutUint32(cw.tmp[:4], uint32(len(data)))
	copy(cw.tmp[4:8], name[:])
	if _, err := cw.w.Write(cw.tmp[:8]); err != nil {
		return err
	}
	if _, err := cw.w.Write(data); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(cw.tmp[:4], Checksum(name, data))
	_, err := cw.w.Write(cw.tmp[:4])
	return err
}

// IsEOF reports whether err marks a clean end of the chunk stream.
func IsEOF(err error) bool { return errors.Is(err, io.EOF) }
