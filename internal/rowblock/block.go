// Package rowblock stores a sorted run of encoded rows as one block.
//
// Layout:
//
//	"NRB1" | uvarint headerLen | msgpack header | snappy(body)
//	body = (uvarint rowLen | row)*
//
// Rows keep the host byte order of their numeric columns, so a block is
// only portable between hosts of the same endianness.
package rowblock

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang/snappy"
	"github.com/hashicorp/go-msgpack/codec"

	"github.com/tuannm99/novarow/internal/alias/bx"
	"github.com/tuannm99/novarow/internal/record"
	"github.com/tuannm99/novarow/internal/rowsort"
)

var (
	ErrBadMagic       = errors.New("rowblock: bad magic")
	ErrSchemaMismatch = errors.New("rowblock: block written with another schema")
	ErrCorrupt        = errors.New("rowblock: corrupt block")
)

var magic = []byte("NRB1")

type blockHeader struct {
	Columns []string
	Types   []string
	Rows    int
	RawLen  int
}

func headerFor(s *record.Schema) blockHeader {
	h := blockHeader{Columns: s.ColumnNames()}
	for i := range s.ColumnNum() {
		meta, _ := s.ColumnMeta(i)
		tok := meta.Type.String()
		if meta.Type == record.ColFixed {
			tok = fmt.Sprintf("%s(%d)", tok, meta.FixedLen)
		}
		h.Types = append(h.Types, tok)
	}
	return h
}

func (h *blockHeader) sameSchema(o blockHeader) bool {
	if len(h.Columns) != len(o.Columns) || len(h.Types) != len(o.Types) {
		return false
	}
	for i := range h.Columns {
		if h.Columns[i] != o.Columns[i] || h.Types[i] != o.Types[i] {
			return false
		}
	}
	return true
}

// Writer collects rows of one schema and emits them as a sorted block.
type Writer struct {
	s    *record.Schema
	rows rowsort.EntryTable
	cols []record.ColumnData
}

func NewWriter(s *record.Schema) (*Writer, error) {
	if !s.Compiled() {
		return nil, record.ErrNotCompiled
	}
	return &Writer{s: s}, nil
}

// Append adds an encoded row after checking that it parses.
func (w *Writer) Append(row []byte) error {
	var err error
	w.cols, err = w.s.Parse(row, w.cols)
	if err != nil {
		return fmt.Errorf("rowblock: row %d: %w", w.rows.Len(), err)
	}
	w.rows.Add(row)
	return nil
}

// AppendValues encodes values with the schema and adds the row.
func (w *Writer) AppendValues(values []any) error {
	row, err := w.s.EncodeRow(values)
	if err != nil {
		return fmt.Errorf("rowblock: row %d: %w", w.rows.Len(), err)
	}
	w.rows.Add(row)
	return nil
}

func (w *Writer) Len() int { return w.rows.Len() }

// Finish sorts the collected rows, returns the block and resets w.
func (w *Writer) Finish() ([]byte, error) {
	if err := w.rows.Sort(w.s); err != nil {
		return nil, fmt.Errorf("rowblock: sort: %w", err)
	}

	rawLen := 0
	for _, e := range w.rows.Entries {
		rawLen += bx.UvarintLen(uint64(e.Length)) + e.Length
	}
	body := make([]byte, 0, rawLen)
	for i := range w.rows.Len() {
		row, err := w.rows.Row(i)
		if err != nil {
			return nil, err
		}
		body = bx.AppendUvarint(body, uint64(len(row)))
		body = append(body, row...)
	}

	h := headerFor(w.s)
	h.Rows = w.rows.Len()
	h.RawLen = len(body)

	var hdr []byte
	enc := codec.NewEncoderBytes(&hdr, new(codec.MsgpackHandle))
	if err := enc.Encode(&h); err != nil {
		return nil, fmt.Errorf("rowblock: encode header: %w", err)
	}

	out := make([]byte, 0, len(magic)+bx.MaxVarintLen+len(hdr)+snappy.MaxEncodedLen(len(body)))
	out = append(out, magic...)
	out = bx.AppendUvarint(out, uint64(len(hdr)))
	out = append(out, hdr...)
	out = append(out, snappy.Encode(nil, body)...)

	slog.Debug("rowblock.Writer.Finish",
		"rows", h.Rows,
		"rawLen", h.RawLen,
		"blockLen", len(out),
	)
	w.rows.Reset()
	return out, nil
}

// Read decodes a block written for s. The returned table is in schema
// order and its Base is a fresh buffer owned by the caller.
func Read(s *record.Schema, data []byte) (*rowsort.EntryTable, error) {
	if !bytes.HasPrefix(data, magic) {
		return nil, ErrBadMagic
	}
	data = data[len(magic):]

	hlen, n := bx.Uvarint(data)
	if n <= 0 || hlen > uint64(len(data)-n) {
		return nil, fmt.Errorf("%w: header length", ErrCorrupt)
	}
	data = data[n:]

	var h blockHeader
	dec := codec.NewDecoderBytes(data[:hlen], new(codec.MsgpackHandle))
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if want := headerFor(s); !want.sameSchema(h) {
		return nil, fmt.Errorf("%w: block %v, schema %v", ErrSchemaMismatch, h.Columns, want.Columns)
	}

	body, err := snappy.Decode(nil, data[hlen:])
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrCorrupt, err)
	}
	if len(body) != h.RawLen {
		return nil, fmt.Errorf("%w: body len=%d want=%d", ErrCorrupt, len(body), h.RawLen)
	}

	tbl := &rowsort.EntryTable{Base: body}
	var cols []record.ColumnData
	for off := 0; off < len(body); {
		rlen, k := bx.Uvarint(body[off:])
		if k <= 0 || rlen > uint64(len(body)-off-k) {
			return nil, fmt.Errorf("%w: row %d length", ErrCorrupt, tbl.Len())
		}
		off += k
		ref := record.RowRef{Offset: off, Length: int(rlen)}
		row, _ := ref.Slice(body)
		if cols, err = s.Parse(row, cols); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrCorrupt, tbl.Len(), err)
		}
		tbl.Entries = append(tbl.Entries, ref)
		off += int(rlen)
	}
	if tbl.Len() != h.Rows {
		return nil, fmt.Errorf("%w: rows=%d want=%d", ErrCorrupt, tbl.Len(), h.Rows)
	}

	slog.Debug("rowblock.Read", "rows", h.Rows, "rawLen", h.RawLen)
	return tbl, nil
}
