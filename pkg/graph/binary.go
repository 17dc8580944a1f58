package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/dsnet/compress/bzip2"
)

const (
	magicBytes = "MAPDISTG"
	version    = uint32(1)
	maxNodes   = 200_000_000
	maxEdges   = 500_000_000

	// compressedSuffix selects bzip2 compression in WriteBinary/ReadBinary.
	compressedSuffix = ".bz2"
)

// fileHeader is the binary header.
type fileHeader struct {
	Magic    [8]byte
	Version  uint32
	NumNodes uint32
	NumEdges uint32
}

// WriteBinary serializes a Graph to a binary file. Paths ending in ".bz2"
// are bzip2-compressed. Uses unsafe.Slice for fast zero-copy I/O.
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	var out io.Writer = f
	var bz *bzip2.Writer
	if strings.HasSuffix(path, compressedSuffix) {
		bz, err = bzip2.NewWriter(f, &bzip2.WriterConfig{Level: bzip2.BestSpeed})
		if err != nil {
			return fmt.Errorf("create bzip2 writer: %w", err)
		}
		out = bz
	}
	bw := bufio.NewWriterSize(out, 1<<20)

	if err := encode(bw, g); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if bz != nil {
		if err := bz.Close(); err != nil {
			return fmt.Errorf("close bzip2 writer: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// encode writes the header, the node and edge arrays and a CRC32 trailer.
func encode(out io.Writer, g *Graph) error {
	crcWriter := crc32Writer{w: out, hash: crc32.NewIEEE()}
	w := &crcWriter

	numNodes := len(g.nodes)
	numEdges := len(g.edges)

	hdr := fileHeader{
		Version:  version,
		NumNodes: uint32(numNodes),
		NumEdges: uint32(numEdges),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ids := make([]int64, numNodes)
	lats := make([]float64, numNodes)
	lngs := make([]float64, numNodes)
	for i, n := range g.nodes {
		ids[i], lats[i], lngs[i] = n.ID, n.Lat, n.Lng
	}
	if err := writeSlice(w, ids); err != nil {
		return fmt.Errorf("write NodeID: %w", err)
	}
	if err := writeSlice(w, lats); err != nil {
		return fmt.Errorf("write NodeLat: %w", err)
	}
	if err := writeSlice(w, lngs); err != nil {
		return fmt.Errorf("write NodeLng: %w", err)
	}

	from := make([]uint32, numEdges)
	to := make([]uint32, numEdges)
	weight := make([]uint32, numEdges)
	for i, e := range g.edges {
		from[i], to[i], weight[i] = uint32(e.From), uint32(e.To), e.Weight
	}
	if err := writeSlice(w, from); err != nil {
		return fmt.Errorf("write EdgeFrom: %w", err)
	}
	if err := writeSlice(w, to); err != nil {
		return fmt.Errorf("write EdgeTo: %w", err)
	}
	if err := writeSlice(w, weight); err != nil {
		return fmt.Errorf("write EdgeWeight: %w", err)
	}

	// CRC32 trailer is written past the hashing writer.
	if err := binary.Write(out, binary.LittleEndian, crcWriter.hash.Sum32()); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	return nil
}

// ReadBinary deserializes a Graph from a binary file written by WriteBinary.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var in io.Reader = f
	if strings.HasSuffix(path, compressedSuffix) {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, fmt.Errorf("create bzip2 reader: %w", err)
		}
		defer bz.Close()
		in = bz
	}
	return decode(bufio.NewReaderSize(in, 1<<20))
}

func decode(in io.Reader) (*Graph, error) {
	crcReader := crc32Reader{r: in, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}
	numNodes, numEdges := int(hdr.NumNodes), int(hdr.NumEdges)

	ids, err := readSlice[int64](r, numNodes)
	if err != nil {
		return nil, fmt.Errorf("read NodeID: %w", err)
	}
	lats, err := readSlice[float64](r, numNodes)
	if err != nil {
		return nil, fmt.Errorf("read NodeLat: %w", err)
	}
	lngs, err := readSlice[float64](r, numNodes)
	if err != nil {
		return nil, fmt.Errorf("read NodeLng: %w", err)
	}
	from, err := readSlice[uint32](r, numEdges)
	if err != nil {
		return nil, fmt.Errorf("read EdgeFrom: %w", err)
	}
	to, err := readSlice[uint32](r, numEdges)
	if err != nil {
		return nil, fmt.Errorf("read EdgeTo: %w", err)
	}
	weight, err := readSlice[uint32](r, numEdges)
	if err != nil {
		return nil, fmt.Errorf("read EdgeWeight: %w", err)
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(in, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	nodes := make([]Node, numNodes)
	for i := range nodes {
		nodes[i] = Node{ID: ids[i], Lat: lats[i], Lng: lngs[i]}
	}
	edges := make([]Edge, numEdges)
	for i := range edges {
		if from[i] >= hdr.NumNodes {
			return nil, fmt.Errorf("EdgeFrom[%d]=%d >= NumNodes=%d", i, from[i], hdr.NumNodes)
		}
		edges[i] = Edge{ID: EdgeID(i), From: NodeID(from[i]), To: NodeID(to[i]), Weight: weight[i]}
	}

	g := fromSorted(nodes, edges)
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return g, nil
}

// Zero-copy I/O helpers using unsafe.Slice. The file format is
// little-endian, matching the in-memory layout on supported platforms.

type fixedSize interface {
	~uint32 | ~int64 | ~float64
}

func writeSlice[T fixedSize](w io.Writer, s []T) error {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
	_, err := w.Write(b)
	return err
}

func readSlice[T fixedSize](r io.Reader, n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]T, n)
	size := int(unsafe.Sizeof(s[0]))
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*size)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
