package torrent

import (
	"fmt"

	"lukechampine.com/uint128"
)

// IsSingle reports whether the torrent describes one file (info.length)
// rather than a file list.
func (t *Torrent) IsSingle() bool {
	return t.Info.Length != nil
}

// TotalSize sums the file lengths in a 128-bit accumulator.
func (t *Torrent) TotalSize() uint128.Uint128 {
	if t.Info.Length != nil {
		return uint128.From64(uint64(*t.Info.Length))
	}

	total := uint128.Zero
	for _, f := range t.Info.Files {
		total = total.Add64(uint64(f.Length))
	}
	return total
}

func (t *Torrent) FilesCount() int {
	if t.Info.Length != nil {
		return 1
	}
	return len(t.Info.Files)
}

func (t *Torrent) PiecesCount() int {
	return len(t.Info.Pieces) / hashSize
}

// PieceHash returns the SHA-1 hash of piece i as a 20-byte slice of Info.Pieces.
func (t *Torrent) PieceHash(i int) ([]byte, error) {
	if i < 0 || i >= t.PiecesCount() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, t.PiecesCount())
	}
	return t.Info.Pieces[i*hashSize : (i+1)*hashSize : (i+1)*hashSize], nil
}

func (t *Torrent) PieceHashes() [][hashSize]byte {
	hashes := make([][hashSize]byte, t.PiecesCount())
	for i := range hashes {
		copy(hashes[i][:], t.Info.Pieces[i*hashSize:])
	}
	return hashes
}
