// Package torrent projects decoded bencode into typed .torrent metadata and
// computes info-hashes over the canonical encoding of the info dictionary.
package torrent

import (
	"path/filepath"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/bencode"
)

// Torrent is the root of a metainfo file. Optional scalars are nil when the
// key was absent; optional lists are nil when absent.
type Torrent struct {
	Announce *string
	// AnnounceList holds tracker tiers, tried in order.
	AnnounceList [][]string
	CreationDate *int64
	Comment      *string
	CreatedBy    *string
	Encoding     *string
	Info         Info
	Nodes        []Node
	HTTPSeeds    []string
}

// Info is the info dictionary. Exactly one of Length (single-file) and
// Files (multi-file) is set on a parsed Info.
type Info struct {
	Name        string
	PieceLength int64
	// Pieces is the concatenation of 20-byte SHA-1 piece hashes.
	Pieces      []byte
	Length      *int64
	Files       []FileEntry
	MD5Sum      *string
	Private     *int64
	MetaVersion *int64
	// Extra holds info keys this model does not know. It is only filled
	// when parsing with KeepUnknownKeys and is re-encoded with the rest.
	Extra map[string]bencode.Value
}

type FileEntry struct {
	Path   []string
	Length int64
	MD5Sum *string
	// Extra holds file keys this model does not know, such as attr or
	// sha1 (BEP-47). Filled only with KeepUnknownKeys.
	Extra map[string]bencode.Value
}

// FilePath joins the path segments with the platform separator.
func (f FileEntry) FilePath() string {
	return filepath.Join(f.Path...)
}

// Node is a DHT bootstrap node (BEP-5).
type Node struct {
	Host string
	Port int64
}

const (
	keyAnnounce     = "announce"
	keyAnnounceList = "announce-list"
	keyCreationDate = "creation date"
	keyComment      = "comment"
	keyCreatedBy    = "created by"
	keyEncoding     = "encoding"
	keyInfo         = "info"
	keyNodes        = "nodes"
	keyHTTPSeeds    = "httpseeds"

	keyName        = "name"
	keyPieceLength = "piece length"
	keyPieces      = "pieces"
	keyLength      = "length"
	keyFiles       = "files"
	keyMD5Sum      = "md5sum"
	keyPrivate     = "private"
	keyMetaVersion = "meta version"
	keyPath        = "path"
)

var knownFileKeys = map[string]bool{
	keyLength: true,
	keyPath:   true,
	keyMD5Sum: true,
}

var knownInfoKeys = map[string]bool{
	keyName:        true,
	keyPieceLength: true,
	keyPieces:      true,
	keyLength:      true,
	keyFiles:       true,
	keyMD5Sum:      true,
	keyPrivate:     true,
	keyMetaVersion: true,
}

// Value rebuilds the info dictionary from the fields that are present.
// Absent optional fields are omitted rather than encoded as empty values.
func (i *Info) Value() bencode.Value {
	entries := make(map[string]bencode.Value, len(i.Extra)+8)
	for k, v := range i.Extra {
		entries[k] = v
	}

	entries[keyName] = bencode.String(i.Name)
	entries[keyPieceLength] = bencode.Int(i.PieceLength)
	entries[keyPieces] = bencode.Bytes(i.Pieces)

	if i.Length != nil {
		entries[keyLength] = bencode.Int(*i.Length)
	}
	if i.Files != nil {
		files := make([]bencode.Value, 0, len(i.Files))
		for _, f := range i.Files {
			files = append(files, f.value())
		}
		entries[keyFiles] = bencode.List(files...)
	}
	putString(entries, keyMD5Sum, i.MD5Sum)
	putInt(entries, keyPrivate, i.Private)
	putInt(entries, keyMetaVersion, i.MetaVersion)

	return bencode.Dict(entries)
}

// Bytes returns the canonical encoding of the info dictionary.
func (i *Info) Bytes() []byte {
	return bencode.Encode(i.Value())
}

func (f FileEntry) value() bencode.Value {
	entries := make(map[string]bencode.Value, len(f.Extra)+3)
	for k, v := range f.Extra {
		entries[k] = v
	}

	entries[keyLength] = bencode.Int(f.Length)
	entries[keyPath] = stringList(f.Path)
	putString(entries, keyMD5Sum, f.MD5Sum)
	return bencode.Dict(entries)
}

// Value rebuilds the whole metainfo dictionary. Unknown top-level keys are
// never kept, so this is not guaranteed to match the original bytes.
func (t *Torrent) Value() bencode.Value {
	entries := map[string]bencode.Value{
		keyInfo: t.Info.Value(),
	}

	putString(entries, keyAnnounce, t.Announce)
	if t.AnnounceList != nil {
		tiers := make([]bencode.Value, 0, len(t.AnnounceList))
		for _, tier := range t.AnnounceList {
			tiers = append(tiers, stringList(tier))
		}
		entries[keyAnnounceList] = bencode.List(tiers...)
	}
	putInt(entries, keyCreationDate, t.CreationDate)
	putString(entries, keyComment, t.Comment)
	putString(entries, keyCreatedBy, t.CreatedBy)
	putString(entries, keyEncoding, t.Encoding)
	if t.Nodes != nil {
		nodes := make([]bencode.Value, 0, len(t.Nodes))
		for _, n := range t.Nodes {
			nodes = append(nodes, bencode.List(bencode.String(n.Host), bencode.Int(n.Port)))
		}
		entries[keyNodes] = bencode.List(nodes...)
	}
	if t.HTTPSeeds != nil {
		entries[keyHTTPSeeds] = stringList(t.HTTPSeeds)
	}

	return bencode.Dict(entries)
}

// Encode returns the canonical encoding of the whole torrent.
func (t *Torrent) Encode() []byte {
	return bencode.Encode(t.Value())
}

// Trackers flattens announce and announce-list into one list in tier
// order, dropping duplicates.
func (t *Torrent) Trackers() []string {
	seen := make(map[string]bool)
	var trackers []string

	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		trackers = append(trackers, u)
	}

	if t.Announce != nil {
		add(*t.Announce)
	}
	for _, tier := range t.AnnounceList {
		for _, u := range tier {
			add(u)
		}
	}
	return trackers
}

func stringList(items []string) bencode.Value {
	values := make([]bencode.Value, 0, len(items))
	for _, item := range items {
		values = append(values, bencode.String(item))
	}
	return bencode.List(values...)
}

func putString(entries map[string]bencode.Value, key string, s *string) {
	if s != nil {
		entries[key] = bencode.String(*s)
	}
}

func putInt(entries map[string]bencode.Value, key string, n *int64) {
	if n != nil {
		entries[key] = bencode.Int(*n)
	}
}
