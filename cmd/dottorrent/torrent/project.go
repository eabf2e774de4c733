package torrent

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/bencode"
)

const hashSize = 20

type Option func(*options)

type options struct {
	keepUnknownKeys bool
}

// KeepUnknownKeys keeps info and file keys the model does not know in
// Info.Extra and FileEntry.Extra so the info-hash matches encoders that emit
// extension keys such as BEP-47 attr.
func KeepUnknownKeys() Option {
	return func(o *options) {
		o.keepUnknownKeys = true
	}
}

// Parse decodes a .torrent file and projects it into a Torrent.
func Parse(data []byte, opts ...Option) (*Torrent, error) {
	decoded, err := bencode.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode torrent: %w", err)
	}
	return Project(decoded, opts...)
}

// Project builds a Torrent from a decoded value. The Torrent copies every
// byte slice it keeps, so v may be modified afterwards. On error no Torrent
// is returned.
func Project(v bencode.Value, opts ...Option) (*Torrent, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	root, err := asDict(v, "")
	if err != nil {
		return nil, err
	}

	t := &Torrent{}
	if t.Announce, err = root.optionalString(keyAnnounce); err != nil {
		return nil, err
	}
	if t.AnnounceList, err = root.optionalTiers(keyAnnounceList); err != nil {
		return nil, err
	}
	if t.CreationDate, err = root.optionalInt(keyCreationDate); err != nil {
		return nil, err
	}
	if t.Comment, err = root.optionalString(keyComment); err != nil {
		return nil, err
	}
	if t.CreatedBy, err = root.optionalString(keyCreatedBy); err != nil {
		return nil, err
	}
	if t.Encoding, err = root.optionalString(keyEncoding); err != nil {
		return nil, err
	}
	if t.Nodes, err = root.optionalNodes(keyNodes); err != nil {
		return nil, err
	}
	if t.HTTPSeeds, err = root.optionalStrings(keyHTTPSeeds); err != nil {
		return nil, err
	}

	infoValue, err := root.require(keyInfo, bencode.KindDict)
	if err != nil {
		return nil, err
	}
	info, err := projectInfo(dict{path: keyInfo, entries: infoValue.Dict}, o)
	if err != nil {
		return nil, err
	}
	t.Info = info

	return t, nil
}

func projectInfo(d dict, o options) (Info, error) {
	var (
		info Info
		err  error
	)

	if info.Name, err = d.requireString(keyName); err != nil {
		return Info{}, err
	}

	pieceLength, err := d.require(keyPieceLength, bencode.KindInteger)
	if err != nil {
		return Info{}, err
	}
	if pieceLength.Int <= 0 {
		return Info{}, &FieldError{Field: d.field(keyPieceLength), Err: ErrInvalidValue}
	}
	info.PieceLength = pieceLength.Int

	pieces, err := d.require(keyPieces, bencode.KindString)
	if err != nil {
		return Info{}, err
	}
	if len(pieces.Bytes)%hashSize != 0 {
		return Info{}, &FieldError{Field: d.field(keyPieces), Err: ErrInvalidPieceBuffer}
	}
	info.Pieces = bytes.Clone(pieces.Bytes)

	length, hasLength, err := d.lookup(keyLength, bencode.KindInteger)
	if err != nil {
		return Info{}, err
	}
	files, hasFiles, err := d.lookup(keyFiles, bencode.KindList)
	if err != nil {
		return Info{}, err
	}

	switch {
	case hasLength && hasFiles:
		return Info{}, &FieldError{Field: d.path, Err: ErrAmbiguousFileLayout}
	case !hasLength && !hasFiles:
		return Info{}, &FieldError{Field: d.field(keyLength), Err: ErrMissingField}
	case hasLength:
		if length.Int < 0 {
			return Info{}, &FieldError{Field: d.field(keyLength), Err: ErrInvalidValue}
		}
		info.Length = &length.Int
	default:
		if info.Files, err = projectFiles(d.field(keyFiles), files.List, o); err != nil {
			return Info{}, err
		}
	}

	if info.MD5Sum, err = d.optionalString(keyMD5Sum); err != nil {
		return Info{}, err
	}
	if info.Private, err = d.optionalInt(keyPrivate); err != nil {
		return Info{}, err
	}
	if info.Private != nil && *info.Private != 0 && *info.Private != 1 {
		return Info{}, &FieldError{Field: d.field(keyPrivate), Err: ErrInvalidValue}
	}
	if info.MetaVersion, err = d.optionalInt(keyMetaVersion); err != nil {
		return Info{}, err
	}

	if o.keepUnknownKeys {
		info.Extra = d.unknown(knownInfoKeys)
	}

	return info, nil
}

func projectFiles(path string, items []bencode.Value, o options) ([]FileEntry, error) {
	if len(items) == 0 {
		return nil, &FieldError{Field: path, Err: ErrInvalidValue}
	}

	files := make([]FileEntry, 0, len(items))
	for i, item := range items {
		d, err := asDict(item, index(path, i))
		if err != nil {
			return nil, err
		}

		var f FileEntry
		length, err := d.require(keyLength, bencode.KindInteger)
		if err != nil {
			return nil, err
		}
		if length.Int < 0 {
			return nil, &FieldError{Field: d.field(keyLength), Err: ErrInvalidValue}
		}
		f.Length = length.Int

		segments, err := d.require(keyPath, bencode.KindList)
		if err != nil {
			return nil, err
		}
		if len(segments.List) == 0 {
			return nil, &FieldError{Field: d.field(keyPath), Err: ErrInvalidValue}
		}
		if f.Path, err = stringItems(d.field(keyPath), segments.List); err != nil {
			return nil, err
		}

		if f.MD5Sum, err = d.optionalString(keyMD5Sum); err != nil {
			return nil, err
		}
		if o.keepUnknownKeys {
			f.Extra = d.unknown(knownFileKeys)
		}
		files = append(files, f)
	}
	return files, nil
}

// dict is a dictionary being projected, along with its dotted path for errors.
type dict struct {
	path    string
	entries map[string]bencode.Value
}

func asDict(v bencode.Value, path string) (dict, error) {
	if v.Kind != bencode.KindDict {
		return dict{}, mismatch(path, bencode.KindDict)
	}
	return dict{path: path, entries: v.Dict}, nil
}

func (d dict) field(key string) string {
	if d.path == "" {
		return key
	}
	return d.path + "." + key
}

func (d dict) lookup(key string, kind bencode.Kind) (bencode.Value, bool, error) {
	v, ok := d.entries[key]
	if !ok {
		return bencode.Value{}, false, nil
	}
	if v.Kind != kind {
		return bencode.Value{}, false, mismatch(d.field(key), kind)
	}
	return v, true, nil
}

// unknown returns deep copies of the entries whose keys are not in known,
// or nil if there are none.
func (d dict) unknown(known map[string]bool) map[string]bencode.Value {
	var extra map[string]bencode.Value
	for k, v := range d.entries {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]bencode.Value)
		}
		extra[k] = v.Clone()
	}
	return extra
}

func (d dict) require(key string, kind bencode.Kind) (bencode.Value, error) {
	v, ok, err := d.lookup(key, kind)
	if err != nil {
		return bencode.Value{}, err
	}
	if !ok {
		return bencode.Value{}, &FieldError{Field: d.field(key), Err: ErrMissingField}
	}
	return v, nil
}

func (d dict) requireString(key string) (string, error) {
	v, err := d.require(key, bencode.KindString)
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (d dict) optionalString(key string) (*string, error) {
	v, ok, err := d.lookup(key, bencode.KindString)
	if err != nil || !ok {
		return nil, err
	}
	s := v.Str()
	return &s, nil
}

func (d dict) optionalInt(key string) (*int64, error) {
	v, ok, err := d.lookup(key, bencode.KindInteger)
	if err != nil || !ok {
		return nil, err
	}
	n := v.Int
	return &n, nil
}

func (d dict) optionalStrings(key string) ([]string, error) {
	v, ok, err := d.lookup(key, bencode.KindList)
	if err != nil || !ok {
		return nil, err
	}
	return stringItems(d.field(key), v.List)
}

func (d dict) optionalTiers(key string) ([][]string, error) {
	v, ok, err := d.lookup(key, bencode.KindList)
	if err != nil || !ok {
		return nil, err
	}

	tiers := make([][]string, 0, len(v.List))
	for i, tier := range v.List {
		path := index(d.field(key), i)
		if tier.Kind != bencode.KindList {
			return nil, mismatch(path, bencode.KindList)
		}
		urls, err := stringItems(path, tier.List)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, urls)
	}
	return tiers, nil
}

// Nodes are two-element lists: [host, port].
func (d dict) optionalNodes(key string) ([]Node, error) {
	v, ok, err := d.lookup(key, bencode.KindList)
	if err != nil || !ok {
		return nil, err
	}

	nodes := make([]Node, 0, len(v.List))
	for i, item := range v.List {
		path := index(d.field(key), i)
		if item.Kind != bencode.KindList || len(item.List) != 2 {
			return nil, mismatch(path, bencode.KindList)
		}
		host, port := item.List[0], item.List[1]
		if host.Kind != bencode.KindString {
			return nil, mismatch(index(path, 0), bencode.KindString)
		}
		if port.Kind != bencode.KindInteger {
			return nil, mismatch(index(path, 1), bencode.KindInteger)
		}
		nodes = append(nodes, Node{Host: host.Str(), Port: port.Int})
	}
	return nodes, nil
}

func stringItems(path string, items []bencode.Value) ([]string, error) {
	result := make([]string, 0, len(items))
	for i, item := range items {
		if item.Kind != bencode.KindString {
			return nil, mismatch(index(path, i), bencode.KindString)
		}
		result = append(result, item.Str())
	}
	return result, nil
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func mismatch(field string, expected bencode.Kind) error {
	return &FieldError{Field: field, Expected: expected, Err: ErrTypeMismatch}
}
