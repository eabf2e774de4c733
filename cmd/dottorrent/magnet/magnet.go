package magnet

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/torrent"
)

const (
	scheme     = "magnet:?"
	btihPrefix = "urn:btih:"
)

// Link is a BitTorrent magnet link.
type Link struct {
	InfoHash   string
	Name       string
	Trackers   []string
	ExactTopic string
}

// FromTorrent builds the magnet link for a parsed torrent: its info-hash,
// its name and every tracker in announce order.
func FromTorrent(t *torrent.Torrent) *Link {
	infoHash := t.InfoHashSHA1()
	return &Link{
		ExactTopic: btihPrefix + infoHash,
		InfoHash:   infoHash,
		Name:       t.Info.Name,
		Trackers:   t.Trackers(),
	}
}

// String renders the link as a magnet URI. Parameters are emitted in the
// order xt, dn, tr so the output is stable.
func (l *Link) String() string {
	var b strings.Builder
	b.WriteString(scheme + "xt=")
	b.WriteString(btihPrefix + l.InfoHash)

	if l.Name != "" {
		b.WriteString("&dn=")
		b.WriteString(url.QueryEscape(l.Name))
	}
	for _, tr := range l.Trackers {
		b.WriteString("&tr=")
		b.WriteString(url.QueryEscape(tr))
	}
	return b.String()
}

// Parse reads a magnet URI. The xt parameter must carry a 40-character hex
// BitTorrent info-hash; dn and tr are optional.
func Parse(uri string) (*Link, error) {
	query, ok := strings.CutPrefix(uri, scheme)
	if !ok {
		return nil, fmt.Errorf("invalid magnet URI format")
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse magnet URI query: %w", err)
	}

	xt := values.Get("xt")
	infoHash, err := parseInfoHash(xt)
	if err != nil {
		return nil, err
	}

	return &Link{
		ExactTopic: xt,
		InfoHash:   infoHash,
		Name:       values.Get("dn"),
		Trackers:   values["tr"],
	}, nil
}

// parseInfoHash returns the info-hash of an urn:btih topic in lowercase hex.
func parseInfoHash(xt string) (string, error) {
	encoded, ok := strings.CutPrefix(xt, btihPrefix)
	if !ok {
		return "", fmt.Errorf("xt %q is not a urn:btih topic", xt)
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid hex-encoded info hash: %w", err)
	}
	if len(raw) != sha1.Size {
		return "", fmt.Errorf("info hash is %d bytes, want %d", len(raw), sha1.Size)
	}
	return hex.EncodeToString(raw), nil
}
