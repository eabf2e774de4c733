package torrent_test

import (
	"crypto/sha1"
	"strconv"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/bencode"
)

const pieceLength = 262144

func fakePieces(n int) []byte {
	pieces := make([]byte, 0, n*sha1.Size)
	for i := 0; i < n; i++ {
		sum := sha1.Sum([]byte(strconv.Itoa(i)))
		pieces = append(pieces, sum[:]...)
	}
	return pieces
}

func piecesFor(total int64) int {
	return int((total + pieceLength - 1) / pieceLength)
}

func strs(items ...string) bencode.Value {
	values := make([]bencode.Value, 0, len(items))
	for _, item := range items {
		values = append(values, bencode.String(item))
	}
	return bencode.List(values...)
}

// debianTorrent mirrors the layout of the Debian 12.5.0 DVD torrent.
func debianTorrent() []byte {
	const length = 3992977408
	return bencode.Encode(bencode.Dict(map[string]bencode.Value{
		"announce":      bencode.String("http://bttracker.debian.org:6969/announce"),
		"comment":       bencode.String(`"Debian CD from cdimage.debian.org"`),
		"created by":    bencode.String("mktorrent 1.1"),
		"creation date": bencode.Int(1707570148),
		"info": bencode.Dict(map[string]bencode.Value{
			"length":       bencode.Int(length),
			"name":         bencode.String("debian-12.5.0-amd64-DVD-1.iso"),
			"piece length": bencode.Int(pieceLength),
			"pieces":       bencode.Bytes(fakePieces(piecesFor(length))),
		}),
	}))
}

func bunnyFile(length int64, path ...string) bencode.Value {
	return bencode.Dict(map[string]bencode.Value{
		"length": bencode.Int(length),
		"path":   strs(path...),
	})
}

// bunnyTorrent mirrors the layout of the Big Buck Bunny WebTorrent sample.
func bunnyTorrent() []byte {
	const total = 140 + 276134947 + 310380
	return bencode.Encode(bencode.Dict(map[string]bencode.Value{
		"announce": bencode.String("udp://tracker.leechers-paradise.org:6969"),
		"announce-list": bencode.List(
			strs("udp://tracker.leechers-paradise.org:6969"),
			strs("udp://tracker.coppersurfer.tk:6969"),
			strs("udp://explodie.org:6969", "wss://tracker.openwebtorrent.com"),
		),
		"comment":       bencode.String("WebTorrent <https://webtorrent.io>"),
		"created by":    bencode.String("WebTorrent <https://webtorrent.io>"),
		"creation date": bencode.Int(1490916601),
		"encoding":      bencode.String("UTF-8"),
		"info": bencode.Dict(map[string]bencode.Value{
			"files": bencode.List(
				bunnyFile(140, "Big Buck Bunny.en.srt"),
				bunnyFile(276134947, "Big Buck Bunny.mp4"),
				bunnyFile(310380, "poster.jpg"),
			),
			"name":         bencode.String("Big Buck Bunny"),
			"piece length": bencode.Int(pieceLength),
			"pieces":       bencode.Bytes(fakePieces(piecesFor(total))),
		}),
		"url-list": strs("https://webtorrent.io/torrents/"),
	}))
}
