package torrent

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

// InfoHash is the SHA-1 of the canonical info encoding. It is computed from
// the model, never from the original input bytes.
func (t *Torrent) InfoHash() [sha1.Size]byte {
	return sha1.Sum(t.Info.Bytes())
}

// InfoHashSHA1 returns the info-hash as 40 lowercase hex characters.
func (t *Torrent) InfoHashSHA1() string {
	hash := t.InfoHash()
	return hex.EncodeToString(hash[:])
}

// InfoHashMD5 returns the MD5 of the same canonical info bytes as 32
// lowercase hex characters. Trackers and peers do not use it.
func (t *Torrent) InfoHashMD5() string {
	hash := md5.Sum(t.Info.Bytes())
	return hex.EncodeToString(hash[:])
}
