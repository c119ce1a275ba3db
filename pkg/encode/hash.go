package encode

import (
	"crypto/md5"
	"encoding/hex"
)

// CalMd5 calculates MD5 of bytes. Used to derive dedup keys from
// notification payloads, not for anything security sensitive.
func CalMd5(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
