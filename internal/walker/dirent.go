package walker

import (
	"bytes"
	"encoding/binary"
)

// linux_dirent64 header: d_ino (8), d_off (8), d_reclen (2), d_type (1),
// followed by the NUL-terminated d_name.
const (
	direntReclenOff = 16
	direntTypeOff   = 18
	direntNameOff   = 19
)

// dirent is one parsed directory entry.
type dirent struct {
	name string
	typ  uint8 // unix.DT_*
}

// parseDirents decodes raw getdents64 output. dst is reused; "." and ".."
// are dropped.
func parseDirents(buf []byte, dst []dirent) []dirent {
	entries := dst[:0]
	for len(buf) >= direntNameOff {
		reclen := int(binary.NativeEndian.Uint16(buf[direntReclenOff:]))
		if reclen == 0 {
			break
		}
		rec := buf[:min(reclen, len(buf))]
		name := rec[direntNameOff:]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		if s := string(name); s != "." && s != ".." {
			entries = append(entries, dirent{name: s, typ: rec[direntTypeOff]})
		}
		buf = buf[len(rec):]
	}
	return entries
}
