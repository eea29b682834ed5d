// Package fixture builds small but structurally valid FLAC and MP3 files
// for tests.
package fixture

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// KnownID is the identifier carried by the "full" fixtures.
var KnownID = strings.Repeat("0", 32) + "-al"

// Audio stands in for encoded audio frames after the metadata.
var Audio = bytes.Repeat([]byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x13, 0x37, 0x42}, 64)

var mpegAudio = append([]byte{0xFF, 0xFB, 0x90, 0x64}, bytes.Repeat([]byte{0x55}, 508)...)

// EmptyFLAC returns a FLAC file with STREAMINFO only: no comment block, no padding.
func EmptyFLAC() []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")
	flacBlockHeader(buf, 0, true, 34)
	buf.Write(streamInfo())
	buf.Write(Audio)
	return buf.Bytes()
}

// FullFLAC returns a FLAC file with standard comments, the given
// identifier and a padding block.
func FullFLAC(id string) []byte {
	comments := []string{"TITLE=Test Song", "ARTIST=Test Artist", "AUDIOLINK_ID=" + id}

	vc := &bytes.Buffer{}
	vendor := "reference libFLAC 1.4.3 20230623"
	binary.Write(vc, binary.LittleEndian, uint32(len(vendor)))
	vc.WriteString(vendor)
	binary.Write(vc, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		binary.Write(vc, binary.LittleEndian, uint32(len(c)))
		vc.WriteString(c)
	}

	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")
	flacBlockHeader(buf, 0, false, 34)
	buf.Write(streamInfo())
	flacBlockHeader(buf, 4, false, vc.Len())
	buf.Write(vc.Bytes())
	flacBlockHeader(buf, 1, true, 256)
	buf.Write(make([]byte, 256))
	buf.Write(Audio)
	return buf.Bytes()
}

// EmptyMP3 returns an MPEG stream with no ID3v2 tag.
func EmptyMP3() []byte {
	return bytes.Clone(mpegAudio)
}

// FullMP3 returns an MP3 with an ID3v2.3 tag holding a title, an artist
// and the given identifier in a TXXX frame, plus padding.
func FullMP3(id string) []byte {
	body := &bytes.Buffer{}
	id3Frame(body, "TIT2", append([]byte{0}, "Test Song"...))
	id3Frame(body, "TPE1", append([]byte{0}, "Test Artist"...))
	id3Frame(body, "TXXX", append(append([]byte{0}, "AUDIOLINK_ID"...), append([]byte{0}, id...)...))
	body.Write(make([]byte, 256))

	buf := &bytes.Buffer{}
	buf.WriteString("ID3")
	buf.Write([]byte{3, 0, 0})
	size := uint32(body.Len())
	buf.Write([]byte{byte(size>>21) & 0x7F, byte(size>>14) & 0x7F, byte(size>>7) & 0x7F, byte(size) & 0x7F})
	buf.Write(body.Bytes())
	buf.Write(mpegAudio)
	return buf.Bytes()
}

// Empty returns the empty fixture for ext (".flac" or ".mp3").
func Empty(ext string) []byte {
	if ext == ".mp3" {
		return EmptyMP3()
	}
	return EmptyFLAC()
}

// Full returns the tagged fixture for ext (".flac" or ".mp3").
func Full(ext, id string) []byte {
	if ext == ".mp3" {
		return FullMP3(id)
	}
	return FullFLAC(id)
}

// Write stores data as dir/name and returns the path.
func Write(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatal(err)
	}
	return path
}

func flacBlockHeader(buf *bytes.Buffer, typ byte, last bool, length int) {
	if last {
		typ |= 0x80
	}
	buf.Write([]byte{typ, byte(length >> 16), byte(length >> 8), byte(length)})
}

// streamInfo describes one second of 44.1kHz 16-bit stereo.
func streamInfo() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(4096))
	binary.Write(buf, binary.BigEndian, uint16(4096))
	buf.Write(make([]byte, 6))
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36 | uint64(44100)
	binary.Write(buf, binary.BigEndian, packed)
	buf.Write(make([]byte, 16))
	return buf.Bytes()
}

func id3Frame(buf *bytes.Buffer, id string, data []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write([]byte{0, 0})
	buf.Write(data)
}
