package core

import (
	"crypto/sha256"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
)

var testTable = Table{16, 17, 18, 14, 14, 15, 19, 13} // k=4 l=8

func writeTestFile(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.bin")
	digest, err := WriteTableFile(path, testTable, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	return path, digest
}

func TestTableFileRoundTrip(t *testing.T) {
	path, digest := writeTestFile(t)

	tf, err := ReadTableFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if tf.K != 4 || tf.L != 8 {
		t.Error("expect k=4 l=8, got", tf.K, tf.L)
	}
	if tf.Ver != consts.FileVerCurrent {
		t.Error("expect current version, got", tf.Ver)
	}
	if tf.Count != uint64(len(testTable)) {
		t.Error("expect count", len(testTable), "got", tf.Count)
	}
	if tf.Digest != digest {
		t.Error("digest mismatch between write and read")
	}
	for idx, want := range testTable {
		if tf.Entries[idx] != want {
			t.Error("idx", idx, "expect", want, "got", tf.Entries[idx])
		}
	}
}

// 只读头部不碰条目区：条目被截掉后头部仍可读，全量读取则报错
func TestReadTableHeader(t *testing.T) {
	path, _ := writeTestFile(t)

	hdr, err := ReadTableHeader(path)
	if err != nil {
		t.Fatal(err)
	}
	if hdr.K != 4 || hdr.L != 8 || hdr.Count != uint64(len(testTable)) {
		t.Error("unexpected header:", hdr.K, hdr.L, hdr.Count)
	}
	if hdr.Entries != nil {
		t.Error("header read should not decode entries")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(path, data[:consts.HeaderSize], 0660); err != nil {
		t.Fatal(err)
	}

	if _, err = ReadTableHeader(path); err != nil {
		t.Error("truncated entries should not break header read:", err)
	}
	if _, err = ReadTableFile(path); errs.GetCode(err) != errs.BadLengthErrCode {
		t.Error("expect bad length on truncated file, got", err)
	}
}

// entries区域任意一位翻转都必须报完整性错误
func TestTableFileEntryBitFlip(t *testing.T) {
	path, _ := writeTestFile(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	entriesEnd := consts.HeaderSize + len(testTable)*consts.EntryWidthCurrent
	for off := consts.HeaderSize; off < entriesEnd; off++ {
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[off] ^= 0x01

		_, err = ParseTableFile(mutated)
		if errs.GetCode(err) != errs.HashMismatchErrCode {
			t.Fatal("offset", off, ": expect hash mismatch, got", err)
		}
	}
}

// 保留位翻转不影响读取
func TestTableFileReservedBitFlip(t *testing.T) {
	path, _ := writeTestFile(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for off := 24; off < consts.HeaderSize; off++ {
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[off] ^= 0x80

		if _, err = ParseTableFile(mutated); err != nil {
			t.Error("offset", off, ": reserved flip should be tolerated, got", err)
		}
	}
}

func TestTableFileCorruptions(t *testing.T) {
	path, _ := writeTestFile(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	badMagic := make([]byte, len(data))
	copy(badMagic, data)
	badMagic[0] = 'X'
	if _, err = ParseTableFile(badMagic); errs.GetCode(err) != errs.BadMagicErrCode {
		t.Error("expect bad magic, got", err)
	}

	badVer := make([]byte, len(data))
	copy(badVer, data)
	binary.LittleEndian.PutUint32(badVer[4:8], 3)
	if _, err = ParseTableFile(badVer); errs.GetCode(err) != errs.BadVersionErrCode {
		t.Error("expect bad version, got", err)
	}

	if _, err = ParseTableFile(data[:len(data)-1]); errs.GetCode(err) != errs.BadLengthErrCode {
		t.Error("expect bad length on truncation, got", err)
	}

	if _, err = ParseTableFile(append(append([]byte{}, data...), 0)); errs.GetCode(err) != errs.BadLengthErrCode {
		t.Error("expect bad length on extension, got", err)
	}

	if _, err = ParseTableFile(data[:16]); errs.GetCode(err) != errs.BadLengthErrCode {
		t.Error("expect bad length on tiny file, got", err)
	}
}

// buildLegacyFile 手工构造v1（2字节条目）表文件
func buildLegacyFile(k, l uint32, table Table) []byte {
	data := make([]byte, consts.HeaderSize, consts.HeaderSize+len(table)*consts.EntryWidthLegacy+consts.DigestSize)
	copy(data[:4], consts.Magic)
	binary.LittleEndian.PutUint32(data[4:8], consts.FileVerLegacy)
	binary.LittleEndian.PutUint32(data[8:12], k)
	binary.LittleEndian.PutUint32(data[12:16], l)
	binary.LittleEndian.PutUint64(data[16:24], uint64(len(table)))

	var entry [consts.EntryWidthLegacy]byte
	for _, v := range table {
		binary.LittleEndian.PutUint16(entry[:], uint16(v))
		data = append(data, entry[:]...)
	}

	digest := sha256.Sum256(data[consts.HeaderSize:])
	return append(data, digest[:]...)
}

func TestTableFileLegacyRead(t *testing.T) {
	data := buildLegacyFile(4, 8, testTable)

	tf, err := ParseTableFile(data)
	if err != nil {
		t.Fatal(err)
	}

	if tf.Ver != consts.FileVerLegacy {
		t.Error("expect legacy version, got", tf.Ver)
	}
	for idx, want := range testTable {
		if tf.Entries[idx] != want {
			t.Error("idx", idx, "expect", want, "got", tf.Entries[idx])
		}
	}
}

// 写路径中断不能留下最终产物
func TestWriteLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.bin")
	if _, err := WriteTableFile(path, testTable, 4, 8); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away, stat err:", err)
	}
}
