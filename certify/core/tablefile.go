package core

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/Trinoooo/collatz_cert/certify/core/logs"
	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/Trinoooo/collatz_cert/utils"
	"go.uber.org/zap"
)

// TableFile 表文件解码结果
type TableFile struct {
	K       uint32
	L       uint32
	Ver     uint32
	Count   uint64
	Digest  string // entries区域sha256的十六进制串
	Entries Table
}

// WriteTableFile 以当前版本（4字节条目）落盘
// 条目逐个写入bufio并同步喂给哈希，不会把整张表的字节在内存里存两份
// 先写临时文件，成功后rename替换，中途失败不会留下看似合法的半成品
func WriteTableFile(path string, table Table, k, l uint32) (string, error) {
	tmpPath := path + ".tmp"
	fd, err := utils.CheckAndCreateFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0660)
	if err != nil {
		return "", err
	}

	digest, err := writeTableBody(fd, table, k, l)
	if err != nil {
		_ = fd.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}

	if err = fd.Sync(); err != nil {
		_ = fd.Close()
		_ = os.Remove(tmpPath)
		return "", errs.NewSyncFileErr().WithErr(err)
	}

	if err = fd.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errs.NewCloseFileErr().WithErr(err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", errs.NewRenameFileErr().WithErr(err)
	}

	digestHex := hex.EncodeToString(digest)
	logs.Info("table file written", zap.String(consts.LogFieldPath, path), zap.String("sha256", digestHex))
	return digestHex, nil
}

func writeTableBody(fd *os.File, table Table, k, l uint32) ([]byte, error) {
	w := bufio.NewWriter(fd)

	var header [consts.HeaderSize]byte
	copy(header[:4], consts.Magic)
	binary.LittleEndian.PutUint32(header[4:8], consts.FileVerCurrent)
	binary.LittleEndian.PutUint32(header[8:12], k)
	binary.LittleEndian.PutUint32(header[12:16], l)
	binary.LittleEndian.PutUint64(header[16:24], uint64(len(table)))
	// header[24:32] 保留位，置零
	if _, err := w.Write(header[:]); err != nil {
		return nil, errs.NewWriteFileErr().WithErr(err)
	}

	hasher := sha256.New()
	var entry [consts.EntryWidthCurrent]byte
	for _, v := range table {
		binary.LittleEndian.PutUint32(entry[:], v)
		hasher.Write(entry[:])
		if _, err := w.Write(entry[:]); err != nil {
			return nil, errs.NewWriteFileErr().WithErr(err)
		}
	}

	digest := hasher.Sum(nil)
	if _, err := w.Write(digest); err != nil {
		return nil, errs.NewWriteFileErr().WithErr(err)
	}

	if err := w.Flush(); err != nil {
		return nil, errs.NewWriteFileErr().WithErr(err)
	}
	return digest, nil
}

// ReadTableFile 读取并校验表文件
// 任何格式/完整性问题都是致命错误，不容忍也不修复
func ReadTableFile(path string) (*TableFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewReadFileErr().WithErr(err)
	}
	tf, err := ParseTableFile(data)
	if err != nil {
		logs.Error(err.Error(), zap.String(consts.LogFieldPath, path))
		return nil, err
	}
	return tf, nil
}

// ReadTableHeader 只读并校验头部，不触碰条目区
// 给调用方在做全量摘要之前先比对参数的机会
func ReadTableHeader(path string) (*TableFile, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errs.NewOpenFileErr().WithErr(err)
	}
	defer fd.Close()

	var header [consts.HeaderSize]byte
	if _, err = io.ReadFull(fd, header[:]); err != nil {
		return nil, errs.NewBadLengthErr().WithErr(err)
	}

	tf, _, err := parseHeader(header[:])
	if err != nil {
		logs.Error(err.Error(), zap.String(consts.LogFieldPath, path))
		return nil, err
	}
	return tf, nil
}

// parseHeader 校验magic/版本/参数字段，返回未填条目的骨架和条目字节宽
func parseHeader(header []byte) (*TableFile, int, error) {
	if !bytes.Equal(header[:4], []byte(consts.Magic)) {
		return nil, 0, errs.NewBadMagicErr()
	}

	ver := binary.LittleEndian.Uint32(header[4:8])
	width := consts.EntryWidth(ver)
	if width == 0 {
		return nil, 0, errs.NewBadVersionErr()
	}

	k := binary.LittleEndian.Uint32(header[8:12])
	l := binary.LittleEndian.Uint32(header[12:16])
	count := binary.LittleEndian.Uint64(header[16:24])

	if k < consts.MinK || k > consts.MaxK || l < consts.MinL {
		return nil, 0, errs.NewInvalidParamErr().WithErr(fmt.Errorf("file declares k=%d l=%d", k, l))
	}
	if count != uint64(1)<<(k-1) {
		return nil, 0, errs.NewBadLengthErr().WithErr(fmt.Errorf("count=%d, expect 2^(k-1)=%d", count, uint64(1)<<(k-1)))
	}

	return &TableFile{
		K:     k,
		L:     l,
		Ver:   ver,
		Count: count,
	}, width, nil
}

// ParseTableFile 解码表文件字节
// 校验顺序：最小长度 -> 头部字段 -> 精确总长度 -> 摘要 -> 条目解码
// 两个版本共用一条解码路径，只在版本号上分支一次
func ParseTableFile(data []byte) (*TableFile, error) {
	if len(data) < consts.HeaderSize+consts.DigestSize {
		return nil, errs.NewBadLengthErr()
	}

	tf, width, err := parseHeader(data[:consts.HeaderSize])
	if err != nil {
		return nil, err
	}

	need := uint64(consts.HeaderSize) + tf.Count*uint64(width) + consts.DigestSize
	if uint64(len(data)) != need {
		return nil, errs.NewBadLengthErr()
	}

	entryBytes := data[consts.HeaderSize : consts.HeaderSize+tf.Count*uint64(width)]
	trailer := data[consts.HeaderSize+tf.Count*uint64(width):]
	digest := sha256.Sum256(entryBytes)
	if !bytes.Equal(trailer, digest[:]) {
		return nil, errs.NewHashMismatchErr()
	}

	table := make(Table, tf.Count)
	switch tf.Ver {
	case consts.FileVerLegacy:
		for i := uint64(0); i < tf.Count; i++ {
			table[i] = uint32(binary.LittleEndian.Uint16(entryBytes[i*2:]))
		}
	default:
		for i := uint64(0); i < tf.Count; i++ {
			table[i] = binary.LittleEndian.Uint32(entryBytes[i*4:])
		}
	}

	tf.Digest = hex.EncodeToString(digest[:])
	tf.Entries = table
	return tf, nil
}
