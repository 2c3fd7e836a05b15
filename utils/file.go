package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path"

	"github.com/Trinoooo/collatz_cert/errs"
)

func CheckAndCreateFile(filePath string, flag int, perm os.FileMode) (*os.File, error) {
	// 裸文件名落在当前目录，没有父目录需要创建
	if dir, _ := path.Split(filePath); dir != "" {
		_, err := os.Stat(dir)
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(dir, 0770); err != nil {
				return nil, errs.NewMkdirErr().WithErr(err)
			}
		} else if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return nil, errs.NewFileNoPermissionErr().WithErr(err)
			}
			return nil, errs.NewFileStatErr().WithErr(err)
		}
	}

	fd, err := os.OpenFile(filePath, flag, perm)
	if err != nil {
		return nil, errs.NewOpenFileErr().WithErr(err)
	}
	return fd, nil
}

// Sha256File 流式计算文件摘要，返回十六进制串
// 避免把大文件整体读进内存
func Sha256File(filePath string) (string, error) {
	fd, err := os.Open(filePath)
	if err != nil {
		return "", errs.NewOpenFileErr().WithErr(err)
	}
	defer fd.Close()

	hasher := sha256.New()
	if _, err = io.Copy(hasher, fd); err != nil {
		return "", errs.NewReadFileErr().WithErr(err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
