package pack

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Trinoooo/collatz_cert/certify/core"
	"github.com/Trinoooo/collatz_cert/certify/core/logs"
	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/Trinoooo/collatz_cert/utils"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result 归档产物描述
// Sha256Hex 是归档自身的摘要，独立于表内嵌摘要，不互相替代
type Result struct {
	ArchivePath string
	Sha256Hex   string
}

// Archive 把表文件和清单打成tar.gz
// 打包前先走一遍表文件读取路径，坏文件不进归档
func Archive(tablePath, manifestPath, outPath string, checksums bool) (*Result, error) {
	tf, err := core.ReadTableFile(tablePath)
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		outPath = fmt.Sprintf("cert_k%d_l%d_v%d.tar.gz", tf.K, tf.L, tf.Ver)
	}

	if err = writeArchive(outPath, tablePath, manifestPath); err != nil {
		_ = os.Remove(outPath)
		return nil, err
	}

	digestHex, err := utils.Sha256File(outPath)
	if err != nil {
		return nil, err
	}

	if checksums {
		if err = writeChecksums(outPath, digestHex); err != nil {
			return nil, err
		}
	}

	logs.Info("archive written",
		zap.String(consts.LogFieldPath, outPath),
		zap.String("sha256", digestHex),
	)
	return &Result{ArchivePath: outPath, Sha256Hex: digestHex}, nil
}

func writeArchive(outPath, tablePath, manifestPath string) error {
	fd, err := utils.CheckAndCreateFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0660)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(fd)
	tw := tar.NewWriter(gz)

	// 归档内只保留文件基名
	for _, p := range []string{tablePath, manifestPath} {
		if err = appendFile(tw, p); err != nil {
			_ = tw.Close()
			_ = gz.Close()
			_ = fd.Close()
			return err
		}
	}

	if err = tw.Close(); err != nil {
		_ = gz.Close()
		_ = fd.Close()
		return errs.NewWriteFileErr().WithErr(err)
	}
	if err = gz.Close(); err != nil {
		_ = fd.Close()
		return errs.NewWriteFileErr().WithErr(err)
	}
	if err = fd.Close(); err != nil {
		return errs.NewCloseFileErr().WithErr(err)
	}
	return nil
}

func appendFile(tw *tar.Writer, path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return errs.NewOpenFileErr().WithErr(pkgerrors.Wrap(err, path))
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return errs.NewFileStatErr().WithErr(pkgerrors.Wrap(err, path))
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errs.NewWriteFileErr().WithErr(err)
	}
	hdr.Name = filepath.Base(path)

	if err = tw.WriteHeader(hdr); err != nil {
		return errs.NewWriteFileErr().WithErr(err)
	}
	if _, err = io.Copy(tw, fd); err != nil {
		return errs.NewWriteFileErr().WithErr(pkgerrors.Wrap(err, path))
	}
	return nil
}

// writeChecksums 在归档旁边写CHECKSUMS.sha256
// 行格式与sha256sum工具一致：<hex>两个空格<基名>
func writeChecksums(archivePath, digestHex string) error {
	checksumPath := filepath.Join(filepath.Dir(archivePath), "CHECKSUMS.sha256")
	fd, err := utils.CheckAndCreateFile(checksumPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0660)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(fd, "%s  %s\n", digestHex, filepath.Base(archivePath)); err != nil {
		_ = fd.Close()
		return errs.NewWriteFileErr().WithErr(err)
	}
	if err = fd.Close(); err != nil {
		return errs.NewCloseFileErr().WithErr(err)
	}
	return nil
}
