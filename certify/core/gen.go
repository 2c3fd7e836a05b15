package core

import (
	"fmt"

	"github.com/Trinoooo/collatz_cert/certify/core/logs"
	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
	"go.uber.org/zap"
)

// CheckParams K/L范围校验，任何计算开始之前执行
func CheckParams(k, l uint32) error {
	if k < consts.MinK || k > consts.MaxK {
		return errs.NewInvalidParamErr().WithErr(fmt.Errorf("k=%d, expect [%d, %d]", k, consts.MinK, consts.MaxK))
	}
	if l < consts.MinL {
		return errs.NewInvalidParamErr().WithErr(fmt.Errorf("l=%d, expect >= %d", l, consts.MinL))
	}
	return nil
}

// GenerateCertificate 生成表文件和配套清单
// 表落盘失败时不产出清单，调用方应当丢弃输出
func GenerateCertificate(k, l uint32, threads int, tablePath, manifestPath string) (*Manifest, error) {
	if err := CheckParams(k, l); err != nil {
		return nil, err
	}

	table, parallelMin := Generate(k, l, threads)
	logs.Info("table generated", zap.Uint32("min_s", parallelMin))

	digestHex, err := WriteTableFile(tablePath, table, k, l)
	if err != nil {
		return nil, err
	}

	cert := Derive(table, l)
	mf := NewManifest(k, l, uint64(len(table)), cert, digestHex)
	if err = mf.Save(manifestPath); err != nil {
		return nil, err
	}

	logs.Info("certificate generated",
		zap.Uint32("min_s", cert.MinS),
		zap.Uint32("threshold", cert.Threshold),
		zap.Bool("pass", cert.Pass),
		zap.Float64("eps", cert.Eps),
	)
	return mf, nil
}

// DefaultTablePath 缺省表文件名
func DefaultTablePath(k, l uint32) string {
	return fmt.Sprintf("table_k%d_l%d_v%d.bin", k, l, consts.FileVerCurrent)
}

// DefaultManifestPath 缺省清单文件名
func DefaultManifestPath(k, l uint32) string {
	return fmt.Sprintf("cert_k%d_l%d_v%d.json", k, l, consts.FileVerCurrent)
}
