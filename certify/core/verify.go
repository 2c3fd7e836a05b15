package core

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Trinoooo/collatz_cert/certify/core/logs"
	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/Trinoooo/collatz_cert/utils"
	"github.com/luci/go-render/render"
	"go.uber.org/zap"
)

// epsTolerance 清单eps与重算eps的绝对容差
const epsTolerance = 1e-12

// maxReportedMismatches 一致性失败时最多记录的样本条目数
const maxReportedMismatches = 8

// mismatchRecorder 收集少量不一致条目用于诊断输出
// 并发worker竞争写入，用互斥锁保护
type mismatchRecorder struct {
	mu      sync.Mutex
	samples []string
	total   atomic.Uint64
}

func (mr *mismatchRecorder) record(idx uint64, stored, recomputed uint32) {
	mr.total.Add(1)
	utils.WrapLock(&mr.mu, func() {
		if len(mr.samples) < maxReportedMismatches {
			mr.samples = append(mr.samples, fmt.Sprintf("idx %d: stored=%d recomputed=%d", idx, stored, recomputed))
		}
	})
}

// Verify 校验状态机：
// 参数比对 -> 装载 -> 摘要校验 -> 并行重算 -> 逐条比对 -> 清单比对
// 任意一步失败立即终止，没有部分通过的说法
func Verify(k, l uint32, tablePath, manifestPath string, threads int) (*Certificate, error) {
	if err := CheckParams(k, l); err != nil {
		return nil, err
	}

	// 先只看头部比对参数，别的参数生成的文件不值得做全表摘要
	hdr, err := ReadTableHeader(tablePath)
	if err != nil {
		return nil, err
	}
	if hdr.K != k || hdr.L != l {
		return nil, errs.NewParamMismatchErr().
			WithErr(fmt.Errorf("declared k=%d l=%d, file k=%d l=%d", k, l, hdr.K, hdr.L))
	}

	// 装载 + 摘要/长度校验
	tf, err := ReadTableFile(tablePath)
	if err != nil {
		return nil, err
	}

	// 并行重算，结果与任务划分方式无关
	// ok标志只是尽早暴露失败的信号，不中断在途任务
	recomputed := make(Table, tf.Count)
	ok := atomic.Bool{}
	ok.Store(true)
	recorder := &mismatchRecorder{}
	forEachIndex(k, l, threads, func(idx uint64, v uint32) {
		recomputed[idx] = v
		if v != tf.Entries[idx] {
			ok.Store(false)
			recorder.record(idx, tf.Entries[idx], v)
		}
	})

	if !ok.Load() {
		e := errs.NewValueMismatchErr().
			WithErr(fmt.Errorf("%d entries differ, samples: %v", recorder.total.Load(), recorder.samples))
		logs.Error(e.Error())
		return nil, e
	}

	cert := Derive(recomputed, l)

	mf, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if err = crossCheckManifest(mf, tf, cert); err != nil {
		logs.Error(err.Error())
		return nil, err
	}

	logs.Info("verify passed",
		zap.Uint32("min_s", cert.MinS),
		zap.Uint32("threshold", cert.Threshold),
		zap.Bool("pass", cert.Pass),
		zap.String("manifest", render.Render(mf)),
	)
	return cert, nil
}

// crossCheckManifest 清单声明值与重算值逐字段比对
// 失败时指明是哪个字段不一致
func crossCheckManifest(mf *Manifest, tf *TableFile, cert *Certificate) error {
	mismatch := func(field string, want, got any) error {
		return errs.NewManifestMismatchErr().
			WithErr(fmt.Errorf("%s: manifest=%v computed=%v", field, want, got))
	}

	if mf.K != tf.K || mf.L != tf.L {
		return mismatch("k/l", fmt.Sprintf("%d/%d", mf.K, mf.L), fmt.Sprintf("%d/%d", tf.K, tf.L))
	}
	if mf.Count != tf.Count {
		return mismatch("count", mf.Count, tf.Count)
	}
	if mf.Sha256TableHex != tf.Digest {
		return mismatch("sha256_table_hex", mf.Sha256TableHex, tf.Digest)
	}
	// 清单里file_ver缺省/为0表示版本未知，跳过比对，保持向前兼容
	if mf.FileVer != 0 && mf.FileVer != tf.Ver {
		return mismatch("file_ver", mf.FileVer, tf.Ver)
	}
	if mf.MinS != cert.MinS {
		return mismatch("min_s", mf.MinS, cert.MinS)
	}
	if mf.Threshold != cert.Threshold {
		return mismatch("threshold", mf.Threshold, cert.Threshold)
	}
	if mf.Pass != cert.Pass {
		return mismatch("pass", mf.Pass, cert.Pass)
	}
	if math.Abs(mf.Eps-cert.Eps) >= epsTolerance {
		return mismatch("eps", mf.Eps, cert.Eps)
	}
	return nil
}
