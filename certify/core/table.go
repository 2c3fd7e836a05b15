package core

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Trinoooo/collatz_cert/certify/core/logs"
	"github.com/bytedance/gopkg/util/gopool"
	"go.uber.org/zap"
)

// Table 每个奇剩余类一个条目，长度恒为2^(k-1)
type Table []uint32

// minTracker 全表最小值，多个worker并发更新
// 只在严格更小时CAS替换，冲突重试，不要求worker间顺序
type minTracker struct {
	cur atomic.Uint32
}

func newMinTracker() *minTracker {
	mt := &minTracker{}
	mt.cur.Store(math.MaxUint32)
	return mt
}

func (mt *minTracker) observe(v uint32) {
	for {
		cur := mt.cur.Load()
		if v >= cur {
			return
		}
		if mt.cur.CompareAndSwap(cur, v) {
			return
		}
	}
}

func (mt *minTracker) value() uint32 {
	return mt.cur.Load()
}

// resolveThreads threads<=0时取可用核数
func resolveThreads(threads int) int {
	if threads <= 0 {
		return runtime.NumCPU()
	}
	return threads
}

// forEachIndex 把索引空间切成连续块分给固定大小的协程池
// visit必须只触碰自己的idx对应的槽位，块之间不共享可变状态
func forEachIndex(k, l uint32, threads int, visit func(idx uint64, v uint32)) {
	count := uint64(1) << (k - 1)
	nthreads := resolveThreads(threads)
	logs.Info("parallel compute", zap.Int("threads", nthreads), zap.Uint64("count", count))

	chunk := count / uint64(nthreads)
	if chunk == 0 {
		chunk = 1
	}

	pool := gopool.NewPool("collatz_cert_workers", int32(nthreads), gopool.NewConfig())
	wg := sync.WaitGroup{}
	for lo := uint64(0); lo < count; lo += chunk {
		hi := lo + chunk
		if hi > count {
			hi = count
		}

		lo, hi := lo, hi
		wg.Add(1)
		pool.Go(func() {
			defer wg.Done()
			for idx := lo; idx < hi; idx++ {
				visit(idx, Compute(k, l, idx))
			}
		})
	}
	wg.Wait()
}

// Generate 并行生成整张表，返回表和全表最小值
// k、l的范围校验由调用方完成
func Generate(k, l uint32, threads int) (Table, uint32) {
	count := uint64(1) << (k - 1)
	table := make(Table, count)
	mt := newMinTracker()

	forEachIndex(k, l, threads, func(idx uint64, v uint32) {
		table[idx] = v
		mt.observe(v)
	})

	return table, mt.value()
}

// Min 全表扫描最小值，不采样
func (t Table) Min() uint32 {
	mn := uint32(math.MaxUint32)
	for _, v := range t {
		if v < mn {
			mn = v
		}
	}
	return mn
}
