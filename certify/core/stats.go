package core

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/Trinoooo/collatz_cert/utils"
)

// Stats 已校验表上的只读汇总
type Stats struct {
	Min  uint32
	Max  uint32
	Mean float64
}

// Histogram 固定桶数直方图，区间[lo, hi)等宽切分
type Histogram struct {
	Lo       float64
	BinWidth float64
	Counts   []uint64
}

func ComputeStats(table Table) (*Stats, error) {
	if len(table) == 0 {
		return nil, errs.NewEmptyTableErr()
	}

	mn := uint32(math.MaxUint32)
	mx := uint32(0)
	sum := float64(0)
	for _, v := range table {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
		sum += float64(v)
	}

	return &Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / float64(len(table)),
	}, nil
}

// BuildHistogram 对表分桶
// max==min时右界加一，避免零宽桶；越界值并入最后一个桶
func BuildHistogram(table Table, bins int, st *Stats) *Histogram {
	if bins < 1 {
		bins = 1
	}

	lo := float64(st.Min)
	hi := float64(st.Max)
	if hi <= lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)

	counts := make([]uint64, bins)
	for _, v := range table {
		idx := int(math.Floor((float64(v) - lo) / width))
		if idx < 0 {
			idx = 0
		}
		if idx > bins-1 {
			idx = bins - 1
		}
		counts[idx]++
	}

	return &Histogram{
		Lo:       lo,
		BinWidth: width,
		Counts:   counts,
	}
}

// WriteCSV 输出 bin_lo,bin_hi,count
func (h *Histogram) WriteCSV(path string) error {
	fd, err := utils.CheckAndCreateFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0660)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(fd)
	if _, err = fmt.Fprintln(w, "bin_lo,bin_hi,count"); err != nil {
		_ = fd.Close()
		return errs.NewWriteFileErr().WithErr(err)
	}
	for i, c := range h.Counts {
		binLo := h.Lo + float64(i)*h.BinWidth
		binHi := h.Lo + float64(i+1)*h.BinWidth
		if _, err = fmt.Fprintf(w, "%.6f,%.6f,%d\n", binLo, binHi, c); err != nil {
			_ = fd.Close()
			return errs.NewWriteFileErr().WithErr(err)
		}
	}

	if err = w.Flush(); err != nil {
		_ = fd.Close()
		return errs.NewWriteFileErr().WithErr(err)
	}
	if err = fd.Close(); err != nil {
		return errs.NewCloseFileErr().WithErr(err)
	}
	return nil
}
