package core

import (
	"sync"
	"testing"
)

type KernelCase struct {
	Description string
	K           uint32
	L           uint32
	Expect      []uint32
}

// 期望值按§4.1算法手算/离线复核得到
var kernelCases = []*KernelCase{
	{
		Description: "k=2 l=1, valuation can reach k",
		K:           2,
		L:           1,
		Expect:      []uint32{2, 1},
	},
	{
		Description: "k=3 l=4",
		K:           3,
		L:           4,
		Expect:      []uint32{8, 9, 10, 8},
	},
	{
		Description: "k=4 l=8",
		K:           4,
		L:           8,
		Expect:      []uint32{16, 17, 18, 14, 14, 15, 19, 13},
	},
	{
		Description: "k=5 l=16",
		K:           5,
		L:           16,
		Expect:      []uint32{32, 33, 34, 33, 33, 34, 35, 31, 35, 34, 36, 32, 34, 32, 35, 30},
	},
	{
		Description: "k=6 l=12",
		K:           6,
		L:           12,
		Expect: []uint32{
			24, 25, 26, 25, 25, 26, 27, 26, 27, 26, 28, 27, 26, 22, 27, 23,
			26, 28, 27, 24, 23, 23, 28, 24, 27, 26, 29, 25, 23, 25, 28, 22,
		},
	},
}

func TestCompute(t *testing.T) {
	for _, item := range kernelCases {
		for idx, want := range item.Expect {
			got := Compute(item.K, item.L, uint64(idx))
			if got != want {
				t.Error(item.Description, ": idx", idx, "expect", want, "got", got)
			}
		}
		t.Log(item.Description, "pass")
	}
}

// 同一组参数在任意调用顺序/并发下结果必须一致
func TestComputeDeterminism(t *testing.T) {
	const k, l = 6, 12
	baseline := make([]uint32, 1<<(k-1))
	for idx := range baseline {
		baseline[idx] = Compute(k, l, uint64(idx))
	}

	wg := sync.WaitGroup{}
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := len(baseline) - 1; idx >= 0; idx-- {
				if got := Compute(k, l, uint64(idx)); got != baseline[idx] {
					t.Error("idx", idx, "expect", baseline[idx], "got", got)
				}
			}
		}()
	}
	wg.Wait()
}

func TestGenerate(t *testing.T) {
	for _, item := range kernelCases {
		table, minS := Generate(item.K, item.L, 3)
		if len(table) != len(item.Expect) {
			t.Fatal(item.Description, ": expect len", len(item.Expect), "got", len(table))
		}
		for idx, want := range item.Expect {
			if table[idx] != want {
				t.Error(item.Description, ": idx", idx, "expect", want, "got", table[idx])
			}
		}
		if minS != table.Min() {
			t.Error(item.Description, ": atomic min", minS, "differs from scan min", table.Min())
		}
	}
}

// 任务划分方式不能影响结果
func TestGeneratePartitionIndependence(t *testing.T) {
	for _, threads := range []int{1, 2, 7, 64} {
		table, minS := Generate(5, 16, threads)
		for idx, want := range kernelCases[3].Expect {
			if table[idx] != want {
				t.Error("threads", threads, ": idx", idx, "expect", want, "got", table[idx])
			}
		}
		if minS != 30 {
			t.Error("threads", threads, ": expect min 30, got", minS)
		}
	}
}
