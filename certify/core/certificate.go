package core

import (
	"math"
)

// Certificate 由表推导出的判定结果
type Certificate struct {
	MinS      uint32
	Threshold uint32
	Eps       float64
	Pass      bool
}

func Log2Of3() float64 {
	return math.Log2(3)
}

// Threshold 严格阈值 floor(L*log2(3)) + 1
// 生成和校验要用同一个表达式算log2(3)，避免精度漂移改变floor结果
func Threshold(l uint32) uint32 {
	return uint32(math.Floor(float64(l)*Log2Of3())) + 1
}

// Derive 从表推导证书标量，纯函数
// 不管表来自新计算还是文件装载，走的都是这一条路径
func Derive(table Table, l uint32) *Certificate {
	minS := table.Min()
	thr := Threshold(l)
	return &Certificate{
		MinS:      minS,
		Threshold: thr,
		Eps:       float64(minS)/float64(l) - Log2Of3(),
		Pass:      minS >= thr,
	}
}
