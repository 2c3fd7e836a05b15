package core

import (
	"math"
	"math/bits"
)

// Compute 计算单个奇剩余类在L步3x+1迭代下累计的二进制赋值
// idx对应模2^k的奇剩余 2*idx+1
// 纯函数，无共享状态，可以被多协程并发调用
//
// 注意t要在未截断的情况下数尾零：3m+1可能是比mask更高的2的幂，
// 先mask会把本应计入的赋值丢掉。mask只在每轮开头作用到m上。
func Compute(k, l uint32, idx uint64) uint32 {
	mask := uint64(1)<<k - 1
	m := idx<<1 | 1
	var sum uint64
	for i := uint32(0); i < l; i++ {
		t := 3*(m&mask) + 1
		e := uint64(bits.TrailingZeros64(t))
		sum += e
		m = (t >> e) & mask
	}

	// 饱和到输出类型上限，生成和校验两侧必须一致
	if sum > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(sum)
}
