package consts

// 表文件布局（全小端）：
// | magic 4字节 | version 4字节 | k 4字节 | l 4字节 |
// | count 8字节 | reserved 8字节 |
// | entries count*width字节 | sha256摘要 32字节 |
// 摘要只覆盖entries区域
const (
	Magic = "CALT"

	FileVerLegacy  = 1 // 条目宽度2字节
	FileVerCurrent = 2 // 条目宽度4字节

	EntryWidthLegacy  = 2
	EntryWidthCurrent = 4

	HeaderSize = 32
	DigestSize = 32
)

// EntryWidth 版本号 -> 条目宽度，未知版本返回0
func EntryWidth(ver uint32) int {
	switch ver {
	case FileVerLegacy:
		return EntryWidthLegacy
	case FileVerCurrent:
		return EntryWidthCurrent
	default:
		return 0
	}
}
