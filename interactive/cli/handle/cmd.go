package handle

import (
	"log"
	"strconv"
	"strings"

	"github.com/Trinoooo/collatz_cert/certify/core"
	"github.com/Trinoooo/collatz_cert/utils"
)

// HandleInput 解析一行控制台输入并分发到对应操作
// 支持：
//
//	gen <k> <l> [threads]
//	verify <k> <l> <table> <manifest> [threads]
//	stats <table>
func HandleInput(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "gen":
		Gen(fields[1:])
	case "verify":
		Verify(fields[1:])
	case "stats":
		Stats(fields[1:])
	default:
		log.Println(utils.WrapWarn("unknown command: %s", fields[0]))
	}
}

func Gen(args []string) {
	if len(args) < 2 {
		log.Println(utils.WrapWarn("usage: gen <k> <l> [threads]"))
		return
	}

	k, l, ok := parseKL(args[0], args[1])
	if !ok {
		return
	}
	threads := parseThreads(args)

	mf, err := core.GenerateCertificate(k, l, threads, core.DefaultTablePath(k, l), core.DefaultManifestPath(k, l))
	if err != nil {
		log.Println(utils.WrapError("gen failed: %v", err))
		return
	}
	log.Println(utils.WrapInfo("min_S=%d thr=%d pass=%t eps=%.6f", mf.MinS, mf.Threshold, mf.Pass, mf.Eps))
}

func Verify(args []string) {
	if len(args) < 4 {
		log.Println(utils.WrapWarn("usage: verify <k> <l> <table> <manifest> [threads]"))
		return
	}

	k, l, ok := parseKL(args[0], args[1])
	if !ok {
		return
	}
	threads := 0
	if len(args) > 4 {
		threads, _ = strconv.Atoi(args[4])
	}

	cert, err := core.Verify(k, l, args[2], args[3], threads)
	if err != nil {
		log.Println(utils.WrapError("verify failed: %v", err))
		return
	}
	log.Println(utils.WrapInfo("verify passed, min_S=%d thr=%d pass=%t", cert.MinS, cert.Threshold, cert.Pass))
}

func Stats(args []string) {
	if len(args) < 1 {
		log.Println(utils.WrapWarn("usage: stats <table>"))
		return
	}

	tf, err := core.ReadTableFile(args[0])
	if err != nil {
		log.Println(utils.WrapError("stats failed: %v", err))
		return
	}

	st, err := core.ComputeStats(tf.Entries)
	if err != nil {
		log.Println(utils.WrapError("stats failed: %v", err))
		return
	}
	log.Println(utils.WrapInfo("K=%d L=%d ver=%d count=%d min_S=%d max_S=%d mean=%.3f",
		tf.K, tf.L, tf.Ver, tf.Count, st.Min, st.Max, st.Mean))
}

func parseKL(rawK, rawL string) (uint32, uint32, bool) {
	k, errK := strconv.ParseUint(rawK, 10, 32)
	l, errL := strconv.ParseUint(rawL, 10, 32)
	if errK != nil || errL != nil {
		log.Println(utils.WrapWarn("k and l must be unsigned integers"))
		return 0, 0, false
	}

	if err := core.CheckParams(uint32(k), uint32(l)); err != nil {
		log.Println(utils.WrapError("%v", err))
		return 0, 0, false
	}
	return uint32(k), uint32(l), true
}

func parseThreads(args []string) int {
	if len(args) > 2 {
		threads, _ := strconv.Atoi(args[2])
		return threads
	}
	return 0
}
