package metrics

import (
	"os"
	"time"

	"github.com/Trinoooo/collatz_cert/certify/logs"
	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

type MetricsHelper struct {
	TableGenCounter      prometheus.Counter   // 生成的表数量
	VerifyFailureCounter prometheus.Counter   // 校验失败次数
	ComputeDuration      prometheus.Histogram // 单次并行计算耗时
}

// NewMetricsHelper 注册采集器并启动push循环
// COLLATZ_CERT_PUSH_ADDR为空时返回空实现，不上报
func NewMetricsHelper() *MetricsHelper {
	tableGenCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collatz_cert_table_gen_counter",
	})
	verifyFailureCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collatz_cert_verify_failure_counter",
	})
	computeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "collatz_cert_compute_duration_seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	helper := &MetricsHelper{
		TableGenCounter:      tableGenCounter,
		VerifyFailureCounter: verifyFailureCounter,
		ComputeDuration:      computeDuration,
	}

	pushAddr := os.Getenv(consts.EnvPushAddr)
	if pushAddr == "" {
		return helper
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		tableGenCounter,
		verifyFailureCounter,
		computeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pusher := push.New(pushAddr, "collatz_cert").Gatherer(registry)
	go func() {
		for {
			if err := pusher.Add(); err != nil {
				logs.Logger.Warn("prometheus pusher push failed", zap.Error(err))
			}
			time.Sleep(5 * time.Second)
		}
	}()

	return helper
}

// ObserveCompute 记录一次计算耗时
func (mh *MetricsHelper) ObserveCompute(start time.Time) {
	mh.ComputeDuration.Observe(time.Since(start).Seconds())
}
