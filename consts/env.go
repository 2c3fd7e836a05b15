package consts

const (
	EnvK        = "COLLATZ_CERT_K"         // 模数指数
	EnvL        = "COLLATZ_CERT_L"         // 迭代深度
	EnvThreads  = "COLLATZ_CERT_THREADS"   // 计算协程数
	EnvPushAddr = "COLLATZ_CERT_PUSH_ADDR" // prometheus pushgateway地址，为空时不上报
	Home        = "HOME"                   // 家目录
)
