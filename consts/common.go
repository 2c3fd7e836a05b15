package consts

const (
	B = 1 << (iota * 10)
	KB
	MB
	GB
)

const HelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
COMMANDS:
{{range .Commands}}{{if not .HideHelp}}   {{join .Names ", "}}{{ "\t"}}{{.Usage}}{{ "\n" }}{{end}}{{end}}{{end}}{{if .VisibleFlags}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}{{if .Copyright }}
COPYRIGHT:
   {{.Copyright}}
   {{end}}{{if .Version}}
VERSION:
   {{.Version}}
   {{end}}
`

const Version = "0.0.1.260830_alpha"

// K上限保证2^K的中间运算不超出64位无符号整数
// 同时限制表体积在可行范围内
const (
	MinK = 2
	MaxK = 28
	MinL = 1
)

const (
	DefaultK       = 24
	DefaultL       = 256
	DefaultBins    = 50
	DefaultThreads = 0 // 0表示取可用核数
)

const (
	LogFieldParams = "params"
	LogFieldValue  = "value"
	LogFieldPath   = "path"
	LogFieldField  = "field"
	Subsystem      = "subsystem"
	Engine         = "engine"
)
