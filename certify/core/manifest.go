package core

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/Trinoooo/collatz_cert/utils"
	pkgerrors "github.com/pkg/errors"
)

// BuildGitRev 构建时通过 -ldflags "-X ...core.BuildGitRev=$(git rev-parse HEAD)" 注入
var BuildGitRev = "unknown"

// Manifest 证书清单，生成时产出一次，之后只读
// 校验流程以它为比对基准，永远不回写
type Manifest struct {
	K              uint32  `json:"k"`
	L              uint32  `json:"l"`
	Count          uint64  `json:"count"`
	MinS           uint32  `json:"min_s"`
	Eps            float64 `json:"eps"`
	Threshold      uint32  `json:"threshold"`
	Pass           bool    `json:"pass"`
	Sha256TableHex string  `json:"sha256_table_hex"`
	Sha256ExecHex  string  `json:"sha256_exec_hex"`
	GeneratorCmd   string  `json:"generator_cmdline"`
	PkgVersion     string  `json:"pkg_version"`
	BuildGitRev    string  `json:"build_git_rev"`
	BuildGo        string  `json:"build_go"`
	OsArch         string  `json:"os_arch"`
	GenTs          string  `json:"gen_ts"`
	// FileVer 缺省/为0表示版本未知，校验时跳过版本比对
	FileVer uint32 `json:"file_ver,omitempty"`
}

// NewManifest 组装清单，含本次运行的溯源信息
// 溯源字段不保证跨机器逐字节一致（时间戳、命令行）
func NewManifest(k, l uint32, count uint64, cert *Certificate, tableDigestHex string) *Manifest {
	return &Manifest{
		K:              k,
		L:              l,
		Count:          count,
		MinS:           cert.MinS,
		Eps:            cert.Eps,
		Threshold:      cert.Threshold,
		Pass:           cert.Pass,
		Sha256TableHex: tableDigestHex,
		Sha256ExecHex:  execDigest(),
		GeneratorCmd:   strings.Join(os.Args, " "),
		PkgVersion:     consts.Version,
		BuildGitRev:    BuildGitRev,
		BuildGo:        runtime.Version(),
		OsArch:         fmt.Sprintf("%s-%s", runtime.GOOS, runtime.GOARCH),
		GenTs:          time.Now().UTC().Format(time.RFC3339),
		FileVer:        consts.FileVerCurrent,
	}
}

func execDigest() string {
	exe, err := os.Executable()
	if err != nil {
		return "unknown"
	}
	digest, err := utils.Sha256File(exe)
	if err != nil {
		return "unknown"
	}
	return digest
}

func (mf *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return errs.NewJsonMarshalErr().WithErr(err)
	}

	fd, err := utils.CheckAndCreateFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0660)
	if err != nil {
		return err
	}

	if _, err = fd.Write(data); err != nil {
		_ = fd.Close()
		return errs.NewWriteFileErr().WithErr(pkgerrors.Wrap(err, path))
	}

	if err = fd.Close(); err != nil {
		return errs.NewCloseFileErr().WithErr(err)
	}
	return nil
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewReadFileErr().WithErr(pkgerrors.Wrap(err, path))
	}

	mf := &Manifest{}
	if err = json.Unmarshal(data, mf); err != nil {
		return nil, errs.NewJsonUnmarshalErr().WithErr(err)
	}
	return mf, nil
}
