package errs

import (
	"errors"
	"fmt"
)

type CertErr struct {
	msg  string
	code int64
	err  error
}

// Error 输出格式：
// [错误码] 错误类型描述 ( => 包含错误详细描述 )
// 解释：(xxx) 表示可选内容
func (ce *CertErr) Error() string {
	details := fmt.Sprintf("[%d] %s", ce.code, ce.msg)
	if ce.err != nil {
		details += fmt.Sprintf(" => %s", ce.err)
	}

	return details
}

func (ce *CertErr) Code() int64 {
	return ce.code
}

func (ce *CertErr) WithErr(err error) *CertErr {
	ce.err = err
	return ce
}

func (ce *CertErr) Unwrap() error {
	return ce.err
}

func GetCode(err error) int64 {
	var ce *CertErr
	if errors.As(err, &ce) {
		return ce.code
	}
	return UnknownErrCode
}

// 错误码分类：
// 2001xx 参数错误
// 2002xx 文件格式错误
// 2003xx 完整性错误
// 2004xx 一致性错误
// 1000xx I/O错误
const (
	UnknownErrCode = 0

	InvalidParamErrCode  = 200101
	ParamMismatchErrCode = 200102

	BadMagicErrCode   = 200201
	BadVersionErrCode = 200202
	BadLengthErrCode  = 200203
	EmptyTableErrCode = 200204

	HashMismatchErrCode = 200301

	ValueMismatchErrCode    = 200401
	ManifestMismatchErrCode = 200402

	OpenFileErrCode         = 100001
	FileStatErrCode         = 100002
	FileNoPermissionErrCode = 100003
	MkdirErrCode            = 100004
	ReadFileErrCode         = 100005
	WriteFileErrCode        = 100006
	SyncFileErrCode         = 100007
	CloseFileErrCode        = 100008
	RenameFileErrCode       = 100009
	CreateTempFileErrCode   = 100010
	RemoveFileErrCode       = 100011
	JsonMarshalErrCode      = 100012
	JsonUnmarshalErrCode    = 100013
)

func NewUnknownErr() *CertErr {
	return &CertErr{msg: "unknown error", code: UnknownErrCode}
}

func NewInvalidParamErr() *CertErr {
	return &CertErr{msg: "invalid params", code: InvalidParamErrCode}
}

func NewParamMismatchErr() *CertErr {
	return &CertErr{msg: "declared params differ from file params", code: ParamMismatchErrCode}
}

func NewBadMagicErr() *CertErr {
	return &CertErr{msg: "bad magic, not a table file", code: BadMagicErrCode}
}

func NewBadVersionErr() *CertErr {
	return &CertErr{msg: "unknown table file version", code: BadVersionErrCode}
}

func NewBadLengthErr() *CertErr {
	return &CertErr{msg: "table file length corrupt", code: BadLengthErrCode}
}

func NewEmptyTableErr() *CertErr {
	return &CertErr{msg: "table has no entries", code: EmptyTableErrCode}
}

func NewHashMismatchErr() *CertErr {
	return &CertErr{msg: "table digest mismatch, file corrupted or tampered", code: HashMismatchErrCode}
}

func NewValueMismatchErr() *CertErr {
	return &CertErr{msg: "recomputed entries disagree with stored table", code: ValueMismatchErrCode}
}

func NewManifestMismatchErr() *CertErr {
	return &CertErr{msg: "manifest field disagrees with recomputed certificate", code: ManifestMismatchErrCode}
}

func NewOpenFileErr() *CertErr {
	return &CertErr{msg: "open file failed", code: OpenFileErrCode}
}

func NewFileStatErr() *CertErr {
	return &CertErr{msg: "file stat failed", code: FileStatErrCode}
}

func NewFileNoPermissionErr() *CertErr {
	return &CertErr{msg: "file no permission", code: FileNoPermissionErrCode}
}

func NewMkdirErr() *CertErr {
	return &CertErr{msg: "mkdir failed", code: MkdirErrCode}
}

func NewReadFileErr() *CertErr {
	return &CertErr{msg: "read file failed", code: ReadFileErrCode}
}

func NewWriteFileErr() *CertErr {
	return &CertErr{msg: "write file failed", code: WriteFileErrCode}
}

func NewSyncFileErr() *CertErr {
	return &CertErr{msg: "sync file failed", code: SyncFileErrCode}
}

func NewCloseFileErr() *CertErr {
	return &CertErr{msg: "close file failed", code: CloseFileErrCode}
}

func NewRenameFileErr() *CertErr {
	return &CertErr{msg: "rename file failed", code: RenameFileErrCode}
}

func NewCreateTempFileErr() *CertErr {
	return &CertErr{msg: "create temp file failed", code: CreateTempFileErrCode}
}

func NewRemoveFileErr() *CertErr {
	return &CertErr{msg: "remove file failed", code: RemoveFileErrCode}
}

func NewJsonMarshalErr() *CertErr {
	return &CertErr{msg: "json marshal failed", code: JsonMarshalErrCode}
}

func NewJsonUnmarshalErr() *CertErr {
	return &CertErr{msg: "json unmarshal failed", code: JsonUnmarshalErrCode}
}
