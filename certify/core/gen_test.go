package core

import (
	"os"
	"testing"
)

// 不带输出路径参数时，产物按默认文件名直接落在当前目录
func TestGenerateDefaultPaths(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err = os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	tablePath := DefaultTablePath(4, 8)
	manifestPath := DefaultManifestPath(4, 8)
	mf, err := GenerateCertificate(4, 8, 2, tablePath, manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = os.Stat(tablePath); err != nil {
		t.Error("table file missing:", err)
	}
	if _, err = os.Stat(manifestPath); err != nil {
		t.Error("manifest file missing:", err)
	}

	cert, err := Verify(4, 8, tablePath, manifestPath, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cert.MinS != mf.MinS || cert.Pass != mf.Pass {
		t.Error("verify derived different certificate:", cert)
	}
}
