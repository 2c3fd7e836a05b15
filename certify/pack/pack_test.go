package pack

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Trinoooo/collatz_cert/certify/core"
	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/Trinoooo/collatz_cert/utils"
)

func generateTestCert(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	tablePath := filepath.Join(dir, core.DefaultTablePath(4, 8))
	manifestPath := filepath.Join(dir, core.DefaultManifestPath(4, 8))
	if _, err := core.GenerateCertificate(4, 8, 2, tablePath, manifestPath); err != nil {
		t.Fatal(err)
	}
	return tablePath, manifestPath
}

func TestArchive(t *testing.T) {
	tablePath, manifestPath := generateTestCert(t)
	outPath := filepath.Join(t.TempDir(), "cert.tar.gz")

	result, err := Archive(tablePath, manifestPath, outPath, true)
	if err != nil {
		t.Fatal(err)
	}

	digest, err := utils.Sha256File(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if result.Sha256Hex != digest {
		t.Error("reported archive digest differs from file digest")
	}

	names := listArchive(t, outPath)
	if len(names) != 2 || names[0] != filepath.Base(tablePath) || names[1] != filepath.Base(manifestPath) {
		t.Error("expect basenames of table and manifest, got", names)
	}

	checksums, err := os.ReadFile(filepath.Join(filepath.Dir(outPath), "CHECKSUMS.sha256"))
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("%s  %s\n", digest, filepath.Base(outPath))
	if string(checksums) != want {
		t.Error("checksums content mismatch, got", strings.TrimSpace(string(checksums)))
	}
}

// 坏表不进归档
func TestArchiveRejectsCorruptTable(t *testing.T) {
	tablePath, manifestPath := generateTestCert(t)

	data, err := os.ReadFile(tablePath)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err = os.WriteFile(tablePath, data, 0660); err != nil {
		t.Fatal(err)
	}

	_, err = Archive(tablePath, manifestPath, filepath.Join(t.TempDir(), "cert.tar.gz"), false)
	if errs.GetCode(err) != errs.HashMismatchErrCode {
		t.Error("expect hash mismatch, got", err)
	}
}

func listArchive(t *testing.T, path string) []string {
	t.Helper()
	fd, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()

	gz, err := gzip.NewReader(fd)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gz)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)
	}
	return names
}
